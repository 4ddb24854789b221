// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package generic provides concrete implementations of the block contracts:
// a header, a block over any extrinsic type, opaque and unchecked extrinsics,
// the signed payload, and checked extrinsics that can be validated and applied.
//
// All wire encodings use the deterministic CBOR codec, so a value always
// encodes, and therefore hashes, to the same bytes.
package generic

import (
	"fmt"

	"github.com/blinklabs-io/goprimitives/block"
	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/hashing"
	"github.com/jinzhu/copier"
)

// HeaderBody holds the fields of a Header in wire order.
type HeaderBody struct {
	cbor.StructAsArray
	ParentHash     hashing.Digest
	Number         uint64
	StateRoot      hashing.Digest
	ExtrinsicsRoot hashing.Digest
	Digest         block.DigestLog
}

// Header is the default block header. Its hash is the blake2b-256 of its CBOR
// encoding.
type Header struct {
	Body HeaderBody
}

var _ block.Header = (*Header)(nil)

func NewHeader(
	number uint64,
	extrinsicsRoot hashing.Digest,
	stateRoot hashing.Digest,
	parentHash hashing.Digest,
	digest block.DigestLog,
) *Header {
	return &Header{
		Body: HeaderBody{
			ParentHash:     parentHash,
			Number:         number,
			StateRoot:      stateRoot,
			ExtrinsicsRoot: extrinsicsRoot,
			Digest:         digest,
		},
	}
}

func (h *Header) Number() uint64 {
	return h.Body.Number
}

func (h *Header) SetNumber(number uint64) {
	h.Body.Number = number
}

func (h *Header) ExtrinsicsRoot() hashing.Digest {
	return h.Body.ExtrinsicsRoot
}

func (h *Header) SetExtrinsicsRoot(root hashing.Digest) {
	h.Body.ExtrinsicsRoot = root
}

func (h *Header) StateRoot() hashing.Digest {
	return h.Body.StateRoot
}

func (h *Header) SetStateRoot(root hashing.Digest) {
	h.Body.StateRoot = root
}

func (h *Header) ParentHash() hashing.Digest {
	return h.Body.ParentHash
}

func (h *Header) SetParentHash(hash hashing.Digest) {
	h.Body.ParentHash = hash
}

// Digest returns the digest log, which may be modified in place.
func (h *Header) Digest() *block.DigestLog {
	return &h.Body.Digest
}

// Hash returns the blake2b-256 hash of the header.
func (h *Header) Hash() hashing.Digest {
	return h.HashWith(hashing.BlakeTwo256)
}

// HashWith hashes the header with the provided hasher. The hash is computed
// from the current contents on every call.
func (h *Header) HashWith(hasher hashing.Hasher) hashing.Digest {
	// A header only holds fixed-size values and byte strings, so encoding cannot fail
	return hasher.Hash(cbor.MustEncode(h))
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() (*Header, error) {
	ret := &Header{}
	if err := copier.CopyWithOption(ret, h, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone header: %w", err)
	}
	return ret, nil
}

func (h *Header) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(h.Body)
}

func (h *Header) UnmarshalCBOR(data []byte) error {
	return cbor.DecodeExact(data, &h.Body)
}
