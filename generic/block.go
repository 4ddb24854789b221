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

package generic

import (
	"fmt"
	"slices"

	"github.com/blinklabs-io/goprimitives/block"
	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/hashing"
	"github.com/jinzhu/copier"
)

// Block is a header together with its extrinsics.
type Block[E block.Extrinsic] struct {
	cbor.StructAsArray
	BlockHeader *Header
	Body        []E
}

func NewBlock[E block.Extrinsic](header *Header, extrinsics []E) *Block[E] {
	return &Block[E]{
		BlockHeader: header,
		Body:        extrinsics,
	}
}

func (b *Block[E]) Header() *Header {
	return b.BlockHeader
}

func (b *Block[E]) Extrinsics() []E {
	return b.Body
}

// Deconstruct returns a copy of the header and of the extrinsic list.
func (b *Block[E]) Deconstruct() (*Header, []E) {
	header := &Header{}
	if b.BlockHeader != nil {
		if err := copier.CopyWithOption(header, b.BlockHeader, copier.Option{DeepCopy: true}); err != nil {
			// Fall back to a shallow copy, which only shares the digest log
			*header = *b.BlockHeader
		}
	}
	return header, slices.Clone(b.Body)
}

// Hash returns the hash of the block header.
func (b *Block[E]) Hash() hashing.Digest {
	return b.BlockHeader.Hash()
}

// EncodeBlock produces the same bytes as encoding NewBlock(header, extrinsics),
// without building the block.
func EncodeBlock[E block.Extrinsic](header *Header, extrinsics []E) ([]byte, error) {
	headerCbor, err := cbor.Encode(header)
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	items := make([]cbor.RawMessage, 0, len(extrinsics))
	for idx, ext := range extrinsics {
		tmp, err := cbor.Encode(ext)
		if err != nil {
			return nil, fmt.Errorf("encode extrinsic %d: %w", idx, err)
		}
		items = append(items, tmp)
	}
	bodyCbor, err := cbor.EncodeRawList(items)
	if err != nil {
		return nil, err
	}
	return cbor.EncodeRawList([]cbor.RawMessage{headerCbor, bodyCbor})
}

// OpaqueExtrinsic is an encoded extrinsic whose format is not known. It encodes
// as a byte string.
type OpaqueExtrinsic []byte

var _ block.Extrinsic = OpaqueExtrinsic(nil)

// NewOpaqueExtrinsic encodes v and wraps the result.
func NewOpaqueExtrinsic(v any) (OpaqueExtrinsic, error) {
	data, err := cbor.Encode(v)
	if err != nil {
		return nil, err
	}
	return OpaqueExtrinsic(data), nil
}

// IsSigned always reports SignedUnknown.
func (OpaqueExtrinsic) IsSigned() block.SignedState {
	return block.SignedUnknown
}

// Hash returns the blake2b-256 hash of the wrapped bytes.
func (o OpaqueExtrinsic) Hash() hashing.Digest {
	return hashing.BlakeTwo256.Hash(o)
}

// ExtrinsicsRoot computes the ordered trie root of the encoded extrinsics.
func ExtrinsicsRoot[E block.Extrinsic](hasher hashing.Hasher, extrinsics []E) (hashing.Digest, error) {
	items := make([][]byte, 0, len(extrinsics))
	for idx, ext := range extrinsics {
		tmp, err := cbor.Encode(ext)
		if err != nil {
			return hashing.Digest{}, fmt.Errorf("encode extrinsic %d: %w", idx, err)
		}
		items = append(items, tmp)
	}
	return hasher.OrderedTrieRoot(items), nil
}
