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

package hashing

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blinklabs-io/goprimitives/cbor"
)

const DigestSize = 32

// Digest is the fixed-size output of a Hasher.
type Digest [DigestSize]byte

// NewDigest creates a Digest from the provided bytes. Short input is zero-padded
// and long input is truncated.
func NewDigest(data []byte) Digest {
	d := Digest{}
	copy(d[:], data)
	return d
}

// DigestFromHex parses a hex-encoded digest.
func DigestFromHex(s string) (Digest, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, err
	}
	if len(data) != DigestSize {
		return Digest{}, fmt.Errorf(
			"invalid digest length: expected %d bytes, got %d",
			DigestSize,
			len(data),
		)
	}
	return NewDigest(data), nil
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) Bytes() []byte {
	return d[:]
}

// IsZero returns whether every byte of the digest is zero.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) Xor(o Digest) Digest {
	for i := range d {
		d[i] ^= o[i]
	}
	return d
}

func (d Digest) And(o Digest) Digest {
	for i := range d {
		d[i] &= o[i]
	}
	return d
}

func (d Digest) Or(o Digest) Digest {
	for i := range d {
		d[i] |= o[i]
	}
	return d
}

func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d Digest) MarshalCBOR() ([]byte, error) {
	// Ensure we always encode a full-sized bytestring, even if the hash is zero-valued
	hashBytes := make([]byte, DigestSize)
	copy(hashBytes, d[:])
	return cbor.Encode(hashBytes)
}

func (d *Digest) UnmarshalCBOR(data []byte) error {
	var tmp []byte
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	if len(tmp) != DigestSize {
		return errors.New("invalid digest length")
	}
	copy(d[:], tmp)
	return nil
}
