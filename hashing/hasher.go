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

// Package hashing defines the content-addressing contract used throughout the
// module: a Hasher maps bytes to a fixed-size Digest and derives roots over
// ordered lists and keyed collections.
package hashing

import (
	"fmt"

	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Hasher is a pure function from bytes to a Digest, plus the root computations
// built on top of it.
type Hasher interface {
	// Name returns a short identifier for the hash function.
	Name() string
	// MultihashCode returns the multicodec code of the hash function.
	MultihashCode() uint64
	// Hash hashes the provided bytes.
	Hash(data []byte) Digest
	// HashOf encodes the provided value to CBOR and hashes the result.
	HashOf(v any) (Digest, error)
	// OrderedTrieRoot computes the root over an ordered list of items.
	OrderedTrieRoot(items [][]byte) Digest
	// TrieRoot computes the root over a keyed collection. Insertion order does not
	// affect the result.
	TrieRoot(pairs []KeyValue) Digest
}

type hasher struct {
	name string
	code uint64
	sum  func([]byte) Digest
}

func (h hasher) Name() string {
	return h.name
}

func (h hasher) MultihashCode() uint64 {
	return h.code
}

func (h hasher) Hash(data []byte) Digest {
	return h.sum(data)
}

func (h hasher) HashOf(v any) (Digest, error) {
	data, err := cbor.Encode(v)
	if err != nil {
		return Digest{}, fmt.Errorf("hash of %T: %w", v, err)
	}
	return h.sum(data), nil
}

func (h hasher) OrderedTrieRoot(items [][]byte) Digest {
	return orderedTrieRoot(h.sum, items)
}

func (h hasher) TrieRoot(pairs []KeyValue) Digest {
	return trieRoot(h.sum, pairs)
}

var (
	// BlakeTwo256 is Blake2b with a 256-bit output.
	BlakeTwo256 Hasher = hasher{
		name: "blake2b-256",
		code: multihash.BLAKE2B_MIN + 31,
		sum: func(data []byte) Digest {
			return Digest(blake2b.Sum256(data))
		},
	}
	// Keccak256 is the legacy (pre-standard) Keccak with a 256-bit output.
	Keccak256 Hasher = hasher{
		name: "keccak-256",
		code: multihash.KECCAK_256,
		sum: func(data []byte) Digest {
			h := sha3.NewLegacyKeccak256()
			h.Write(data)
			return NewDigest(h.Sum(nil))
		},
	}
	// Blake3 is BLAKE3 with a 256-bit output.
	Blake3 Hasher = hasher{
		name: "blake3",
		code: multihash.BLAKE3,
		sum: func(data []byte) Digest {
			return Digest(blake3.Sum256(data))
		},
	}
)

// ByName returns the hasher with the given name.
func ByName(name string) (Hasher, error) {
	for _, h := range []Hasher{BlakeTwo256, Keccak256, Blake3} {
		if h.Name() == name {
			return h, nil
		}
	}
	return nil, fmt.Errorf("unknown hasher: %s", name)
}

// Blake2b256Hash is shorthand for hashing with BlakeTwo256.
func Blake2b256Hash(data []byte) Digest {
	return BlakeTwo256.Hash(data)
}
