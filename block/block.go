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

// Package block defines the structural contracts for headers, extrinsics and
// blocks, the header digest log, and the mapping between block hashes and
// numbers.
package block

import (
	"github.com/blinklabs-io/goprimitives/hashing"
)

// SignedState reports whether an extrinsic carries a signature. Extrinsics
// that cannot tell report SignedUnknown.
type SignedState uint8

const (
	SignedUnknown SignedState = iota
	Signed
	Unsigned
)

func (s SignedState) String() string {
	switch s {
	case Signed:
		return "signed"
	case Unsigned:
		return "unsigned"
	default:
		return "unknown"
	}
}

// Extrinsic is an item carried in a block body.
type Extrinsic interface {
	IsSigned() SignedState
}

// Header is a block header. Hash is computed from the current contents on each
// call.
type Header interface {
	Number() uint64
	SetNumber(uint64)
	ExtrinsicsRoot() hashing.Digest
	SetExtrinsicsRoot(hashing.Digest)
	StateRoot() hashing.Digest
	SetStateRoot(hashing.Digest)
	ParentHash() hashing.Digest
	SetParentHash(hashing.Digest)
	Digest() *DigestLog
	Hash() hashing.Digest
}

// Block pairs a header with its extrinsics. Its hash is the header hash.
type Block[H Header, E Extrinsic] interface {
	Header() H
	Extrinsics() []E
	Deconstruct() (H, []E)
	Hash() hashing.Digest
}
