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

package block

import (
	"errors"
	"fmt"
	"sync"

	"github.com/blinklabs-io/goprimitives/hashing"
)

var ErrUnknownBlock = errors.New("unknown block")

// BlockID refers to a block either by hash or by number.
type BlockID struct {
	hash     hashing.Digest
	number   uint64
	isNumber bool
}

func BlockIDFromHash(hash hashing.Digest) BlockID {
	return BlockID{hash: hash}
}

func BlockIDFromNumber(number uint64) BlockID {
	return BlockID{number: number, isNumber: true}
}

func (b BlockID) Hash() (hashing.Digest, bool) {
	return b.hash, !b.isNumber
}

func (b BlockID) Number() (uint64, bool) {
	return b.number, b.isNumber
}

func (b BlockID) String() string {
	if b.isNumber {
		return fmt.Sprintf("number:%d", b.number)
	}
	return fmt.Sprintf("hash:%s", b.hash)
}

// BlockIDTo converts between the two forms of BlockID. A false result with a
// nil error means the block is not known.
type BlockIDTo interface {
	ToHash(id BlockID) (hashing.Digest, bool, error)
	ToNumber(id BlockID) (uint64, bool, error)
}

// Index maps block numbers to hashes and back. It is safe for concurrent use.
type Index struct {
	mu       sync.RWMutex
	byNumber map[uint64]hashing.Digest
	byHash   map[hashing.Digest]uint64
	best     uint64
}

func NewIndex() *Index {
	return &Index{
		byNumber: make(map[uint64]hashing.Digest),
		byHash:   make(map[hashing.Digest]uint64),
	}
}

// Insert records a block. Inserting a different hash at an existing number
// replaces the previous entry.
func (i *Index) Insert(number uint64, hash hashing.Digest) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if prev, ok := i.byNumber[number]; ok {
		delete(i.byHash, prev)
	}
	i.byNumber[number] = hash
	i.byHash[hash] = number
	if number > i.best {
		i.best = number
	}
}

// InsertHeader records the header's number and hash.
func (i *Index) InsertHeader(h Header) {
	i.Insert(h.Number(), h.Hash())
}

// Best returns the highest block number recorded.
func (i *Index) Best() uint64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.best
}

// BlockHash returns the hash of the block at number.
func (i *Index) BlockHash(number uint64) (hashing.Digest, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	hash, ok := i.byNumber[number]
	return hash, ok
}

func (i *Index) ToHash(id BlockID) (hashing.Digest, bool, error) {
	if hash, ok := id.Hash(); ok {
		return hash, true, nil
	}
	number, _ := id.Number()
	hash, ok := i.BlockHash(number)
	return hash, ok, nil
}

func (i *Index) ToNumber(id BlockID) (uint64, bool, error) {
	if number, ok := id.Number(); ok {
		return number, true, nil
	}
	hash, _ := id.Hash()
	i.mu.RLock()
	defer i.mu.RUnlock()
	number, ok := i.byHash[hash]
	return number, ok, nil
}

// ResolveHash is like BlockIDTo.ToHash, but reports an unknown block as
// ErrUnknownBlock.
func ResolveHash(conv BlockIDTo, id BlockID) (hashing.Digest, error) {
	hash, ok, err := conv.ToHash(id)
	if err != nil {
		return hash, err
	}
	if !ok {
		return hash, fmt.Errorf("%w: %s", ErrUnknownBlock, id)
	}
	return hash, nil
}

// ResolveNumber is like BlockIDTo.ToNumber, but reports an unknown block as
// ErrUnknownBlock.
func ResolveNumber(conv BlockIDTo, id BlockID) (uint64, error) {
	number, ok, err := conv.ToNumber(id)
	if err != nil {
		return number, err
	}
	if !ok {
		return number, fmt.Errorf("%w: %s", ErrUnknownBlock, id)
	}
	return number, nil
}
