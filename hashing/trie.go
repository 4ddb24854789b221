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
	"bytes"
	"slices"

	"github.com/blinklabs-io/goprimitives/cbor"
)

const (
	trieLeafPrefix byte = 0x00
	trieNodePrefix byte = 0x01
)

// KeyValue is a single entry in a keyed collection.
type KeyValue struct {
	Key   []byte
	Value []byte
}

type trieLeaf struct {
	cbor.StructAsArray
	Key   []byte
	Value []byte
}

// trieRoot builds a binary Merkle tree over the entries sorted by key. A later
// entry with the same key replaces an earlier one, as an insert into a map would.
func trieRoot(sum func([]byte) Digest, pairs []KeyValue) Digest {
	latest := make(map[string][]byte, len(pairs))
	for _, kv := range pairs {
		latest[string(kv.Key)] = kv.Value
	}
	if len(latest) == 0 {
		return sum([]byte{trieLeafPrefix})
	}
	keys := make([]string, 0, len(latest))
	for k := range latest {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return bytes.Compare([]byte(a), []byte(b))
	})
	level := make([]Digest, 0, len(keys))
	for _, k := range keys {
		leaf := trieLeaf{Key: []byte(k), Value: latest[k]}
		// Encoding a pair of byte strings cannot fail
		leafCbor := cbor.MustEncode(leaf)
		level = append(
			level,
			sum(append([]byte{trieLeafPrefix}, leafCbor...)),
		)
	}
	buf := make([]byte, 1+2*DigestSize)
	buf[0] = trieNodePrefix
	for len(level) > 1 {
		next := make([]Digest, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				// Odd node out is promoted unchanged
				next = append(next, level[i])
				continue
			}
			copy(buf[1:], level[i][:])
			copy(buf[1+DigestSize:], level[i+1][:])
			next = append(next, sum(buf))
		}
		level = next
	}
	return level[0]
}

// orderedTrieRoot keys each item by its CBOR-encoded position.
func orderedTrieRoot(sum func([]byte) Digest, items [][]byte) Digest {
	pairs := make([]KeyValue, 0, len(items))
	for idx, item := range items {
		pairs = append(
			pairs,
			KeyValue{
				Key:   cbor.MustEncode(uint64(idx)),
				Value: item,
			},
		)
	}
	return trieRoot(sum, pairs)
}
