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

package extension

import (
	"errors"
	"fmt"
	"slices"

	"github.com/blinklabs-io/goprimitives/cbor"
)

// DecodeFunc decodes the wire form of a single extension.
type DecodeFunc func(data []byte) (SignedExtension, error)

type registryEntry struct {
	identifier string
	decode     DecodeFunc
}

// Registry describes the extensions a runtime expects, in order, and decodes
// extension chains from the wire.
type Registry struct {
	entries []registryEntry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an extension to the expected chain.
func (r *Registry) Register(identifier string, decode DecodeFunc) error {
	if decode == nil {
		return errors.New("decode function must not be nil")
	}
	if slices.ContainsFunc(r.entries, func(e registryEntry) bool {
		return e.identifier == identifier
	}) {
		return fmt.Errorf("extension %q already registered", identifier)
	}
	r.entries = append(r.entries, registryEntry{identifier: identifier, decode: decode})
	return nil
}

// Identifiers returns the registered identifiers in order.
func (r *Registry) Identifiers() []string {
	ret := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		ret = append(ret, e.identifier)
	}
	return ret
}

// DecodeChain decodes a CBOR array of extension encodings. The array must have
// exactly one item per registered extension.
func (r *Registry) DecodeChain(data []byte) (Chain, error) {
	items, err := cbor.DecodeList(data)
	if err != nil {
		return nil, fmt.Errorf("decode extension list: %w", err)
	}
	return r.decodeItems(items)
}

func (r *Registry) decodeItems(items []cbor.RawMessage) (Chain, error) {
	if len(items) != len(r.entries) {
		return nil, fmt.Errorf(
			"extension count mismatch: expected %d, got %d",
			len(r.entries),
			len(items),
		)
	}
	ret := make(Chain, 0, len(items))
	for idx, item := range items {
		entry := r.entries[idx]
		ext, err := entry.decode(item)
		if err != nil {
			return nil, fmt.Errorf("decode extension %s: %w", entry.identifier, err)
		}
		if ext.Identifier() != entry.identifier {
			return nil, fmt.Errorf(
				"extension %d: expected %s, decoded %s",
				idx,
				entry.identifier,
				ext.Identifier(),
			)
		}
		ret = append(ret, ext)
	}
	return ret, nil
}
