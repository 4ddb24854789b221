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

// Package runtimeapi provides handles for calling runtime APIs against a
// buffered view of state. Changes made through a handle are only written to the
// backend when the handle is committed.
package runtimeapi

import (
	"bytes"
	"errors"
	"maps"
	"slices"
	"sync"
)

// Change is a single pending write. A deleted key has a nil Value.
type Change struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Backend is the committed state.
type Backend interface {
	Get(key []byte) ([]byte, bool)
	Commit(changes []Change) error
}

// MemoryBackend is an in-memory Backend. It is safe for concurrent use.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string][]byte),
	}
}

func (m *MemoryBackend) Get(key []byte) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[string(key)]
	if !ok {
		return nil, false
	}
	return bytes.Clone(val), true
}

// Commit applies all changes atomically with respect to readers.
func (m *MemoryBackend) Commit(changes []Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range changes {
		if c.Delete {
			delete(m.data, string(c.Key))
			continue
		}
		m.data[string(c.Key)] = bytes.Clone(c.Value)
	}
	return nil
}

// Len returns the number of keys stored.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Overlay buffers writes on top of a Backend. Reads see the buffered writes
// first and fall through to the backend. It is not safe for concurrent use.
type Overlay struct {
	backend Backend
	changes map[string]Change
}

func NewOverlay(backend Backend) *Overlay {
	return &Overlay{
		backend: backend,
		changes: make(map[string]Change),
	}
}

func (o *Overlay) Get(key []byte) ([]byte, bool) {
	if c, ok := o.changes[string(key)]; ok {
		if c.Delete {
			return nil, false
		}
		return bytes.Clone(c.Value), true
	}
	if o.backend == nil {
		return nil, false
	}
	return o.backend.Get(key)
}

func (o *Overlay) Set(key []byte, value []byte) {
	o.changes[string(key)] = Change{
		Key:   bytes.Clone(key),
		Value: bytes.Clone(value),
	}
}

func (o *Overlay) Delete(key []byte) {
	o.changes[string(key)] = Change{
		Key:    bytes.Clone(key),
		Delete: true,
	}
}

// Changes returns the buffered writes ordered by key.
func (o *Overlay) Changes() []Change {
	keys := slices.Sorted(maps.Keys(o.changes))
	ret := make([]Change, 0, len(keys))
	for _, k := range keys {
		ret = append(ret, o.changes[k])
	}
	return ret
}

// Commit writes the buffered changes to the backend and clears them.
func (o *Overlay) Commit() error {
	if o.backend == nil {
		return errors.New("overlay has no backend")
	}
	if err := o.backend.Commit(o.Changes()); err != nil {
		return err
	}
	clear(o.changes)
	return nil
}

// Discard drops the buffered changes.
func (o *Overlay) Discard() {
	clear(o.changes)
}
