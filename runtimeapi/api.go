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

package runtimeapi

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/blinklabs-io/goprimitives/cbor"
	"golang.org/x/crypto/blake2b"
)

var ErrApiRefClosed = errors.New("runtime API handle already committed or discarded")

// ApiID identifies a runtime API. It is the blake2b-64 hash of the API name.
type ApiID [8]byte

// ApiIDFromName derives the ID of the named API.
func ApiIDFromName(name string) ApiID {
	var ret ApiID
	h, _ := blake2b.New(len(ret), nil)
	h.Write([]byte(name))
	copy(ret[:], h.Sum(nil))
	return ret
}

// ApiInfo is an API and the version of it a runtime implements.
type ApiInfo struct {
	cbor.StructAsArray
	ID      ApiID
	Version uint32
}

// RuntimeVersion describes a runtime.
type RuntimeVersion struct {
	cbor.StructAsArray
	SpecName           string
	ImplName           string
	SpecVersion        uint32
	ImplVersion        uint32
	TransactionVersion uint32
	Apis               []ApiInfo
}

// ApiVersion returns the implemented version of an API.
func (v RuntimeVersion) ApiVersion(id ApiID) (uint32, bool) {
	idx := slices.IndexFunc(v.Apis, func(a ApiInfo) bool {
		return a.ID == id
	})
	if idx < 0 {
		return 0, false
	}
	return v.Apis[idx].Version, true
}

// HasApi returns whether the runtime implements exactly this version of an API.
func (v RuntimeVersion) HasApi(id ApiID, version uint32) bool {
	got, ok := v.ApiVersion(id)
	return ok && got == version
}

// CanCallWith returns whether a client for other can call this runtime. Both
// must be the same spec.
func (v RuntimeVersion) CanCallWith(other RuntimeVersion) bool {
	return v.SpecName == other.SpecName &&
		v.SpecVersion == other.SpecVersion &&
		v.ImplName == other.ImplName
}

// ApiRef is a handle to a runtime API instance and the state changes it makes.
// The changes are written to the backend by Commit, or dropped by Discard.
// After either, the handle can no longer be used.
type ApiRef[T any] struct {
	mu      sync.Mutex
	api     T
	overlay *Overlay
	logger  *slog.Logger
	closed  bool
}

// Api returns the API instance.
func (r *ApiRef[T]) Api() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		var zero T
		return zero, ErrApiRefClosed
	}
	return r.api, nil
}

// Changes returns the state changes made so far.
func (r *ApiRef[T]) Changes() ([]Change, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrApiRefClosed
	}
	return r.overlay.Changes(), nil
}

// Commit writes the pending changes to the backend.
func (r *ApiRef[T]) Commit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrApiRefClosed
	}
	count := len(r.overlay.changes)
	if err := r.overlay.Commit(); err != nil {
		return fmt.Errorf("commit runtime API changes: %w", err)
	}
	r.closed = true
	r.logger.Debug("committed runtime API changes", "component", "runtimeapi", "changes", count)
	return nil
}

// Discard drops the pending changes.
func (r *ApiRef[T]) Discard() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrApiRefClosed
	}
	count := len(r.overlay.changes)
	r.overlay.Discard()
	r.closed = true
	r.logger.Debug("discarded runtime API changes", "component", "runtimeapi", "changes", count)
	return nil
}

// Provider builds runtime API instances over a shared backend.
type Provider[T any] struct {
	backend Backend
	version RuntimeVersion
	build   func(state *Overlay, version RuntimeVersion) T
	logger  *slog.Logger
}

// NewProvider returns a Provider that calls build for each new handle.
func NewProvider[T any](
	backend Backend,
	version RuntimeVersion,
	build func(state *Overlay, version RuntimeVersion) T,
	logger *slog.Logger,
) *Provider[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider[T]{
		backend: backend,
		version: version,
		build:   build,
		logger:  logger,
	}
}

// RuntimeApi returns a fresh handle with its own overlay.
func (p *Provider[T]) RuntimeApi() *ApiRef[T] {
	overlay := NewOverlay(p.backend)
	return &ApiRef[T]{
		api:     p.build(overlay, p.version),
		overlay: overlay,
		logger:  p.logger,
	}
}

// Version returns the runtime version the provider serves.
func (p *Provider[T]) Version() RuntimeVersion {
	return p.version
}

// SpecVersion returns the spec version of the served runtime.
func (p *Provider[T]) SpecVersion() uint32 {
	return p.version.SpecVersion
}
