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

// Package crypto verifies signatures over lazily produced messages for the
// closed set of supported schemes (ed25519, sr25519 and ecdsa over secp256k1)
// and maps signers onto account identities.
//
// Verification never returns an error: a malformed key or signature simply
// fails to verify. Each scheme rejects malformed inputs before asking for the
// message, so an obviously bad signature never pays for building the payload.
package crypto

import "sync"

// Lazy produces the bytes of a message on demand.
type Lazy interface {
	Get() []byte
}

// LazyBytes is a message that is already materialized.
type LazyBytes []byte

func (b LazyBytes) Get() []byte {
	return b
}

type lazyFunc struct {
	once sync.Once
	fn   func() []byte
	val  []byte
}

// NewLazy returns a Lazy that calls fn on the first Get and caches the result.
func NewLazy(fn func() []byte) Lazy {
	return &lazyFunc{fn: fn}
}

func (l *lazyFunc) Get() []byte {
	l.once.Do(func() {
		l.val = l.fn()
		l.fn = nil
	})
	return l.val
}

// Verify is implemented by signatures that can be checked against a signer of
// type A.
type Verify[A any] interface {
	Verify(msg Lazy, signer A) bool
}

// IdentifyAccount is implemented by signers that map onto an account of type A.
type IdentifyAccount[A any] interface {
	IntoAccount() A
}
