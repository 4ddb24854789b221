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
	"sync"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/hashing"
	"github.com/blinklabs-io/goprimitives/validity"
)

const (
	IdentifierCheckSpecVersion = "CheckSpecVersion"
	IdentifierCheckGenesis     = "CheckGenesis"
	IdentifierCheckNonce       = "CheckNonce"
	IdentifierCheckMortality   = "CheckMortality"
	IdentifierCheckWeight      = "CheckWeight"
)

// Extensions that carry no data encode as an empty array.
var emptyCbor = []byte{cbor.CborTypeArray}

// VersionProvider supplies the runtime spec version.
type VersionProvider interface {
	SpecVersion() uint32
}

// StaticVersion is a fixed VersionProvider.
type StaticVersion uint32

func (v StaticVersion) SpecVersion() uint32 {
	return uint32(v)
}

// CheckSpecVersion binds the runtime spec version into the signature, so a
// transaction signed for another runtime version fails signature checks.
type CheckSpecVersion struct {
	Base
	Version VersionProvider
}

func (CheckSpecVersion) Identifier() string {
	return IdentifierCheckSpecVersion
}

func (c CheckSpecVersion) AdditionalSigned() (any, error) {
	return c.Version.SpecVersion(), nil
}

func (CheckSpecVersion) MarshalCBOR() ([]byte, error) {
	return emptyCbor, nil
}

// CheckGenesis binds the genesis hash into the signature, so a transaction
// signed for another chain fails signature checks.
type CheckGenesis struct {
	Base
	Genesis hashing.Digest
}

func (CheckGenesis) Identifier() string {
	return IdentifierCheckGenesis
}

func (c CheckGenesis) AdditionalSigned() (any, error) {
	return c.Genesis, nil
}

func (CheckGenesis) MarshalCBOR() ([]byte, error) {
	return emptyCbor, nil
}

// NonceStore tracks the next expected nonce of each account.
type NonceStore interface {
	Nonce(who account.AccountId32) uint64
	SetNonce(who account.AccountId32, nonce uint64)
}

// NonceMap is an in-memory NonceStore. It is safe for concurrent use.
type NonceMap struct {
	mu     sync.RWMutex
	nonces map[account.AccountId32]uint64
}

func NewNonceMap() *NonceMap {
	return &NonceMap{
		nonces: make(map[account.AccountId32]uint64),
	}
}

func (n *NonceMap) Nonce(who account.AccountId32) uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nonces[who]
}

func (n *NonceMap) SetNonce(who account.AccountId32, nonce uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nonces[who] = nonce
}

type nonceTag struct {
	cbor.StructAsArray
	Who   account.AccountId32
	Nonce uint64
}

// NonceTag is the pool tag for the transaction of who with the given nonce.
func NonceTag(who account.AccountId32, nonce uint64) validity.Tag {
	return cbor.MustEncode(nonceTag{Who: who, Nonce: nonce})
}

// CheckNonce orders an account's transactions and prevents replay. Validation
// rejects stale nonces and makes a future nonce require its predecessor.
// Pre-dispatch requires the exact next nonce and increments it.
type CheckNonce struct {
	Base
	Nonce    uint64
	Accounts NonceStore
}

func (CheckNonce) Identifier() string {
	return IdentifierCheckNonce
}

func (c CheckNonce) Validate(
	who account.AccountId32,
	_ dispatch.Call,
	_ dispatch.Info,
	_ int,
) (validity.ValidTransaction, error) {
	current := c.Accounts.Nonce(who)
	if c.Nonce < current {
		return validity.ValidTransaction{}, validity.Invalid(validity.ReasonStale)
	}
	ret := validity.Default()
	ret.Provides = []validity.Tag{NonceTag(who, c.Nonce)}
	if c.Nonce > current {
		ret.Requires = []validity.Tag{NonceTag(who, c.Nonce-1)}
	}
	return ret, nil
}

func (c CheckNonce) StagePreDispatch(
	who account.AccountId32,
	_ dispatch.Call,
	_ dispatch.Info,
	_ int,
) (any, Write, error) {
	current := c.Accounts.Nonce(who)
	switch {
	case c.Nonce < current:
		return nil, nil, validity.Invalid(validity.ReasonStale)
	case c.Nonce > current:
		return nil, nil, validity.Invalid(validity.ReasonFuture)
	}
	w := writeFuncs{
		apply: func() error {
			c.Accounts.SetNonce(who, current+1)
			return nil
		},
		revert: func() {
			c.Accounts.SetNonce(who, current)
		},
	}
	return nil, w, nil
}

func (c CheckNonce) PreDispatch(
	who account.AccountId32,
	call dispatch.Call,
	info dispatch.Info,
	length int,
) (any, error) {
	pre, w, err := c.StagePreDispatch(who, call, info, length)
	if err != nil {
		return nil, err
	}
	return pre, w.Apply()
}

func (c CheckNonce) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(c.Nonce)
}
