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

package crypto

import (
	"bytes"
	"fmt"

	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/codec"
)

// KeyTypeID namespaces keys by their purpose.
type KeyTypeID [4]byte

func (k KeyTypeID) String() string {
	return string(k[:])
}

var (
	KeyTypeAura     = KeyTypeID{'a', 'u', 'r', 'a'}
	KeyTypeBabe     = KeyTypeID{'b', 'a', 'b', 'e'}
	KeyTypeGrandpa  = KeyTypeID{'g', 'r', 'a', 'n'}
	KeyTypeImOnline = KeyTypeID{'i', 'm', 'o', 'n'}
)

// AppKey is a marker type that ties a key to an application namespace. It has
// no data and only exists as a type parameter.
type AppKey interface {
	KeyTypeID() KeyTypeID
}

// AppPublic is a public key of type P restricted to the application K.
type AppPublic[K AppKey, P any] struct {
	Inner P
}

func NewAppPublic[K AppKey, P any](inner P) AppPublic[K, P] {
	return AppPublic[K, P]{Inner: inner}
}

func (AppPublic[K, P]) KeyTypeID() KeyTypeID {
	var k K
	return k.KeyTypeID()
}

// AppSignature is a signature of type S restricted to the application K.
type AppSignature[K AppKey, P any, S Verify[P]] struct {
	Inner S
}

func NewAppSignature[K AppKey, P any, S Verify[P]](inner S) AppSignature[K, P, S] {
	return AppSignature[K, P, S]{Inner: inner}
}

// Verify unwraps the application public key and delegates to the inner scheme.
func (s AppSignature[K, P, S]) Verify(msg Lazy, signer AppPublic[K, P]) bool {
	return s.Inner.Verify(msg, signer.Inner)
}

// AppVerify is implemented by signatures verified against an application
// public key.
type AppVerify[K AppKey, P any] interface {
	Verify(msg Lazy, signer AppPublic[K, P]) bool
}

type AuraApp struct{}

func (AuraApp) KeyTypeID() KeyTypeID { return KeyTypeAura }

type BabeApp struct{}

func (BabeApp) KeyTypeID() KeyTypeID { return KeyTypeBabe }

type GrandpaApp struct{}

func (GrandpaApp) KeyTypeID() KeyTypeID { return KeyTypeGrandpa }

type ImOnlineApp struct{}

func (ImOnlineApp) KeyTypeID() KeyTypeID { return KeyTypeImOnline }

// OpaqueKeys is a set of raw session keys indexed by key type.
type OpaqueKeys interface {
	KeyIDs() []KeyTypeID
	GetRaw(id KeyTypeID) []byte
	OwnershipProofIsValid(proof []byte) bool
}

type sessionKey struct {
	cbor.StructAsArray
	ID  KeyTypeID
	Raw []byte
}

// SessionKeys is an ordered OpaqueKeys implementation.
type SessionKeys struct {
	keys []sessionKey
}

func NewSessionKeys() *SessionKeys {
	return &SessionKeys{}
}

// Set stores the raw key for id. Setting an existing key type replaces it in
// place.
func (s *SessionKeys) Set(id KeyTypeID, raw []byte) {
	for idx := range s.keys {
		if s.keys[idx].ID == id {
			s.keys[idx].Raw = bytes.Clone(raw)
			return
		}
	}
	s.keys = append(s.keys, sessionKey{ID: id, Raw: bytes.Clone(raw)})
}

func (s *SessionKeys) KeyIDs() []KeyTypeID {
	ret := make([]KeyTypeID, 0, len(s.keys))
	for _, k := range s.keys {
		ret = append(ret, k.ID)
	}
	return ret
}

// GetRaw returns the raw key for id, or an empty slice if there is none.
func (s *SessionKeys) GetRaw(id KeyTypeID) []byte {
	for _, k := range s.keys {
		if k.ID == id {
			return k.Raw
		}
	}
	return []byte{}
}

// OwnershipProofIsValid accepts every proof.
func (s *SessionKeys) OwnershipProofIsValid(proof []byte) bool {
	return true
}

func (s *SessionKeys) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(s.keys)
}

func (s *SessionKeys) UnmarshalCBOR(data []byte) error {
	var tmp []sessionKey
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	s.keys = tmp
	return nil
}

// GetKey decodes the key of type id from keys.
func GetKey[T any](keys OpaqueKeys, id KeyTypeID) (T, error) {
	var ret T
	raw := keys.GetRaw(id)
	if len(raw) == 0 {
		return ret, fmt.Errorf("no key of type %s", id)
	}
	if _, err := codec.DecodeBytes(raw, &ret); err != nil {
		return ret, fmt.Errorf("decode %s key: %w", id, err)
	}
	return ret, nil
}
