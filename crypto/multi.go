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
	"errors"
	"fmt"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/cbor"
	"golang.org/x/crypto/blake2b"
)

// Scheme identifies a signature scheme.
type Scheme uint8

const (
	SchemeEd25519 Scheme = 0
	SchemeSr25519 Scheme = 1
	SchemeEcdsa   Scheme = 2
)

func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSr25519:
		return "sr25519"
	case SchemeEcdsa:
		return "ecdsa"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

func (s Scheme) signatureSize() int {
	switch s {
	case SchemeEd25519:
		return Ed25519SignatureSize
	case SchemeSr25519:
		return Sr25519SignatureSize
	case SchemeEcdsa:
		return EcdsaSignatureSize
	}
	return -1
}

func (s Scheme) publicSize() int {
	switch s {
	case SchemeEd25519:
		return Ed25519PublicSize
	case SchemeSr25519:
		return Sr25519PublicSize
	case SchemeEcdsa:
		return EcdsaPublicSize
	}
	return -1
}

var ErrUnknownScheme = errors.New("unknown signature scheme")

type schemeBytes struct {
	cbor.StructAsArray
	Scheme Scheme
	Data   []byte
}

func decodeSchemeBytes(data []byte, size func(Scheme) int) (Scheme, []byte, error) {
	var tmp schemeBytes
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return 0, nil, err
	}
	expected := size(tmp.Scheme)
	if expected < 0 {
		return 0, nil, fmt.Errorf("%w: %d", ErrUnknownScheme, tmp.Scheme)
	}
	if len(tmp.Data) != expected {
		return 0, nil, fmt.Errorf(
			"invalid %s length: expected %d bytes, got %d",
			tmp.Scheme,
			expected,
			len(tmp.Data),
		)
	}
	return tmp.Scheme, tmp.Data, nil
}

// MultiSignature is a signature from any of the supported schemes.
type MultiSignature struct {
	scheme Scheme
	data   []byte
}

func MultiSignatureFromEd25519(sig Ed25519Signature) MultiSignature {
	return MultiSignature{scheme: SchemeEd25519, data: sig[:]}
}

func MultiSignatureFromSr25519(sig Sr25519Signature) MultiSignature {
	return MultiSignature{scheme: SchemeSr25519, data: sig[:]}
}

func MultiSignatureFromEcdsa(sig EcdsaSignature) MultiSignature {
	return MultiSignature{scheme: SchemeEcdsa, data: sig[:]}
}

func (m MultiSignature) Scheme() Scheme {
	return m.scheme
}

// Verify checks the signature against an account. Ed25519 and sr25519 accounts
// are the raw public key. Ecdsa accounts are the hash of the recovered key.
func (m MultiSignature) Verify(msg Lazy, signer account.AccountId32) bool {
	if len(m.data) != m.scheme.signatureSize() {
		return false
	}
	switch m.scheme {
	case SchemeEd25519:
		return Ed25519Signature(m.data).Verify(msg, Ed25519Public(signer))
	case SchemeSr25519:
		return Sr25519Signature(m.data).Verify(msg, Sr25519Public(signer))
	case SchemeEcdsa:
		recovered, ok := EcdsaSignature(m.data).Recover(msg)
		if !ok {
			return false
		}
		return blake2b.Sum256(recovered[:]) == signer
	}
	return false
}

func (m MultiSignature) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(schemeBytes{Scheme: m.scheme, Data: m.data})
}

func (m *MultiSignature) UnmarshalCBOR(data []byte) error {
	scheme, sig, err := decodeSchemeBytes(data, Scheme.signatureSize)
	if err != nil {
		return err
	}
	m.scheme = scheme
	m.data = sig
	return nil
}

// MultiSigner is a public key from any of the supported schemes.
type MultiSigner struct {
	scheme Scheme
	data   []byte
}

func MultiSignerFromEd25519(pub Ed25519Public) MultiSigner {
	return MultiSigner{scheme: SchemeEd25519, data: pub[:]}
}

func MultiSignerFromSr25519(pub Sr25519Public) MultiSigner {
	return MultiSigner{scheme: SchemeSr25519, data: pub[:]}
}

func MultiSignerFromEcdsa(pub EcdsaPublic) MultiSigner {
	return MultiSigner{scheme: SchemeEcdsa, data: pub[:]}
}

func (m MultiSigner) Scheme() Scheme {
	return m.scheme
}

// IntoAccount returns the account controlled by this signer.
func (m MultiSigner) IntoAccount() account.AccountId32 {
	if len(m.data) != m.scheme.publicSize() {
		return account.AccountId32{}
	}
	switch m.scheme {
	case SchemeEd25519, SchemeSr25519:
		return account.AccountId32(m.data)
	case SchemeEcdsa:
		return EcdsaPublic(m.data).IntoAccount()
	}
	return account.AccountId32{}
}

func (m MultiSigner) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(schemeBytes{Scheme: m.scheme, Data: m.data})
}

func (m *MultiSigner) UnmarshalCBOR(data []byte) error {
	scheme, pub, err := decodeSchemeBytes(data, Scheme.publicSize)
	if err != nil {
		return err
	}
	m.scheme = scheme
	m.data = pub
	return nil
}
