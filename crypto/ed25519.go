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
	"crypto/ed25519"
	"encoding/hex"

	"filippo.io/edwards25519"
	"github.com/blinklabs-io/goprimitives/account"
)

const (
	Ed25519PublicSize    = ed25519.PublicKeySize
	Ed25519SignatureSize = ed25519.SignatureSize
	Ed25519SeedSize      = ed25519.SeedSize
)

type Ed25519Public [Ed25519PublicSize]byte

func (p Ed25519Public) String() string {
	return hex.EncodeToString(p[:])
}

func (p Ed25519Public) IntoAccount() account.AccountId32 {
	return account.AccountId32(p)
}

type Ed25519Signature [Ed25519SignatureSize]byte

// Verify checks the signature against signer. The public key must decode to a
// curve point and the S half of the signature must be a canonical scalar before
// the message is requested.
func (s Ed25519Signature) Verify(msg Lazy, signer Ed25519Public) bool {
	if _, err := new(edwards25519.Point).SetBytes(signer[:]); err != nil {
		return false
	}
	if _, err := new(edwards25519.Scalar).SetCanonicalBytes(s[32:]); err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(signer[:]), msg.Get(), s[:])
}

// Ed25519Pair is an ed25519 signing key.
type Ed25519Pair struct {
	key ed25519.PrivateKey
}

func NewEd25519Pair(seed [Ed25519SeedSize]byte) *Ed25519Pair {
	return &Ed25519Pair{
		key: ed25519.NewKeyFromSeed(seed[:]),
	}
}

func (p *Ed25519Pair) Public() Ed25519Public {
	var ret Ed25519Public
	copy(ret[:], p.key.Public().(ed25519.PublicKey))
	return ret
}

func (p *Ed25519Pair) Sign(msg []byte) Ed25519Signature {
	var ret Ed25519Signature
	copy(ret[:], ed25519.Sign(p.key, msg))
	return ret
}
