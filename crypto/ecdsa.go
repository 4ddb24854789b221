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
	"encoding/hex"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/blake2b"
)

const (
	EcdsaPublicSize    = secp256k1.PubKeyBytesLenCompressed
	EcdsaSignatureSize = 65
	EcdsaSeedSize      = 32

	// Recovery IDs may carry the legacy offset of 27.
	ecdsaRecoveryOffset = 27
	// Header offset for a compact signature over a compressed key.
	ecdsaCompactCompressed = ecdsaRecoveryOffset + 4
)

// EcdsaPublic is a compressed secp256k1 public key.
type EcdsaPublic [EcdsaPublicSize]byte

func (p EcdsaPublic) String() string {
	return hex.EncodeToString(p[:])
}

// IntoAccount hashes the compressed key, since it does not fit an account ID.
func (p EcdsaPublic) IntoAccount() account.AccountId32 {
	return account.AccountId32(blake2b.Sum256(p[:]))
}

// EcdsaSignature is r || s || v, where v is the recovery ID.
type EcdsaSignature [EcdsaSignatureSize]byte

func (s EcdsaSignature) recoveryID() (byte, bool) {
	v := s[64]
	if v >= ecdsaRecoveryOffset {
		v -= ecdsaRecoveryOffset
	}
	return v, v <= 3
}

// Recover returns the compressed public key that produced the signature over
// msg. The recovery ID is checked before the message is requested.
func (s EcdsaSignature) Recover(msg Lazy) (EcdsaPublic, bool) {
	var ret EcdsaPublic
	v, ok := s.recoveryID()
	if !ok {
		return ret, false
	}
	compact := make([]byte, 0, EcdsaSignatureSize)
	compact = append(compact, ecdsaCompactCompressed+v)
	compact = append(compact, s[:64]...)
	hash := blake2b.Sum256(msg.Get())
	pub, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return ret, false
	}
	copy(ret[:], pub.SerializeCompressed())
	return ret, true
}

func (s EcdsaSignature) Verify(msg Lazy, signer EcdsaPublic) bool {
	recovered, ok := s.Recover(msg)
	if !ok {
		return false
	}
	return bytes.Equal(recovered[:], signer[:])
}

// EcdsaPair is a secp256k1 signing key.
type EcdsaPair struct {
	key *secp256k1.PrivateKey
}

func NewEcdsaPair(seed [EcdsaSeedSize]byte) *EcdsaPair {
	return &EcdsaPair{
		key: secp256k1.PrivKeyFromBytes(seed[:]),
	}
}

func (p *EcdsaPair) Public() EcdsaPublic {
	var ret EcdsaPublic
	copy(ret[:], p.key.PubKey().SerializeCompressed())
	return ret
}

// Sign signs the blake2b-256 hash of msg.
func (p *EcdsaPair) Sign(msg []byte) EcdsaSignature {
	var ret EcdsaSignature
	hash := blake2b.Sum256(msg)
	compact := ecdsa.SignCompact(p.key, hash[:], true)
	copy(ret[:64], compact[1:])
	ret[64] = compact[0] - ecdsaCompactCompressed
	return ret
}
