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
	"encoding/hex"

	"github.com/ChainSafe/go-schnorrkel"
	"github.com/blinklabs-io/goprimitives/account"
)

const (
	Sr25519PublicSize    = 32
	Sr25519SignatureSize = 64
	Sr25519SeedSize      = 32
)

var sr25519SigningContext = []byte("substrate")

type Sr25519Public [Sr25519PublicSize]byte

func (p Sr25519Public) String() string {
	return hex.EncodeToString(p[:])
}

func (p Sr25519Public) IntoAccount() account.AccountId32 {
	return account.AccountId32(p)
}

type Sr25519Signature [Sr25519SignatureSize]byte

// Verify checks the signature against signer. The public key must decode and
// the signature must carry the schnorrkel marker bit before the message is
// requested.
func (s Sr25519Signature) Verify(msg Lazy, signer Sr25519Public) bool {
	pub, err := schnorrkel.NewPublicKey(signer)
	if err != nil {
		return false
	}
	sig := new(schnorrkel.Signature)
	if err := sig.Decode(s); err != nil {
		return false
	}
	ok, err := pub.Verify(sig, schnorrkel.NewSigningContext(sr25519SigningContext, msg.Get()))
	return err == nil && ok
}

// Sr25519Pair is an sr25519 signing key expanded from a mini secret.
type Sr25519Pair struct {
	secret *schnorrkel.SecretKey
	public Sr25519Public
}

func NewSr25519Pair(seed [Sr25519SeedSize]byte) (*Sr25519Pair, error) {
	mini, err := schnorrkel.NewMiniSecretKeyFromRaw(seed)
	if err != nil {
		return nil, err
	}
	secret := mini.ExpandEd25519()
	pub, err := secret.Public()
	if err != nil {
		return nil, err
	}
	return &Sr25519Pair{
		secret: secret,
		public: pub.Encode(),
	}, nil
}

func (p *Sr25519Pair) Public() Sr25519Public {
	return p.public
}

func (p *Sr25519Pair) Sign(msg []byte) (Sr25519Signature, error) {
	sig, err := p.secret.Sign(schnorrkel.NewSigningContext(sr25519SigningContext, msg))
	if err != nil {
		return Sr25519Signature{}, err
	}
	return sig.Encode(), nil
}
