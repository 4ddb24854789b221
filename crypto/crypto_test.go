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

package crypto_test

import (
	"testing"

	"filippo.io/edwards25519"
	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/crypto"
	"github.com/blinklabs-io/goprimitives/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panicLazy fails the test if verification asks for the message.
type panicLazy struct{}

func (panicLazy) Get() []byte {
	panic("message was materialized")
}

var msg = []byte("hello, world")

func TestNewLazyMemoizes(t *testing.T) {
	calls := 0
	l := crypto.NewLazy(func() []byte {
		calls++
		return msg
	})
	assert.Equal(t, 0, calls)
	assert.Equal(t, msg, l.Get())
	assert.Equal(t, msg, l.Get())
	assert.Equal(t, 1, calls)
}

func TestEd25519(t *testing.T) {
	pair := crypto.NewEd25519Pair(test.Seed(1))
	sig := pair.Sign(msg)
	assert.True(t, sig.Verify(crypto.LazyBytes(msg), pair.Public()))
	assert.False(t, sig.Verify(crypto.LazyBytes("other"), pair.Public()))
	other := crypto.NewEd25519Pair(test.Seed(2))
	assert.False(t, sig.Verify(crypto.LazyBytes(msg), other.Public()))
}

func TestEd25519ShortCircuit(t *testing.T) {
	pair := crypto.NewEd25519Pair(test.Seed(1))
	sig := pair.Sign(msg)

	t.Run("non-canonical S", func(t *testing.T) {
		bad := sig
		for i := 32; i < 64; i++ {
			bad[i] = 0xff
		}
		assert.NotPanics(t, func() {
			assert.False(t, bad.Verify(panicLazy{}, pair.Public()))
		})
	})

	t.Run("malformed public key", func(t *testing.T) {
		var bad crypto.Ed25519Public
		found := false
		for y := 2; y < 256; y++ {
			bad[0] = byte(y)
			if _, err := new(edwards25519.Point).SetBytes(bad[:]); err != nil {
				found = true
				break
			}
		}
		require.True(t, found)
		assert.NotPanics(t, func() {
			assert.False(t, sig.Verify(panicLazy{}, bad))
		})
	})
}

func TestSr25519(t *testing.T) {
	pair, err := crypto.NewSr25519Pair(test.Seed(3))
	require.NoError(t, err)
	sig, err := pair.Sign(msg)
	require.NoError(t, err)
	assert.True(t, sig.Verify(crypto.LazyBytes(msg), pair.Public()))
	assert.False(t, sig.Verify(crypto.LazyBytes("other"), pair.Public()))

	unmarked := sig
	unmarked[63] &^= 0x80
	assert.NotPanics(t, func() {
		assert.False(t, unmarked.Verify(panicLazy{}, pair.Public()))
	})
}

func TestEcdsa(t *testing.T) {
	pair := crypto.NewEcdsaPair(test.Seed(4))
	sig := pair.Sign(msg)
	assert.LessOrEqual(t, sig[64], byte(3))
	assert.True(t, sig.Verify(crypto.LazyBytes(msg), pair.Public()))
	assert.False(t, sig.Verify(crypto.LazyBytes("other"), pair.Public()))

	// The legacy offset of 27 on the recovery ID is accepted
	legacy := sig
	legacy[64] += 27
	assert.True(t, legacy.Verify(crypto.LazyBytes(msg), pair.Public()))

	for _, v := range []byte{4, 26, 31, 0xff} {
		bad := sig
		bad[64] = v
		assert.NotPanics(t, func() {
			assert.False(t, bad.Verify(panicLazy{}, pair.Public()))
		}, "recovery ID %d", v)
	}
}

func TestMultiSignature(t *testing.T) {
	edPair := crypto.NewEd25519Pair(test.Seed(5))
	srPair, err := crypto.NewSr25519Pair(test.Seed(6))
	require.NoError(t, err)
	ecPair := crypto.NewEcdsaPair(test.Seed(7))
	srSig, err := srPair.Sign(msg)
	require.NoError(t, err)

	testDefs := []struct {
		name   string
		sig    crypto.MultiSignature
		signer crypto.MultiSigner
	}{
		{
			name:   "ed25519",
			sig:    crypto.MultiSignatureFromEd25519(edPair.Sign(msg)),
			signer: crypto.MultiSignerFromEd25519(edPair.Public()),
		},
		{
			name:   "sr25519",
			sig:    crypto.MultiSignatureFromSr25519(srSig),
			signer: crypto.MultiSignerFromSr25519(srPair.Public()),
		},
		{
			name:   "ecdsa",
			sig:    crypto.MultiSignatureFromEcdsa(ecPair.Sign(msg)),
			signer: crypto.MultiSignerFromEcdsa(ecPair.Public()),
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			who := testDef.signer.IntoAccount()
			assert.True(t, testDef.sig.Verify(crypto.LazyBytes(msg), who))
			assert.False(t, testDef.sig.Verify(crypto.LazyBytes("other"), who))
			var stranger account.AccountId32
			stranger[0] = 1
			assert.False(t, testDef.sig.Verify(crypto.LazyBytes(msg), stranger))

			data, err := cbor.Encode(testDef.sig)
			require.NoError(t, err)
			var back crypto.MultiSignature
			_, err = cbor.Decode(data, &back)
			require.NoError(t, err)
			assert.Equal(t, testDef.sig.Scheme(), back.Scheme())
			assert.True(t, back.Verify(crypto.LazyBytes(msg), who))

			data, err = cbor.Encode(testDef.signer)
			require.NoError(t, err)
			var backSigner crypto.MultiSigner
			_, err = cbor.Decode(data, &backSigner)
			require.NoError(t, err)
			assert.Equal(t, who, backSigner.IntoAccount())
		})
	}
}

func TestMultiSignerAccounts(t *testing.T) {
	edPair := crypto.NewEd25519Pair(test.Seed(5))
	ecPair := crypto.NewEcdsaPair(test.Seed(7))
	pub := edPair.Public()
	assert.Equal(t, account.AccountId32(pub), crypto.MultiSignerFromEd25519(pub).IntoAccount())
	assert.Equal(
		t,
		ecPair.Public().IntoAccount(),
		crypto.MultiSignerFromEcdsa(ecPair.Public()).IntoAccount(),
	)
	assert.Equal(t, account.AccountId32{}, crypto.MultiSigner{}.IntoAccount())
}

func TestMultiSignatureDecodeBadLength(t *testing.T) {
	type raw struct {
		cbor.StructAsArray
		Scheme uint8
		Data   []byte
	}
	data, err := cbor.Encode(raw{Scheme: uint8(crypto.SchemeEd25519), Data: []byte{1, 2, 3}})
	require.NoError(t, err)
	var sig crypto.MultiSignature
	_, err = cbor.Decode(data, &sig)
	assert.Error(t, err)

	data, err = cbor.Encode(raw{Scheme: 9, Data: make([]byte, 64)})
	require.NoError(t, err)
	_, err = cbor.Decode(data, &sig)
	assert.ErrorIs(t, err, crypto.ErrUnknownScheme)
}

var _ crypto.AppVerify[crypto.AuraApp, crypto.Sr25519Public] = crypto.AppSignature[crypto.AuraApp, crypto.Sr25519Public, crypto.Sr25519Signature]{}

func TestAppSignature(t *testing.T) {
	pair, err := crypto.NewSr25519Pair(test.Seed(8))
	require.NoError(t, err)
	sig, err := pair.Sign(msg)
	require.NoError(t, err)

	pub := crypto.NewAppPublic[crypto.AuraApp](pair.Public())
	appSig := crypto.NewAppSignature[crypto.AuraApp, crypto.Sr25519Public](sig)
	assert.Equal(t, crypto.KeyTypeAura, pub.KeyTypeID())
	assert.True(t, appSig.Verify(crypto.LazyBytes(msg), pub))
	assert.False(t, appSig.Verify(crypto.LazyBytes("other"), pub))
}

func TestSessionKeys(t *testing.T) {
	edPair := crypto.NewEd25519Pair(test.Seed(9))
	srPair, err := crypto.NewSr25519Pair(test.Seed(10))
	require.NoError(t, err)
	edPub := edPair.Public()
	srPub := srPair.Public()

	keys := crypto.NewSessionKeys()
	keys.Set(crypto.KeyTypeGrandpa, edPub[:])
	keys.Set(crypto.KeyTypeBabe, make([]byte, 32))
	keys.Set(crypto.KeyTypeBabe, srPub[:])
	assert.Equal(t, []crypto.KeyTypeID{crypto.KeyTypeGrandpa, crypto.KeyTypeBabe}, keys.KeyIDs())
	assert.True(t, keys.OwnershipProofIsValid(nil))

	gotEd, err := crypto.GetKey[crypto.Ed25519Public](keys, crypto.KeyTypeGrandpa)
	require.NoError(t, err)
	assert.Equal(t, edPub, gotEd)
	gotSr, err := crypto.GetKey[crypto.Sr25519Public](keys, crypto.KeyTypeBabe)
	require.NoError(t, err)
	assert.Equal(t, srPub, gotSr)
	_, err = crypto.GetKey[crypto.Sr25519Public](keys, crypto.KeyTypeAura)
	assert.Error(t, err)
	assert.Empty(t, keys.GetRaw(crypto.KeyTypeAura))

	data, err := cbor.Encode(keys)
	require.NoError(t, err)
	back := crypto.NewSessionKeys()
	_, err = cbor.Decode(data, back)
	require.NoError(t, err)
	assert.Equal(t, keys.KeyIDs(), back.KeyIDs())
	assert.Equal(t, srPub[:], back.GetRaw(crypto.KeyTypeBabe))
}
