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

package extension_test

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/block"
	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/extension"
	"github.com/blinklabs-io/goprimitives/hashing"
	"github.com/blinklabs-io/goprimitives/validity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopCall struct {
	info dispatch.Info
}

func (c noopCall) Dispatch(dispatch.Origin) (dispatch.PostInfo, error) {
	return dispatch.PostInfo{}, nil
}

func (c noopCall) Info() dispatch.Info {
	return c.info
}

// recorder logs every stage it takes part in.
type recorder struct {
	extension.Base
	id    string
	valid validity.ValidTransaction
	err   error
	calls *[]string
}

func (r recorder) Identifier() string {
	return r.id
}

func (r recorder) AdditionalSigned() (any, error) {
	*r.calls = append(*r.calls, "signed:"+r.id)
	if r.err != nil {
		return nil, r.err
	}
	return r.id, nil
}

func (r recorder) Validate(
	account.AccountId32,
	dispatch.Call,
	dispatch.Info,
	int,
) (validity.ValidTransaction, error) {
	*r.calls = append(*r.calls, "validate:"+r.id)
	if r.err != nil {
		return validity.ValidTransaction{}, r.err
	}
	return r.valid, nil
}

func (r recorder) PreDispatch(
	account.AccountId32,
	dispatch.Call,
	dispatch.Info,
	int,
) (any, error) {
	*r.calls = append(*r.calls, "pre:"+r.id)
	if r.err != nil {
		return nil, r.err
	}
	return "carry-" + r.id, nil
}

func (r recorder) PostDispatch(
	pre any,
	_ dispatch.Info,
	_ dispatch.PostInfo,
	_ int,
	_ error,
) {
	*r.calls = append(*r.calls, fmt.Sprintf("post:%s:%v", r.id, pre))
}

func (r recorder) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(r.id)
}

// validateOnly relies on the default pre-dispatch behavior.
type validateOnly struct {
	extension.Base
	err   error
	calls *int
}

func (validateOnly) Identifier() string {
	return "ValidateOnly"
}

func (v validateOnly) Validate(
	account.AccountId32,
	dispatch.Call,
	dispatch.Info,
	int,
) (validity.ValidTransaction, error) {
	*v.calls++
	return validity.Default(), v.err
}

func newChain(calls *[]string, failAt int) extension.Chain {
	ret := extension.Chain{}
	for idx, id := range []string{"e1", "e2", "e3"} {
		r := recorder{
			id:    id,
			calls: calls,
			valid: validity.ValidTransaction{
				Priority:  uint64(idx + 1),
				Provides:  []validity.Tag{[]byte(id)},
				Longevity: uint64(10 * (3 - idx)),
				Propagate: true,
			},
		}
		if idx == failAt {
			r.err = validity.Invalid(validity.ReasonPayment)
		}
		ret = append(ret, r)
	}
	return ret
}

var who = account.AccountId32{1}

func TestChainValidateCombines(t *testing.T) {
	var calls []string
	chain := newChain(&calls, -1)
	v, err := chain.Validate(who, noopCall{}, dispatch.DefaultInfo(), 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), v.Priority)
	assert.Equal(t, []validity.Tag{[]byte("e1"), []byte("e2"), []byte("e3")}, v.Provides)
	assert.Equal(t, uint64(10), v.Longevity)
	assert.True(t, v.Propagate)
	assert.Equal(t, []string{"validate:e1", "validate:e2", "validate:e3"}, calls)
	assert.Equal(t, []string{"e1", "e2", "e3"}, chain.Identifiers())
}

func TestChainShortCircuits(t *testing.T) {
	var calls []string
	chain := newChain(&calls, 1)
	expected := validity.Invalid(validity.ReasonPayment)

	_, err := chain.Validate(who, noopCall{}, dispatch.DefaultInfo(), 10)
	assert.Equal(t, expected, err)
	assert.Equal(t, []string{"validate:e1", "validate:e2"}, calls)

	calls = nil
	_, err = chain.PreDispatch(who, noopCall{}, dispatch.DefaultInfo(), 10)
	assert.Equal(t, expected, err)
	assert.Equal(t, []string{"pre:e1", "pre:e2"}, calls)

	calls = nil
	_, err = chain.AdditionalSigned()
	assert.Equal(t, expected, err)
	assert.Equal(t, []string{"signed:e1", "signed:e2"}, calls)
}

func TestChainDispatchLifecycle(t *testing.T) {
	var calls []string
	chain := newChain(&calls, -1)
	signed, err := chain.AdditionalSigned()
	require.NoError(t, err)
	assert.Equal(t, []any{"e1", "e2", "e3"}, signed)

	calls = nil
	pre, err := chain.PreDispatch(who, noopCall{}, dispatch.DefaultInfo(), 10)
	require.NoError(t, err)
	assert.Equal(t, []any{"carry-e1", "carry-e2", "carry-e3"}, pre)
	chain.PostDispatch(pre, dispatch.DefaultInfo(), dispatch.PostInfo{}, 10, nil)
	assert.Equal(
		t,
		[]string{
			"pre:e1", "pre:e2", "pre:e3",
			"post:e1:carry-e1", "post:e2:carry-e2", "post:e3:carry-e3",
		},
		calls,
	)

	// Unsigned transactions have no carries
	calls = nil
	chain.PostDispatch(nil, dispatch.DefaultInfo(), dispatch.PostInfo{}, 10, nil)
	assert.Equal(t, []string{"post:e1:<nil>", "post:e2:<nil>", "post:e3:<nil>"}, calls)
}

func TestEmptyChain(t *testing.T) {
	var chain extension.Chain
	signed, err := chain.AdditionalSigned()
	require.NoError(t, err)
	assert.Empty(t, signed)
	v, err := chain.Validate(who, noopCall{}, dispatch.DefaultInfo(), 0)
	require.NoError(t, err)
	assert.Equal(t, validity.Default(), v)
	v, err = chain.ValidateUnsigned(noopCall{}, dispatch.DefaultInfo(), 0)
	require.NoError(t, err)
	assert.Equal(t, validity.Default(), v)
	pre, err := chain.PreDispatch(who, noopCall{}, dispatch.DefaultInfo(), 0)
	require.NoError(t, err)
	assert.Empty(t, pre)
	require.NoError(t, chain.PreDispatchUnsigned(noopCall{}, dispatch.DefaultInfo(), 0))
	assert.NotPanics(t, func() {
		chain.PostDispatch(pre, dispatch.DefaultInfo(), dispatch.PostInfo{}, 0, nil)
	})
	data, err := cbor.Encode(extension.Chain{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, data)
}

func TestDefaultPreDispatchRunsValidate(t *testing.T) {
	calls := 0
	ext := validateOnly{calls: &calls}
	pre, err := extension.PreDispatch(ext, who, noopCall{}, dispatch.DefaultInfo(), 0)
	require.NoError(t, err)
	assert.Nil(t, pre)
	assert.Equal(t, 1, calls)

	ext.err = validity.Invalid(validity.ReasonCall)
	_, err = extension.PreDispatch(ext, who, noopCall{}, dispatch.DefaultInfo(), 0)
	assert.ErrorIs(t, err, validity.ErrInvalid)
	assert.Equal(t, 2, calls)

	// ValidateUnsigned comes from Base
	require.NoError(t, extension.PreDispatchUnsigned(ext, noopCall{}, dispatch.DefaultInfo(), 0))
}

func TestCheckNonce(t *testing.T) {
	nonces := extension.NewNonceMap()
	nonces.SetNonce(who, 5)

	stale := extension.CheckNonce{Nonce: 4, Accounts: nonces}
	_, err := stale.Validate(who, noopCall{}, dispatch.DefaultInfo(), 0)
	assert.Equal(t, validity.Invalid(validity.ReasonStale), err)

	current := extension.CheckNonce{Nonce: 5, Accounts: nonces}
	v, err := current.Validate(who, noopCall{}, dispatch.DefaultInfo(), 0)
	require.NoError(t, err)
	assert.Equal(t, []validity.Tag{extension.NonceTag(who, 5)}, v.Provides)
	assert.Empty(t, v.Requires)

	future := extension.CheckNonce{Nonce: 7, Accounts: nonces}
	v, err = future.Validate(who, noopCall{}, dispatch.DefaultInfo(), 0)
	require.NoError(t, err)
	assert.Equal(t, []validity.Tag{extension.NonceTag(who, 6)}, v.Requires)
	_, err = future.PreDispatch(who, noopCall{}, dispatch.DefaultInfo(), 0)
	assert.Equal(t, validity.Invalid(validity.ReasonFuture), err)

	_, err = current.PreDispatch(who, noopCall{}, dispatch.DefaultInfo(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), nonces.Nonce(who))
	_, err = current.PreDispatch(who, noopCall{}, dispatch.DefaultInfo(), 0)
	assert.Equal(t, validity.Invalid(validity.ReasonStale), err)
}

func TestMortalEra(t *testing.T) {
	testDefs := []struct {
		period  uint64
		current uint64
		want    extension.Era
	}{
		{period: 64, current: 42, want: extension.Era{Period: 64, Phase: 42}},
		{period: 1, current: 6, want: extension.Era{Period: 4, Phase: 2}},
		{period: 33, current: 100, want: extension.Era{Period: 64, Phase: 36}},
		{period: 32768, current: 20000, want: extension.Era{Period: 32768, Phase: 20000}},
		{period: 1 << 20, current: 70001, want: extension.Era{Period: 65536, Phase: 4464}},
	}
	for _, testDef := range testDefs {
		t.Run(fmt.Sprintf("%d/%d", testDef.period, testDef.current), func(t *testing.T) {
			assert.Equal(t, testDef.want, extension.MortalEra(testDef.period, testDef.current))
		})
	}
}

func TestEraBirthDeath(t *testing.T) {
	era := extension.Era{Period: 64, Phase: 42}
	assert.Equal(t, uint64(42), era.Birth(42))
	assert.Equal(t, uint64(42), era.Birth(100))
	assert.Equal(t, uint64(106), era.Birth(106))
	assert.Equal(t, uint64(170), era.Death(106))
	// Before the phase, the era starts at the phase
	assert.Equal(t, uint64(42), era.Birth(10))

	immortal := extension.ImmortalEra()
	assert.Equal(t, uint64(0), immortal.Birth(1000))
	assert.Equal(t, uint64(math.MaxUint64), immortal.Death(1000))
}

func TestEraCbor(t *testing.T) {
	for _, era := range []extension.Era{extension.ImmortalEra(), {Period: 64, Phase: 42}} {
		data, err := cbor.Encode(era)
		require.NoError(t, err)
		var back extension.Era
		_, err = cbor.Decode(data, &back)
		require.NoError(t, err)
		assert.Equal(t, era, back)
	}
	for _, bad := range [][]uint64{{63, 1}, {64, 64}, {1}} {
		data, err := cbor.Encode(bad)
		require.NoError(t, err)
		var back extension.Era
		_, err = cbor.Decode(data, &back)
		assert.Error(t, err, "%v", bad)
	}
}

func TestCheckMortality(t *testing.T) {
	idx := block.NewIndex()
	for n := uint64(0); n <= 110; n++ {
		idx.Insert(n, hashing.BlakeTwo256.Hash(cbor.MustEncode(n)))
	}
	ext := extension.CheckMortality{Era: extension.Era{Period: 64, Phase: 42}, Blocks: idx}
	signed, err := ext.AdditionalSigned()
	require.NoError(t, err)
	expected, _ := idx.BlockHash(106)
	assert.Equal(t, expected, signed)

	v, err := ext.Validate(who, noopCall{}, dispatch.DefaultInfo(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(170-110), v.Longevity)

	immortal := extension.CheckMortality{Era: extension.ImmortalEra(), Blocks: idx}
	signed, err = immortal.AdditionalSigned()
	require.NoError(t, err)
	genesis, _ := idx.BlockHash(0)
	assert.Equal(t, genesis, signed)
	v, err = immortal.Validate(who, noopCall{}, dispatch.DefaultInfo(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-110), v.Longevity)

	// The birth block is unknown once it has been pruned
	sparse := block.NewIndex()
	sparse.Insert(110, hashing.Digest{1})
	_, err = extension.CheckMortality{Era: ext.Era, Blocks: sparse}.AdditionalSigned()
	assert.Equal(t, validity.Invalid(validity.ReasonAncientBirthBlock), err)
}

func TestCheckWeight(t *testing.T) {
	bw := extension.NewBlockWeight(100)
	ext := extension.CheckWeight{Block: bw}

	_, err := ext.Validate(who, noopCall{}, dispatch.Info{Weight: 101}, 0)
	assert.Equal(t, validity.Invalid(validity.ReasonExhaustsResources), err)
	assert.True(t, err.(validity.TransactionValidityError).Exhausted())

	_, err = ext.PreDispatch(who, noopCall{}, dispatch.Info{Weight: 60}, 0)
	require.NoError(t, err)
	_, err = ext.PreDispatch(who, noopCall{}, dispatch.Info{Weight: 60}, 0)
	assert.Equal(t, validity.Invalid(validity.ReasonExhaustsResources), err)
	assert.Equal(t, uint64(60), bw.Used())

	// Mandatory calls are always admitted
	require.NoError(t, ext.PreDispatchUnsigned(noopCall{}, dispatch.Info{Weight: 60, Class: dispatch.ClassMandatory}, 0))
	assert.Equal(t, uint64(120), bw.Used())

	// Unused weight is refunded after dispatch
	actual := uint64(10)
	ext.PostDispatch(nil, dispatch.Info{Weight: 60}, dispatch.PostInfo{ActualWeight: &actual}, 0, nil)
	assert.Equal(t, uint64(70), bw.Used())

	bw.Reset()
	assert.Equal(t, uint64(0), bw.Used())
}

func TestChainPreDispatchStagesWrites(t *testing.T) {
	other := account.AccountId32{2}
	testDefs := []struct {
		name      string
		chain     func(*extension.NonceMap, *extension.BlockWeight) extension.Chain
		fillBlock bool
		wantErr   error
	}{
		{
			name: "nonce then weight",
			chain: func(n *extension.NonceMap, bw *extension.BlockWeight) extension.Chain {
				return extension.Chain{
					extension.CheckNonce{Nonce: 0, Accounts: n},
					extension.CheckWeight{Block: bw},
				}
			},
			fillBlock: true,
			wantErr:   validity.Invalid(validity.ReasonExhaustsResources),
		},
		{
			name: "weight then nonce",
			chain: func(n *extension.NonceMap, bw *extension.BlockWeight) extension.Chain {
				return extension.Chain{
					extension.CheckWeight{Block: bw},
					extension.CheckNonce{Nonce: 5, Accounts: n},
				}
			},
			wantErr: validity.Invalid(validity.ReasonFuture),
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			nonces := extension.NewNonceMap()
			bw := extension.NewBlockWeight(100)
			if testDef.fillBlock {
				// Leave too little room for the second member
				_, err := extension.CheckWeight{Block: bw}.PreDispatch(who, noopCall{}, dispatch.Info{Weight: 60}, 0)
				require.NoError(t, err)
			}
			usedBefore := bw.Used()
			chain := testDef.chain(nonces, bw)
			_, err := chain.PreDispatch(other, noopCall{}, dispatch.Info{Weight: 60}, 0)
			assert.Equal(t, testDef.wantErr, err)
			assert.Equal(t, uint64(0), nonces.Nonce(other))
			assert.Equal(t, usedBefore, bw.Used())
		})
	}

	nonces := extension.NewNonceMap()
	bw := extension.NewBlockWeight(100)
	chain := extension.Chain{
		extension.CheckNonce{Nonce: 0, Accounts: nonces},
		extension.CheckWeight{Block: bw},
	}
	_, err := chain.PreDispatch(other, noopCall{}, dispatch.Info{Weight: 60}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), nonces.Nonce(other))
	assert.Equal(t, uint64(60), bw.Used())
}

// failingWrite refuses to apply.
type failingWrite struct {
	log *[]string
}

func (f failingWrite) Apply() error {
	*f.log = append(*f.log, "apply:fail")
	return validity.Invalid(validity.ReasonExhaustsResources)
}

func (f failingWrite) Revert() {
	*f.log = append(*f.log, "revert:fail")
}

type loggedWrite struct {
	id  string
	log *[]string
}

func (l loggedWrite) Apply() error {
	*l.log = append(*l.log, "apply:"+l.id)
	return nil
}

func (l loggedWrite) Revert() {
	*l.log = append(*l.log, "revert:"+l.id)
}

func TestWritesRevertOnFailure(t *testing.T) {
	var log []string
	writes := extension.Writes{
		loggedWrite{id: "a", log: &log},
		loggedWrite{id: "b", log: &log},
		failingWrite{log: &log},
		loggedWrite{id: "c", log: &log},
	}
	err := writes.Apply()
	assert.Equal(t, validity.Invalid(validity.ReasonExhaustsResources), err)
	assert.Equal(
		t,
		[]string{"apply:a", "apply:b", "apply:fail", "revert:b", "revert:a"},
		log,
	)
	assert.NoError(t, extension.Writes(nil).Apply())
}

func TestChainPreDispatchUnsignedStagesWrites(t *testing.T) {
	bw := extension.NewBlockWeight(100)
	chain := extension.Chain{
		extension.CheckWeight{Block: bw},
		extension.CheckWeight{Block: bw},
	}
	// Each member fits on its own but the pair does not
	err := chain.PreDispatchUnsigned(noopCall{}, dispatch.Info{Weight: 60}, 0)
	assert.Equal(t, validity.Invalid(validity.ReasonExhaustsResources), err)
	assert.Equal(t, uint64(0), bw.Used())

	writes, err := chain.StagePreDispatchUnsigned(noopCall{}, dispatch.Info{Weight: 40}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bw.Used())
	require.NoError(t, writes.Apply())
	assert.Equal(t, uint64(80), bw.Used())
}

func TestCheckWeightConcurrent(t *testing.T) {
	bw := extension.NewBlockWeight(100)
	ext := extension.CheckWeight{Block: bw}
	var admitted atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ext.PreDispatch(who, noopCall{}, dispatch.Info{Weight: 10}, 0); err == nil {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(10), admitted.Load())
	assert.Equal(t, uint64(100), bw.Used())
}

func TestRegistryDecodeChain(t *testing.T) {
	nonces := extension.NewNonceMap()
	bw := extension.NewBlockWeight(1000)
	genesis := hashing.Digest{0xaa}
	idx := block.NewIndex()
	idx.Insert(0, genesis)

	reg := extension.NewRegistry()
	require.NoError(t, reg.Register(extension.IdentifierCheckSpecVersion, func([]byte) (extension.SignedExtension, error) {
		return extension.CheckSpecVersion{Version: extension.StaticVersion(7)}, nil
	}))
	require.NoError(t, reg.Register(extension.IdentifierCheckGenesis, func([]byte) (extension.SignedExtension, error) {
		return extension.CheckGenesis{Genesis: genesis}, nil
	}))
	require.NoError(t, reg.Register(extension.IdentifierCheckMortality, func(data []byte) (extension.SignedExtension, error) {
		var era extension.Era
		if _, err := cbor.Decode(data, &era); err != nil {
			return nil, err
		}
		return extension.CheckMortality{Era: era, Blocks: idx}, nil
	}))
	require.NoError(t, reg.Register(extension.IdentifierCheckNonce, func(data []byte) (extension.SignedExtension, error) {
		var nonce uint64
		if _, err := cbor.Decode(data, &nonce); err != nil {
			return nil, err
		}
		return extension.CheckNonce{Nonce: nonce, Accounts: nonces}, nil
	}))
	require.NoError(t, reg.Register(extension.IdentifierCheckWeight, func([]byte) (extension.SignedExtension, error) {
		return extension.CheckWeight{Block: bw}, nil
	}))
	assert.Error(t, reg.Register(extension.IdentifierCheckWeight, func([]byte) (extension.SignedExtension, error) {
		return nil, nil
	}))

	chain := extension.Chain{
		extension.CheckSpecVersion{Version: extension.StaticVersion(7)},
		extension.CheckGenesis{Genesis: genesis},
		extension.CheckMortality{Era: extension.ImmortalEra(), Blocks: idx},
		extension.CheckNonce{Nonce: 3, Accounts: nonces},
		extension.CheckWeight{Block: bw},
	}
	data, err := cbor.Encode(chain)
	require.NoError(t, err)
	decoded, err := reg.DecodeChain(data)
	require.NoError(t, err)
	assert.Equal(t, reg.Identifiers(), decoded.Identifiers())
	assert.Equal(t, uint64(3), decoded[3].(extension.CheckNonce).Nonce)

	signed, err := decoded.AdditionalSigned()
	require.NoError(t, err)
	assert.Equal(t, []any{uint32(7), genesis, genesis, nil, nil}, signed)

	_, err = reg.DecodeChain(cbor.MustEncode([]uint64{1, 2}))
	assert.ErrorContains(t, err, "extension count mismatch")
}
