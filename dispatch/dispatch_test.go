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

package dispatch_test

import (
	"testing"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsure(t *testing.T) {
	var alice, bob account.AccountId32
	alice[0] = 1
	bob[0] = 2

	_, err := dispatch.Ensure[struct{}](dispatch.EnsureRoot{}, dispatch.RootOrigin())
	assert.NoError(t, err)
	_, err = dispatch.Ensure[struct{}](dispatch.EnsureRoot{}, dispatch.SignedOrigin(alice))
	assert.ErrorIs(t, err, dispatch.ErrBadOrigin)

	who, err := dispatch.Ensure[account.AccountId32](dispatch.EnsureSigned{}, dispatch.SignedOrigin(alice))
	require.NoError(t, err)
	assert.Equal(t, alice, who)
	_, err = dispatch.Ensure[account.AccountId32](dispatch.EnsureSigned{}, dispatch.NoneOrigin())
	assert.ErrorIs(t, err, dispatch.ErrBadOrigin)

	_, err = dispatch.Ensure[struct{}](dispatch.EnsureNone{}, dispatch.NoneOrigin())
	assert.NoError(t, err)
	_, err = dispatch.Ensure[struct{}](dispatch.EnsureNone{}, dispatch.RootOrigin())
	assert.ErrorIs(t, err, dispatch.ErrBadOrigin)

	members := dispatch.EnsureSignedBy{Members: dispatch.MemberList{alice}}
	who, err = dispatch.Ensure[account.AccountId32](members, dispatch.SignedOrigin(alice))
	require.NoError(t, err)
	assert.Equal(t, alice, who)
	_, err = dispatch.Ensure[account.AccountId32](members, dispatch.SignedOrigin(bob))
	assert.ErrorIs(t, err, dispatch.ErrBadOrigin)
	_, err = dispatch.Ensure[account.AccountId32](members, dispatch.RootOrigin())
	assert.ErrorIs(t, err, dispatch.ErrBadOrigin)

	_, err = dispatch.Ensure[account.AccountId32](dispatch.EnsureSignedBy{}, dispatch.SignedOrigin(alice))
	assert.ErrorIs(t, err, dispatch.ErrBadOrigin)
}

// oddMembers admits accounts whose first byte is odd
type oddMembers struct{}

func (oddMembers) IsMember(who account.AccountId32) bool {
	return who[0]%2 == 1
}

func TestEnsureSignedByCustomSet(t *testing.T) {
	ensure := dispatch.EnsureSignedBy{Members: oddMembers{}}
	_, ok := ensure.TryOrigin(dispatch.SignedOrigin(account.AccountId32{1}))
	assert.True(t, ok)
	_, ok = ensure.TryOrigin(dispatch.SignedOrigin(account.AccountId32{2}))
	assert.False(t, ok)
}

func TestCalcActualWeight(t *testing.T) {
	info := dispatch.Info{Weight: 100}
	assert.Equal(t, uint64(100), dispatch.PostInfo{}.CalcActualWeight(info))
	less := uint64(40)
	assert.Equal(t, uint64(40), dispatch.PostInfo{ActualWeight: &less}.CalcActualWeight(info))
	more := uint64(400)
	assert.Equal(t, uint64(100), dispatch.PostInfo{ActualWeight: &more}.CalcActualWeight(info))
}
