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

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/hashing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aliceHex = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"

func TestDerive(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, "derive", []string{"-tag", "6d6f646c", "-source", "70792f7472737279"})
	require.NoError(t, err)
	expected := "6d6f646c70792f7472737279" + strings.Repeat("00", 20)
	assert.Contains(t, out.String(), "Account ID: "+expected)
	assert.Contains(t, out.String(), "SS58: ")
}

func TestDeriveSubAccount(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, "derive", []string{"-tag", "6d6f646c", "-source", "70792f6366756e64", "-sub", "07000000"})
	require.NoError(t, err)
	id := account.PalletID{'p', 'y', '/', 'c', 'f', 'u', 'n', 'd'}
	expected := account.IntoSubAccount[account.AccountId32](id, uint32(7))
	assert.Contains(t, out.String(), "Account ID: "+expected.String())
}

func TestDeriveRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"short tag", []string{"-tag", "6d6f", "-source", "00"}},
		{"bad source", []string{"-tag", "6d6f646c", "-source", "zz"}},
		{"prefix out of range", []string{"-tag", "6d6f646c", "-prefix", "16384"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(&out, "derive", tc.args))
		})
	}
}

func TestSS58(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, "ss58", []string{"-key", aliceHex}))
	assert.Equal(t, "SS58: 5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY\n", out.String())

	out.Reset()
	require.NoError(t, run(&out, "ss58", []string{"-address", "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"}))
	assert.Equal(t, "Account ID: "+aliceHex+"\nPrefix: 42\n", out.String())

	assert.Error(t, run(&out, "ss58", nil))
	assert.Error(t, run(&out, "ss58", []string{"-key", aliceHex, "-address", "x"}))
}

func TestHash(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, "hash", []string{"-hasher", "blake3", "01", "02"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "01: "+hashing.Blake3.Hash([]byte{0x01}).String(), lines[0])
	root := hashing.Blake3.OrderedTrieRoot([][]byte{{0x01}, {0x02}})
	assert.Equal(t, "Ordered trie root: "+root.String(), lines[2])
	c, err := hashing.CID(hashing.Blake3, root)
	require.NoError(t, err)
	assert.Equal(t, "CID: "+c.String(), lines[3])

	assert.Error(t, run(&out, "hash", []string{"-hasher", "md5", "01"}))
	assert.Error(t, run(&out, "hash", nil))
	assert.Error(t, run(&out, "bogus", nil))
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(&out, "dump", []string{"8201f6"}))
	assert.Equal(t, "[\n  0x1 (1),\n  null,\n],\n", out.String())
	assert.Error(t, run(&out, "dump", []string{"zz"}))
	assert.Error(t, run(&out, "dump", nil))
}
