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

package cbor_test

import (
	"testing"

	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReportsConsumedBytes(t *testing.T) {
	// Two items back to back: 7, then [1]
	data := []byte{0x07, 0x81, 0x01}
	var v uint64
	n, err := cbor.Decode(data, &v)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
	assert.Equal(t, 1, n)
}

func TestDecodeExactRejectsTrailingData(t *testing.T) {
	var v uint64
	require.NoError(t, cbor.DecodeExact([]byte{0x07}, &v))
	require.Error(t, cbor.DecodeExact([]byte{0x07, 0x00}, &v))
}

func TestDecodeStructAsArray(t *testing.T) {
	var v testArrayStruct
	_, err := cbor.Decode([]byte{0x82, 0x07, 0x42, 0x01, 0xff}, &v)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v.A)
	assert.Equal(t, []byte{0x01, 0xff}, v.B)
}

func TestListLength(t *testing.T) {
	testDefs := []struct {
		name     string
		data     []byte
		expected int
		wantErr  bool
	}{
		{name: "EmptyList", data: []byte{0x80}, expected: 0},
		{name: "SmallList", data: []byte{0x83, 0x01, 0x02, 0x03}, expected: 3},
		{
			name: "LongList",
			// 0x98 0x18 = array of 24 items
			data: append(
				[]byte{0x98, 0x18},
				make([]byte, 24)...,
			),
			expected: 24,
		},
		{name: "NoData", data: []byte{}, wantErr: true},
		{name: "NotAList", data: []byte{0x01}, wantErr: true},
	}
	for _, tc := range testDefs {
		t.Run(tc.name, func(t *testing.T) {
			l, err := cbor.ListLength(tc.data)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, l)
		})
	}
}

func TestDecodeList(t *testing.T) {
	items, err := cbor.DecodeList([]byte{0x82, 0x01, 0x81, 0x02})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, cbor.RawMessage{0x01}, items[0])
	assert.Equal(t, cbor.RawMessage{0x81, 0x02}, items[1])
}

func TestDecodeStoreCbor(t *testing.T) {
	var d cbor.DecodeStoreCbor
	orig := []byte{0x01, 0x02}
	d.SetCbor(orig)
	orig[0] = 0xff
	assert.Equal(t, []byte{0x01, 0x02}, d.Cbor())
	assert.True(t, cbor.IsNull([]byte{0xf6}))
	assert.False(t, cbor.IsNull([]byte{0xf6, 0x00}))
}
