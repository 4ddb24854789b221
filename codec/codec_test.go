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

package codec_test

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/blinklabs-io/goprimitives/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailingZeroInput(t *testing.T) {
	in := codec.NewTrailingZeroInput([]byte{1, 2, 3})
	buffer := make([]byte, 2)

	_, known := in.RemainingLen()
	assert.False(t, known)

	n, err := in.Read(buffer)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{1, 2}, buffer)

	_, err = in.Read(buffer)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0}, buffer)
	_, known = in.RemainingLen()
	assert.False(t, known)

	_, err = in.Read(buffer)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, buffer)
	_, known = in.RemainingLen()
	assert.False(t, known)
}

func TestTrailingZeroInputReadPastEnd(t *testing.T) {
	src := []byte{0xaa, 0xbb, 0xcc}
	in := codec.NewTrailingZeroInput(src)
	buffer := make([]byte, 8)
	n, err := in.Read(buffer)
	require.NoError(t, err)
	assert.Equal(t, len(buffer), n)
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc, 0, 0, 0, 0, 0}, buffer)
	// The source slice is left untouched
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc}, src)

	b, err := in.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestAppendZerosInput(t *testing.T) {
	testDefs := []struct {
		name   string
		source func() *bytes.Reader
		wrap   bool
	}{
		{name: "Reader", source: func() *bytes.Reader { return bytes.NewReader([]byte{1, 2, 3}) }},
		{name: "OneByteReader", source: func() *bytes.Reader { return bytes.NewReader([]byte{1, 2, 3}) }, wrap: true},
	}
	for _, tc := range testDefs {
		t.Run(tc.name, func(t *testing.T) {
			var in *codec.AppendZerosInput
			if tc.wrap {
				in = codec.NewAppendZerosInput(iotest.OneByteReader(tc.source()))
			} else {
				in = codec.NewAppendZerosInput(tc.source())
			}
			buffer := make([]byte, 2)
			_, err := in.Read(buffer)
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2}, buffer)
			_, err = in.Read(buffer)
			require.NoError(t, err)
			assert.Equal(t, []byte{3, 0}, buffer)
			_, err = in.Read(buffer)
			require.NoError(t, err)
			assert.Equal(t, []byte{0, 0}, buffer)
			_, known := in.RemainingLen()
			assert.False(t, known)
		})
	}
}

func TestAppendZerosInputPropagatesSourceErrors(t *testing.T) {
	errBoom := errors.New("boom")
	in := codec.NewAppendZerosInput(iotest.ErrReader(errBoom))
	_, err := in.Read(make([]byte, 4))
	require.ErrorIs(t, err, errBoom)
}

type sampleStruct struct {
	Tag   [4]byte
	Value uint32
	Other uint16
}

func TestEncodeFixedWidth(t *testing.T) {
	data, err := codec.Encode(sampleStruct{
		Tag:   [4]byte{'t', 'e', 's', 't'},
		Value: 0xdeadbeef,
		Other: 0xc0da,
	})
	require.NoError(t, err)
	assert.Equal(
		t,
		[]byte{'t', 'e', 's', 't', 0xef, 0xbe, 0xad, 0xde, 0xda, 0xc0},
		data,
	)
}

func TestEncodeTupleSkipsNil(t *testing.T) {
	data, err := codec.EncodeTuple([4]byte{1, 2, 3, 4}, nil, uint16(0x0102))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 0x02, 0x01}, data)
}

func TestDecodeBytesReportsConsumed(t *testing.T) {
	var v uint32
	n, err := codec.DecodeBytes([]byte{0x0d, 0xf0, 0xfe, 0xca, 0xff}, &v)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint32(0xcafef00d), v)
}

func TestDecodeFromTrailingZeroInput(t *testing.T) {
	// Two bytes of data decoded as a u64 come back zero-extended
	var v uint64
	err := codec.Decode(codec.NewTrailingZeroInput([]byte{0xda, 0xc0}), &v)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xc0da), v)
}

func TestDecodeShortInputFails(t *testing.T) {
	var v uint64
	_, err := codec.DecodeBytes([]byte{0x01, 0x02}, &v)
	require.Error(t, err)
}
