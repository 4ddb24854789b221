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

// Package codec provides the fixed-width little-endian (SCALE) codec and the
// zero-padded inputs used when deriving identifiers from encoded data.
//
// The padded inputs never run out of data: once the wrapped bytes are
// exhausted, every read yields zeros. Decoding a fixed-width value from such
// an input therefore always has enough bytes, and any width not covered by the
// source is zero-filled.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Input is a byte source that may or may not know how much data remains.
type Input interface {
	io.Reader
	// RemainingLen returns the number of bytes left and whether that number is known.
	RemainingLen() (int, bool)
}

// Encode encodes a single value.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := scale.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTuple encodes each value in order and concatenates the results, which
// is the encoding of the tuple of those values. Nil values are skipped and
// contribute nothing.
func EncodeTuple(vs ...any) ([]byte, error) {
	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)
	for idx, v := range vs {
		if v == nil {
			continue
		}
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode tuple item %d: %w", idx, err)
		}
	}
	return buf.Bytes(), nil
}

// Decode decodes a single value from r into dst, which must be a pointer.
func Decode(r io.Reader, dst any) error {
	if dst == nil {
		return errors.New("decode destination must not be nil")
	}
	return scale.NewDecoder(r).Decode(dst)
}

// DecodeBytes decodes a single value from data into dst and returns the number
// of bytes consumed.
func DecodeBytes(data []byte, dst any) (int, error) {
	r := bytes.NewReader(data)
	if err := Decode(r, dst); err != nil {
		return 0, err
	}
	return len(data) - r.Len(), nil
}
