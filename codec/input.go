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

package codec

import (
	"errors"
	"io"
)

// TrailingZeroInput reads from a byte slice and yields an infinite run of zeros
// once the slice is exhausted.
type TrailingZeroInput struct {
	data []byte
}

// NewTrailingZeroInput wraps the provided byte slice. The slice is not copied.
func NewTrailingZeroInput(data []byte) *TrailingZeroInput {
	return &TrailingZeroInput{data: data}
}

// Read fills p completely. It never returns an error.
func (t *TrailingZeroInput) Read(p []byte) (int, error) {
	n := copy(p, t.data)
	clear(p[n:])
	t.data = t.data[n:]
	return len(p), nil
}

// ReadByte returns the next byte, or zero once the slice is exhausted.
func (t *TrailingZeroInput) ReadByte() (byte, error) {
	if len(t.data) == 0 {
		return 0, nil
	}
	b := t.data[0]
	t.data = t.data[1:]
	return b, nil
}

// RemainingLen always reports an unknown length, since the input is unbounded.
func (t *TrailingZeroInput) RemainingLen() (int, bool) {
	return 0, false
}

// AppendZerosInput forwards bytes from the wrapped reader until it reports
// io.EOF and yields zeros from then on.
type AppendZerosInput struct {
	r         io.Reader
	exhausted bool
}

// NewAppendZerosInput wraps the provided reader.
func NewAppendZerosInput(r io.Reader) *AppendZerosInput {
	return &AppendZerosInput{r: r}
}

// Read fills p completely. Real bytes come first, and the remainder of the call
// is zero-filled once the source is exhausted. Errors other than io.EOF from the
// source are returned along with the bytes read so far.
func (a *AppendZerosInput) Read(p []byte) (int, error) {
	completed := 0
	if !a.exhausted {
		n, err := io.ReadFull(a.r, p)
		completed = n
		switch {
		case err == nil:
			return n, nil
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			a.exhausted = true
		default:
			return n, err
		}
	}
	clear(p[completed:])
	return len(p), nil
}

// RemainingLen always reports an unknown length, since the input is unbounded.
func (a *AppendZerosInput) RemainingLen() (int, bool) {
	return 0, false
}
