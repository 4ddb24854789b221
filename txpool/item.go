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

package txpool

import (
	"bytes"
	"sync"
	"time"

	"github.com/blinklabs-io/goprimitives/generic"
	"github.com/blinklabs-io/goprimitives/hashing"
	"github.com/blinklabs-io/goprimitives/validity"
)

// Item is a submitted extrinsic as it moves through the pool. The raw bytes and
// sequence number are fixed at construction; stage results are guarded by a
// mutex.
type Item struct {
	raw            []byte
	sequenceNumber uint64
	receivedAt     time.Time

	mu sync.RWMutex

	extrinsic      *generic.UncheckedExtrinsic
	decodeError    error
	decodeDuration time.Duration

	checked          *generic.CheckedExtrinsic
	validity         validity.ValidTransaction
	validationError  error
	validateDuration time.Duration
}

// NewItem returns an item owning a copy of raw.
func NewItem(raw []byte, seq uint64) *Item {
	return &Item{
		raw:            bytes.Clone(raw),
		sequenceNumber: seq,
		receivedAt:     time.Now(),
	}
}

// Raw returns the submitted bytes. The returned slice should not be modified.
func (i *Item) Raw() []byte {
	return i.raw
}

func (i *Item) SequenceNumber() uint64 {
	return i.sequenceNumber
}

func (i *Item) ReceivedAt() time.Time {
	return i.receivedAt
}

// Hash returns the blake2b-256 hash of the submitted bytes.
func (i *Item) Hash() hashing.Digest {
	return hashing.BlakeTwo256.Hash(i.raw)
}

// Extrinsic returns the decoded extrinsic, or nil if decoding has not succeeded.
func (i *Item) Extrinsic() *generic.UncheckedExtrinsic {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.extrinsic
}

func (i *Item) SetExtrinsic(ext *generic.UncheckedExtrinsic, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.extrinsic = ext
	i.decodeError = nil
	i.decodeDuration = duration
}

func (i *Item) DecodeError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeError
}

func (i *Item) SetDecodeError(err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.extrinsic = nil
	i.decodeError = err
	i.decodeDuration = duration
}

func (i *Item) DecodeDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeDuration
}

func (i *Item) IsDecoded() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.extrinsic != nil
}

// SetValidation records the outcome of the validate stage. checked may be nil
// if the signature check itself failed.
func (i *Item) SetValidation(
	checked *generic.CheckedExtrinsic,
	valid validity.ValidTransaction,
	err error,
	duration time.Duration,
) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.checked = checked
	i.validity = valid
	i.validationError = err
	i.validateDuration = duration
}

// Checked returns the checked extrinsic, or nil if the check failed.
func (i *Item) Checked() *generic.CheckedExtrinsic {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.checked
}

// Validity returns the validity of an accepted extrinsic.
func (i *Item) Validity() validity.ValidTransaction {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.validity
}

func (i *Item) ValidationError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.validationError
}

// IsValid returns whether the extrinsic passed validation.
func (i *Item) IsValid() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.checked != nil && i.validationError == nil
}

func (i *Item) ValidateDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.validateDuration
}
