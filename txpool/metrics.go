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
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blinklabs-io/goprimitives/validity"
)

// Metrics tracks pool activity with atomic counters.
type Metrics struct {
	submitted        atomic.Uint64
	decoded          atomic.Uint64
	validated        atomic.Uint64
	decodeErrors     atomic.Uint64
	validationErrors atomic.Uint64
	invalid          atomic.Uint64

	mu                sync.RWMutex
	currentQueueDepth int
	peakQueueDepth    int
	lastValidTime     time.Time
	startTime         time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

func (m *Metrics) RecordSubmit() {
	m.submitted.Add(1)
}

func (m *Metrics) RecordDecode(err error) {
	if err != nil {
		m.decodeErrors.Add(1)
		return
	}
	m.decoded.Add(1)
}

func (m *Metrics) RecordValidate(err error) {
	if err != nil {
		m.validationErrors.Add(1)
		if errors.Is(err, validity.ErrInvalid) {
			m.invalid.Add(1)
		}
		return
	}
	m.validated.Add(1)
	m.mu.Lock()
	m.lastValidTime = time.Now()
	m.mu.Unlock()
}

func (m *Metrics) UpdateQueueDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentQueueDepth = depth
	if depth > m.peakQueueDepth {
		m.peakQueueDepth = depth
	}
}

// Stats returns a snapshot of the current metrics.
func (m *Metrics) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Submitted:         m.submitted.Load(),
		Decoded:           m.decoded.Load(),
		Validated:         m.validated.Load(),
		DecodeErrors:      m.decodeErrors.Load(),
		ValidationErrors:  m.validationErrors.Load(),
		Invalid:           m.invalid.Load(),
		CurrentQueueDepth: m.currentQueueDepth,
		PeakQueueDepth:    m.peakQueueDepth,
		LastValidTime:     m.lastValidTime,
		StartTime:         m.startTime,
	}
}

func (m *Metrics) Reset() {
	m.submitted.Store(0)
	m.decoded.Store(0)
	m.validated.Store(0)
	m.decodeErrors.Store(0)
	m.validationErrors.Store(0)
	m.invalid.Store(0)

	m.mu.Lock()
	m.currentQueueDepth = 0
	m.peakQueueDepth = 0
	m.lastValidTime = time.Time{}
	m.startTime = time.Now()
	m.mu.Unlock()
}
