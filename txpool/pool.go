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
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrPoolStopped    = errors.New("txpool: pool is stopped")
	ErrPoolNotStarted = errors.New("txpool: pool not started")
	ErrMissingDecoder = errors.New("txpool: no extrinsic decoder configured")
)

var closedResultsChan = func() <-chan *Item {
	ch := make(chan *Item)
	close(ch)
	return ch
}()

func newNotStartedErrorsChan() <-chan error {
	ch := make(chan error, 1)
	ch <- ErrPoolNotStarted
	close(ch)
	return ch
}

// Pool decodes and validates submitted extrinsics. Every submitted item is
// delivered on Results, in completion order, whether or not it was accepted.
// Failures are also sent on Errors.
type Pool struct {
	config Config
	logger *slog.Logger

	decodePool   *StageWorkerPool
	validatePool *StageWorkerPool

	submitChan  chan *Item
	decodedChan chan *Item
	resultsChan chan *Item
	errorsChan  chan error

	metrics *Metrics

	sequenceCounter atomic.Uint64
	ctx             context.Context
	cancel          context.CancelFunc
	started         atomic.Bool
	stopped         atomic.Bool
	wg              sync.WaitGroup
	mu              sync.Mutex
	submitMu        sync.RWMutex
}

// New returns a Pool configured by opts.
func New(opts ...Option) *Pool {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		config:  config,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

// Start starts the workers. Cancelling ctx stops them.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped.Load() {
		return ErrPoolStopped
	}
	if p.started.Load() {
		return nil
	}
	if p.config.Decoder == nil {
		return ErrMissingDecoder
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	bufSize := p.config.BufferSize
	p.submitChan = make(chan *Item, bufSize)
	p.decodedChan = make(chan *Item, bufSize)
	p.resultsChan = make(chan *Item, bufSize)
	p.errorsChan = make(chan error, bufSize)

	p.decodePool = NewStageWorkerPool(StageWorkerPoolConfig{
		Stage:         NewDecodeStage(p.config.Decoder, p.logger),
		NumWorkers:    p.config.DecodeWorkers,
		Input:         p.submitChan,
		Output:        p.decodedChan,
		Errors:        p.errorsChan,
		RecordMetrics: DecodeMetricsRecorder(p.metrics),
	})
	p.validatePool = NewStageWorkerPool(StageWorkerPoolConfig{
		Stage: NewValidateStage(ValidateStageConfig{
			Lookup:       p.config.Lookup,
			Unsigned:     p.config.Unsigned,
			DispatchInfo: p.config.DispatchInfo,
			Logger:       p.logger,
		}),
		NumWorkers:    p.config.ValidateWorkers,
		Input:         p.decodedChan,
		Output:        p.resultsChan,
		Errors:        p.errorsChan,
		RecordMetrics: ValidateMetricsRecorder(p.metrics),
		ShouldRecord:  RecordIfDecoded,
	})

	p.decodePool.Start(p.ctx)   //nolint:contextcheck
	p.validatePool.Start(p.ctx) //nolint:contextcheck

	p.wg.Add(1)
	go p.metricsCollector()

	p.started.Store(true)
	p.logger.Debug(
		"started transaction pool",
		"component", "txpool",
		"decode_workers", p.config.DecodeWorkers,
		"validate_workers", p.config.ValidateWorkers,
	)
	return nil
}

// Submit queues raw extrinsic bytes for validation. It blocks while the pool is
// full, until ctx is done or the pool stops. It is safe to call concurrently
// with Stop.
func (p *Pool) Submit(ctx context.Context, raw []byte) error {
	if !p.started.Load() {
		return ErrPoolNotStarted
	}
	// Stop must not close submitChan while a send is in flight
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()
	if p.stopped.Load() {
		return ErrPoolStopped
	}
	item := NewItem(raw, p.sequenceCounter.Add(1)-1)
	select {
	case p.submitChan <- item:
		p.metrics.RecordSubmit()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}
}

// Results returns the channel of processed items. Before Start it returns a
// closed channel.
func (p *Pool) Results() <-chan *Item {
	if !p.started.Load() {
		return closedResultsChan
	}
	return p.resultsChan
}

// Errors returns the channel of decode and validation errors. Before Start it
// returns a channel yielding ErrPoolNotStarted.
func (p *Pool) Errors() <-chan error {
	if !p.started.Load() {
		return newNotStartedErrorsChan()
	}
	return p.errorsChan
}

// Stop stops the workers and closes the result and error channels. Items still
// queued are dropped.
func (p *Pool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started.Load() || p.stopped.Load() {
		return nil
	}
	// Cancel first so that blocked submitters release submitMu
	p.cancel()
	p.submitMu.Lock()
	p.stopped.Store(true)
	close(p.submitChan)
	p.submitMu.Unlock()

	p.decodePool.Stop()
	close(p.decodedChan)
	p.validatePool.Stop()
	close(p.resultsChan)
	close(p.errorsChan)

	p.wg.Wait()
	p.logger.Debug(
		"stopped transaction pool",
		"component", "txpool",
		"submitted", p.metrics.Stats().Submitted,
	)
	return nil
}

func (p *Pool) Stats() Stats {
	return p.metrics.Stats()
}

// PendingCount returns the approximate number of items not yet validated.
func (p *Pool) PendingCount() int {
	if !p.started.Load() {
		return 0
	}
	return len(p.submitChan) + len(p.decodedChan)
}

func (p *Pool) metricsCollector() {
	defer p.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.metrics.UpdateQueueDepth(p.PendingCount())
		}
	}
}
