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
	"sync"
	"sync/atomic"
)

// ErrNilStage is returned when a nil stage is passed to a worker pool.
var ErrNilStage = errors.New("txpool: nil stage")

// MetricsRecorder records the outcome of processing an item.
type MetricsRecorder func(item *Item, err error)

// ShouldRecordMetrics reports whether an item was actually processed by a stage.
type ShouldRecordMetrics func(item *Item) bool

// StageWorkerPool runs a stage on several workers. Items are forwarded to the
// output even when the stage fails, so every submitted item is accounted for.
type StageWorkerPool struct {
	stage         Stage
	numWorkers    int
	input         <-chan *Item
	output        chan<- *Item
	errors        chan<- error
	recordMetrics MetricsRecorder
	shouldRecord  ShouldRecordMetrics
	wg            sync.WaitGroup
	started       atomic.Bool
}

type StageWorkerPoolConfig struct {
	// Stage is required.
	Stage Stage
	// NumWorkers defaults to 1 if <= 0.
	NumWorkers int
	Input      <-chan *Item
	Output     chan<- *Item
	// Errors may be nil, in which case errors are dropped.
	Errors        chan<- error
	RecordMetrics MetricsRecorder
	// ShouldRecord defaults to recording every item.
	ShouldRecord ShouldRecordMetrics
}

// NewStageWorkerPool returns a worker pool for the configured stage. It panics
// if the stage is nil.
func NewStageWorkerPool(config StageWorkerPoolConfig) *StageWorkerPool {
	if config.Stage == nil {
		panic(ErrNilStage)
	}
	numWorkers := max(config.NumWorkers, 1)
	return &StageWorkerPool{
		stage:         config.Stage,
		numWorkers:    numWorkers,
		input:         config.Input,
		output:        config.Output,
		errors:        config.Errors,
		recordMetrics: config.RecordMetrics,
		shouldRecord:  config.ShouldRecord,
	}
}

// Start starts the workers. It is idempotent.
func (p *StageWorkerPool) Start(ctx context.Context) {
	if p.started.Swap(true) {
		return
	}
	for range p.numWorkers {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Stop waits for all workers to exit. Workers exit when the input is closed or
// the context is cancelled.
func (p *StageWorkerPool) Stop() {
	p.wg.Wait()
}

func (p *StageWorkerPool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-p.input:
			if !ok {
				return
			}
			err := p.stage.Process(ctx, item)
			if p.recordMetrics != nil &&
				!errors.Is(err, context.Canceled) &&
				!errors.Is(err, context.DeadlineExceeded) &&
				(p.shouldRecord == nil || p.shouldRecord(item)) {
				p.recordMetrics(item, err)
			}
			if err != nil && p.errors != nil {
				select {
				case p.errors <- err:
				case <-ctx.Done():
					return
				}
			}
			select {
			case p.output <- item:
			case <-ctx.Done():
				return
			}
		}
	}
}

func DecodeMetricsRecorder(metrics *Metrics) MetricsRecorder {
	if metrics == nil {
		return nil
	}
	return func(item *Item, err error) {
		metrics.RecordDecode(err)
	}
}

func ValidateMetricsRecorder(metrics *Metrics) MetricsRecorder {
	if metrics == nil {
		return nil
	}
	return func(item *Item, err error) {
		metrics.RecordValidate(err)
	}
}

// RecordIfDecoded skips items that never reached the validate stage.
func RecordIfDecoded(item *Item) bool {
	return item.IsDecoded()
}
