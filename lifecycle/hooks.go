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

// Package lifecycle defines the per-block hooks a runtime module may implement
// and runs them across an ordered set of modules.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Module is a runtime module taking part in block execution.
type Module interface {
	Name() string
}

// Initializer is implemented by modules that act at the start of a block. The
// returned value is the weight consumed.
type Initializer interface {
	OnInitialize(n uint64) uint64
}

// Finalizer is implemented by modules that act at the end of a block.
type Finalizer interface {
	OnFinalize(n uint64)
}

// OffchainWorker is implemented by modules that do work outside of consensus
// after a block has been imported.
type OffchainWorker interface {
	OffchainWorker(ctx context.Context, n uint64) error
}

// Hooks runs the hooks of a fixed, ordered list of modules.
type Hooks struct {
	modules []Module
	logger  *slog.Logger
}

func NewHooks(logger *slog.Logger, modules ...Module) *Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hooks{
		modules: modules,
		logger:  logger,
	}
}

// OnInitialize runs every Initializer in order and returns the total weight,
// saturating at the maximum.
func (h *Hooks) OnInitialize(n uint64) uint64 {
	var total uint64
	for _, m := range h.modules {
		initializer, ok := m.(Initializer)
		if !ok {
			continue
		}
		weight := initializer.OnInitialize(n)
		h.logger.Debug(
			"module initialized",
			"component", "lifecycle",
			"module", m.Name(),
			"block", n,
			"weight", weight,
		)
		if total+weight < total {
			total = math.MaxUint64
		} else {
			total += weight
		}
	}
	return total
}

// OnFinalize runs every Finalizer in order.
func (h *Hooks) OnFinalize(n uint64) {
	for _, m := range h.modules {
		fin, ok := m.(Finalizer)
		if !ok {
			continue
		}
		fin.OnFinalize(n)
		h.logger.Debug(
			"module finalized",
			"component", "lifecycle",
			"module", m.Name(),
			"block", n,
		)
	}
}

// OffchainWorker runs every OffchainWorker in order. A failing worker does not
// keep later ones from running, and the failures are returned joined. Once ctx
// is done no further worker is started.
func (h *Hooks) OffchainWorker(ctx context.Context, n uint64) error {
	var errs []error
	for _, m := range h.modules {
		worker, ok := m.(OffchainWorker)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := worker.OffchainWorker(ctx, n); err != nil {
			h.logger.Warn(
				"offchain worker failed",
				"component", "lifecycle",
				"module", m.Name(),
				"block", n,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("module %s: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}
