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

// Package txpool checks incoming extrinsics for admission into a transaction
// pool. Raw extrinsics are decoded and validated by concurrent worker pools,
// and each result carries the validity of the extrinsic or the reason it was
// rejected.
package txpool

import (
	"context"
	"time"
)

// Stage is a processing step applied to every submitted item.
type Stage interface {
	// Name returns the name of the stage for logging.
	Name() string
	// Process processes a single item. A returned error is reported on the
	// pool's error channel.
	Process(ctx context.Context, item *Item) error
}

// StageFunc adapts an ordinary function to the Stage interface.
type StageFunc struct {
	name string
	fn   func(ctx context.Context, item *Item) error
}

func NewStageFunc(name string, fn func(ctx context.Context, item *Item) error) *StageFunc {
	return &StageFunc{
		name: name,
		fn:   fn,
	}
}

func (s *StageFunc) Name() string {
	return s.name
}

func (s *StageFunc) Process(ctx context.Context, item *Item) error {
	return s.fn(ctx, item)
}

// Stats is a snapshot of pool activity.
type Stats struct {
	Submitted        uint64
	Decoded          uint64
	Validated        uint64
	DecodeErrors     uint64
	ValidationErrors uint64
	// Rejections that are Invalid, as opposed to Unknown.
	Invalid uint64

	CurrentQueueDepth int
	PeakQueueDepth    int

	LastValidTime time.Time
	StartTime     time.Time
}
