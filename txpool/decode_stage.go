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
	"fmt"
	"log/slog"
	"time"

	"github.com/blinklabs-io/goprimitives/generic"
)

// Decoder turns wire bytes into an unchecked extrinsic.
// generic.ExtrinsicDecoder implements it.
type Decoder interface {
	Decode(data []byte) (*generic.UncheckedExtrinsic, error)
}

// DecodeStage decodes the submitted bytes of each item.
type DecodeStage struct {
	decoder Decoder
	logger  *slog.Logger
}

func NewDecodeStage(decoder Decoder, logger *slog.Logger) *DecodeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecodeStage{
		decoder: decoder,
		logger:  logger,
	}
}

func (s *DecodeStage) Name() string {
	return "decode"
}

func (s *DecodeStage) Process(ctx context.Context, item *Item) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	start := time.Now()
	ext, err := s.decoder.Decode(item.Raw())
	duration := time.Since(start)
	if err != nil {
		item.SetDecodeError(err, duration)
		s.logger.Debug(
			"failed to decode extrinsic",
			"component", "txpool",
			"seq", item.SequenceNumber(),
			"error", err,
		)
		return fmt.Errorf("extrinsic %d: %w", item.SequenceNumber(), err)
	}
	item.SetExtrinsic(ext, duration)
	return nil
}
