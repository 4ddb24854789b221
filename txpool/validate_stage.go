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

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/generic"
	"github.com/blinklabs-io/goprimitives/validity"
)

// DispatchInfoFunc returns the dispatch info used when validating a call.
type DispatchInfoFunc func(call dispatch.Call) dispatch.Info

// CallInfo uses the call's own dispatch info.
func CallInfo(call dispatch.Call) dispatch.Info {
	return call.Info()
}

type ValidateStageConfig struct {
	// Lookup resolves signer addresses. If nil, only addresses that carry the
	// account ID directly can be resolved.
	Lookup       account.Lookup[account.Address, account.AccountId32]
	Unsigned     generic.UnsignedValidator
	DispatchInfo DispatchInfoFunc
	Logger       *slog.Logger
}

// ValidateStage checks the signature of each decoded extrinsic and then asks
// its extensions, or the unsigned validator, for its validity. It reads state
// but never modifies it, so any number of workers may run it.
type ValidateStage struct {
	config ValidateStageConfig
}

func NewValidateStage(config ValidateStageConfig) *ValidateStage {
	if config.DispatchInfo == nil {
		config.DispatchInfo = CallInfo
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &ValidateStage{
		config: config,
	}
}

func (s *ValidateStage) Name() string {
	return "validate"
}

func (s *ValidateStage) Process(ctx context.Context, item *Item) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	// The decode stage already reported the failure
	if !item.IsDecoded() {
		return nil
	}
	start := time.Now()
	ext := item.Extrinsic()
	var checked *generic.CheckedExtrinsic
	var err error
	if s.config.Lookup != nil {
		checked, err = ext.Check(s.config.Lookup)
	} else {
		checked, err = ext.CheckBlind()
	}
	if err != nil {
		return s.reject(item, nil, err, start)
	}
	info := s.config.DispatchInfo(checked.Function)
	valid, err := checked.Validate(s.config.Unsigned, info, len(item.Raw()))
	if err != nil {
		return s.reject(item, checked, err, start)
	}
	item.SetValidation(checked, valid, nil, time.Since(start))
	return nil
}

func (s *ValidateStage) reject(
	item *Item,
	checked *generic.CheckedExtrinsic,
	err error,
	start time.Time,
) error {
	item.SetValidation(checked, validity.ValidTransaction{}, err, time.Since(start))
	s.config.Logger.Debug(
		"rejected extrinsic",
		"component", "txpool",
		"seq", item.SequenceNumber(),
		"hash", item.Hash().String(),
		"error", err,
	)
	return fmt.Errorf("extrinsic %d: %w", item.SequenceNumber(), err)
}
