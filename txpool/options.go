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
	"log/slog"
	"runtime"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/generic"
)

// Config holds configuration for a Pool.
type Config struct {
	// DecodeWorkers is the number of parallel decode workers.
	DecodeWorkers int
	// ValidateWorkers is the number of parallel validate workers.
	ValidateWorkers int
	// BufferSize is the buffer size of the submit, inter-stage, result and
	// error channels.
	BufferSize int
	Logger     *slog.Logger
	// Decoder is required.
	Decoder Decoder
	// Lookup resolves signer addresses. If nil, only addresses that carry the
	// account ID directly can be resolved.
	Lookup       account.Lookup[account.Address, account.AccountId32]
	Unsigned     generic.UnsignedValidator
	DispatchInfo DispatchInfoFunc
}

// DefaultConfig returns a Config sized for the host. It has no decoder.
func DefaultConfig() Config {
	numCPU := runtime.NumCPU()
	return Config{
		DecodeWorkers:   max(numCPU/4, 2),
		ValidateWorkers: max(numCPU/2, 2),
		BufferSize:      1000,
		DispatchInfo:    CallInfo,
	}
}

// Option is a functional option for configuring a Pool.
type Option func(*Config)

// WithConfig replaces the whole configuration. Options applied after it still
// take effect.
func WithConfig(config Config) Option {
	return func(c *Config) {
		*c = config
	}
}

// WithWorkers sets the number of workers for both stages.
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.DecodeWorkers = n
			c.ValidateWorkers = n
		}
	}
}

func WithDecodeWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.DecodeWorkers = n
		}
	}
}

func WithValidateWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.ValidateWorkers = n
		}
	}
}

func WithBufferSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.BufferSize = size
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithDecoder sets the extrinsic decoder. A nil decoder is ignored.
func WithDecoder(decoder Decoder) Option {
	return func(c *Config) {
		if decoder != nil {
			c.Decoder = decoder
		}
	}
}

func WithLookup(lookup account.Lookup[account.Address, account.AccountId32]) Option {
	return func(c *Config) {
		c.Lookup = lookup
	}
}

// WithUnsignedValidator sets how unsigned extrinsics are judged. Without one,
// unsigned extrinsics are rejected as Unknown(NoUnsignedValidator).
func WithUnsignedValidator(unsigned generic.UnsignedValidator) Option {
	return func(c *Config) {
		c.Unsigned = unsigned
	}
}

// WithDispatchInfo overrides the dispatch info used to validate calls. A nil
// function is ignored.
func WithDispatchInfo(fn DispatchInfoFunc) Option {
	return func(c *Config) {
		if fn != nil {
			c.DispatchInfo = fn
		}
	}
}
