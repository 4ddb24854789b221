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

package extension

import (
	"sync/atomic"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/validity"
)

// BlockWeight tracks the weight consumed by the block being built.
type BlockWeight struct {
	max  uint64
	used atomic.Uint64
}

func NewBlockWeight(limit uint64) *BlockWeight {
	return &BlockWeight{max: limit}
}

func (b *BlockWeight) Max() uint64 {
	return b.max
}

func (b *BlockWeight) Used() uint64 {
	return b.used.Load()
}

// Reset clears the consumed weight at the start of a new block.
func (b *BlockWeight) Reset() {
	b.used.Store(0)
}

// add consumes weight, refusing to exceed the limit unless force is set.
func (b *BlockWeight) add(weight uint64, force bool) bool {
	for {
		used := b.used.Load()
		next := used + weight
		if next < used {
			return false
		}
		if next > b.max && !force {
			return false
		}
		if b.used.CompareAndSwap(used, next) {
			return true
		}
	}
}

// fits reports whether weight can be consumed without exceeding the limit.
func (b *BlockWeight) fits(weight uint64) bool {
	used := b.used.Load()
	next := used + weight
	return next >= used && next <= b.max
}

func (b *BlockWeight) refund(weight uint64) {
	for {
		used := b.used.Load()
		next := used - min(used, weight)
		if b.used.CompareAndSwap(used, next) {
			return
		}
	}
}

// CheckWeight keeps the block within its weight limit. Mandatory calls are
// always admitted.
type CheckWeight struct {
	Base
	Block *BlockWeight
}

func (CheckWeight) Identifier() string {
	return IdentifierCheckWeight
}

func (c CheckWeight) check(info dispatch.Info) (validity.ValidTransaction, error) {
	if info.Class != dispatch.ClassMandatory && info.Weight > c.Block.Max() {
		return validity.ValidTransaction{}, validity.Invalid(validity.ReasonExhaustsResources)
	}
	return validity.Default(), nil
}

// stage checks that the block has room for info without consuming it. The
// returned write consumes the weight and gives it back on revert.
func (c CheckWeight) stage(info dispatch.Info) (Write, error) {
	if _, err := c.check(info); err != nil {
		return nil, err
	}
	force := info.Class == dispatch.ClassMandatory
	if !force && !c.Block.fits(info.Weight) {
		return nil, validity.Invalid(validity.ReasonExhaustsResources)
	}
	w := writeFuncs{
		apply: func() error {
			if !c.Block.add(info.Weight, force) {
				return validity.Invalid(validity.ReasonExhaustsResources)
			}
			return nil
		},
		revert: func() {
			c.Block.refund(info.Weight)
		},
	}
	return w, nil
}

func (c CheckWeight) Validate(
	_ account.AccountId32,
	_ dispatch.Call,
	info dispatch.Info,
	_ int,
) (validity.ValidTransaction, error) {
	return c.check(info)
}

func (c CheckWeight) ValidateUnsigned(
	_ dispatch.Call,
	info dispatch.Info,
	_ int,
) (validity.ValidTransaction, error) {
	return c.check(info)
}

func (c CheckWeight) StagePreDispatch(
	_ account.AccountId32,
	_ dispatch.Call,
	info dispatch.Info,
	_ int,
) (any, Write, error) {
	w, err := c.stage(info)
	return nil, w, err
}

func (c CheckWeight) StagePreDispatchUnsigned(
	_ dispatch.Call,
	info dispatch.Info,
	_ int,
) (Write, error) {
	return c.stage(info)
}

func (c CheckWeight) PreDispatch(
	_ account.AccountId32,
	_ dispatch.Call,
	info dispatch.Info,
	_ int,
) (any, error) {
	w, err := c.stage(info)
	if err != nil {
		return nil, err
	}
	return nil, w.Apply()
}

func (c CheckWeight) PreDispatchUnsigned(
	_ dispatch.Call,
	info dispatch.Info,
	_ int,
) error {
	w, err := c.stage(info)
	if err != nil {
		return err
	}
	return w.Apply()
}

// PostDispatch returns the weight the call declared but did not use.
func (c CheckWeight) PostDispatch(
	_ any,
	info dispatch.Info,
	post dispatch.PostInfo,
	_ int,
	_ error,
) {
	actual := post.CalcActualWeight(info)
	if actual < info.Weight {
		c.Block.refund(info.Weight - actual)
	}
}

func (CheckWeight) MarshalCBOR() ([]byte, error) {
	return emptyCbor, nil
}
