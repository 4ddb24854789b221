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

// Package validity defines the result of validating a transaction: either a
// ValidTransaction descriptor for the transaction pool, or a classified
// TransactionValidityError.
package validity

import (
	"math"
	"slices"
)

// Tag is an opaque marker used to order transactions in the pool.
type Tag = []byte

// ValidTransaction describes a transaction accepted by validation.
type ValidTransaction struct {
	// Priority orders transactions in the pool. Higher is better.
	Priority uint64
	// Requires lists the tags that must be provided before this transaction is ready.
	Requires []Tag
	// Provides lists the tags this transaction makes available.
	Provides []Tag
	// Longevity is the number of blocks the transaction stays valid for.
	Longevity uint64
	// Propagate controls whether the transaction is gossiped to peers.
	Propagate bool
}

// Default returns the neutral descriptor: zero priority, no tags, unbounded
// longevity and propagation enabled. Combining with it changes nothing.
func Default() ValidTransaction {
	return ValidTransaction{
		Longevity: math.MaxUint64,
		Propagate: true,
	}
}

// CombineWith merges two descriptors. Priorities are added (saturating),
// requires and provides are concatenated in order, the lower longevity wins and
// propagation requires both sides to allow it. The merge is associative.
func (v ValidTransaction) CombineWith(other ValidTransaction) ValidTransaction {
	priority := v.Priority + other.Priority
	if priority < v.Priority {
		priority = math.MaxUint64
	}
	return ValidTransaction{
		Priority:  priority,
		Requires:  concatTags(v.Requires, other.Requires),
		Provides:  concatTags(v.Provides, other.Provides),
		Longevity: min(v.Longevity, other.Longevity),
		Propagate: v.Propagate && other.Propagate,
	}
}

func concatTags(a, b []Tag) []Tag {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	ret := make([]Tag, 0, len(a)+len(b))
	for _, tag := range slices.Concat(a, b) {
		ret = append(ret, slices.Clone(tag))
	}
	return ret
}
