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

package account

import (
	"errors"
	"fmt"
	"sync"

	"github.com/blinklabs-io/goprimitives/validity"
)

var ErrLookup = errors.New("cannot lookup")

// LookupError reports that a source could not be resolved to an account.
type LookupError struct {
	Source string
}

func (e LookupError) Error() string {
	if e.Source == "" {
		return ErrLookup.Error()
	}
	return fmt.Sprintf("%s: %s", ErrLookup.Error(), e.Source)
}

func (e LookupError) Is(target error) bool {
	return target == ErrLookup
}

// ValidityError maps a failed lookup onto the unknown-validity error used by
// transaction validation.
func (LookupError) ValidityError() validity.TransactionValidityError {
	return validity.Unknown(validity.ReasonCannotLookup)
}

// Lookup resolves a source value into an account.
type Lookup[S any, T any] interface {
	Lookup(S) (T, error)
}

// StaticLookup is a Lookup that can also produce a source from an account.
type StaticLookup[S any, T any] interface {
	Lookup[S, T]
	Unlookup(T) S
}

// IdentityLookup resolves every value to itself.
type IdentityLookup[T any] struct{}

func (IdentityLookup[T]) Lookup(s T) (T, error) {
	return s, nil
}

func (IdentityLookup[T]) Unlookup(t T) T {
	return t
}

// IndexLookup resolves addresses using a table of account indices. It is safe
// for concurrent use.
type IndexLookup struct {
	mu      sync.RWMutex
	indices map[uint32]AccountId32
}

func NewIndexLookup() *IndexLookup {
	return &IndexLookup{
		indices: make(map[uint32]AccountId32),
	}
}

// Assign binds an index to an account, replacing any previous binding.
func (l *IndexLookup) Assign(index uint32, id AccountId32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.indices[index] = id
}

// Free removes an index binding.
func (l *IndexLookup) Free(index uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.indices, index)
}

func (l *IndexLookup) Lookup(addr Address) (AccountId32, error) {
	if id, ok := addr.Id(); ok {
		return id, nil
	}
	index, _ := addr.Index()
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.indices[index]
	if !ok {
		return AccountId32{}, LookupError{Source: addr.String()}
	}
	return id, nil
}

func (l *IndexLookup) Unlookup(id AccountId32) Address {
	return AddressFromId(id)
}
