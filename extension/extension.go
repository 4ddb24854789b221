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

// Package extension implements signed extensions: independent checks carried by
// a transaction that bind extra data into the signature, contribute to
// validation and run around dispatch.
//
// Extensions are composed into a Chain, an ordered list that behaves like a
// single extension. Per-member data (additional signed data and pre-dispatch
// carries) is kept positionally, so the order of a chain must be identical when
// signing, validating and dispatching.
//
// The life of an extension for a single transaction is
//
//	Validate -> PreDispatch -> (dispatch) -> PostDispatch
//
// Validate may run many times, concurrently, against read-only state (for
// example from several transaction pool workers). PreDispatch and PostDispatch
// run exactly once, sequentially, under the block builder.
package extension

import (
	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/validity"
)

// SignedExtension is a check carried by a transaction. Errors returned from its
// methods are validity.TransactionValidityError values.
type SignedExtension interface {
	// Identifier is the unique name of the extension.
	Identifier() string
	// AdditionalSigned returns the data that is signed along with the
	// transaction without being carried in it.
	AdditionalSigned() (any, error)
	// Validate checks a signed transaction without modifying state.
	Validate(
		who account.AccountId32,
		call dispatch.Call,
		info dispatch.Info,
		length int,
	) (validity.ValidTransaction, error)
	// ValidateUnsigned checks an unsigned transaction without modifying state.
	ValidateUnsigned(
		call dispatch.Call,
		info dispatch.Info,
		length int,
	) (validity.ValidTransaction, error)
}

// PreDispatcher is implemented by extensions that need to act before a signed
// transaction is dispatched. An implementation must perform every check that
// Validate performs. Extensions without it re-run Validate and carry nil.
type PreDispatcher interface {
	PreDispatch(
		who account.AccountId32,
		call dispatch.Call,
		info dispatch.Info,
		length int,
	) (any, error)
}

// UnsignedPreDispatcher is implemented by extensions that need to act before an
// unsigned transaction is dispatched. Extensions without it re-run
// ValidateUnsigned.
type UnsignedPreDispatcher interface {
	PreDispatchUnsigned(call dispatch.Call, info dispatch.Info, length int) error
}

// Write is a state change staged by a pre-dispatch step. Nothing is modified
// until Apply runs. Revert undoes a successful Apply.
type Write interface {
	Apply() error
	Revert()
}

// Stager is implemented by extensions whose pre-dispatch step changes state. A
// Chain stages every member first and applies the writes only once all of them
// have passed.
type Stager interface {
	StagePreDispatch(
		who account.AccountId32,
		call dispatch.Call,
		info dispatch.Info,
		length int,
	) (any, Write, error)
}

// UnsignedStager is the unsigned counterpart of Stager.
type UnsignedStager interface {
	StagePreDispatchUnsigned(
		call dispatch.Call,
		info dispatch.Info,
		length int,
	) (Write, error)
}

// PostDispatcher is implemented by extensions that need to act after dispatch.
// It runs whether or not the dispatched call itself succeeded. The carry is nil
// for unsigned transactions.
type PostDispatcher interface {
	PostDispatch(
		pre any,
		info dispatch.Info,
		post dispatch.PostInfo,
		length int,
		result error,
	)
}

// Base provides the default no-op Validate and ValidateUnsigned as well as empty
// additional signed data. Embed it and override what is needed.
type Base struct{}

func (Base) AdditionalSigned() (any, error) {
	return nil, nil
}

func (Base) Validate(
	account.AccountId32,
	dispatch.Call,
	dispatch.Info,
	int,
) (validity.ValidTransaction, error) {
	return validity.Default(), nil
}

func (Base) ValidateUnsigned(
	dispatch.Call,
	dispatch.Info,
	int,
) (validity.ValidTransaction, error) {
	return validity.Default(), nil
}

// PreDispatch runs the pre-dispatch step of ext, falling back to Validate when
// ext does not implement PreDispatcher.
func PreDispatch(
	ext SignedExtension,
	who account.AccountId32,
	call dispatch.Call,
	info dispatch.Info,
	length int,
) (any, error) {
	if pd, ok := ext.(PreDispatcher); ok {
		return pd.PreDispatch(who, call, info, length)
	}
	if _, err := ext.Validate(who, call, info, length); err != nil {
		return nil, err
	}
	return nil, nil
}

// PreDispatchUnsigned runs the unsigned pre-dispatch step of ext, falling back
// to ValidateUnsigned when ext does not implement UnsignedPreDispatcher.
func PreDispatchUnsigned(
	ext SignedExtension,
	call dispatch.Call,
	info dispatch.Info,
	length int,
) error {
	if pd, ok := ext.(UnsignedPreDispatcher); ok {
		return pd.PreDispatchUnsigned(call, info, length)
	}
	_, err := ext.ValidateUnsigned(call, info, length)
	return err
}

// StagePreDispatch runs the checks of the pre-dispatch step of ext and returns
// its carry along with the write it would make. The write is nil when ext
// changes no state.
func StagePreDispatch(
	ext SignedExtension,
	who account.AccountId32,
	call dispatch.Call,
	info dispatch.Info,
	length int,
) (any, Write, error) {
	if st, ok := ext.(Stager); ok {
		return st.StagePreDispatch(who, call, info, length)
	}
	pre, err := PreDispatch(ext, who, call, info, length)
	return pre, nil, err
}

// StagePreDispatchUnsigned is the unsigned counterpart of StagePreDispatch.
func StagePreDispatchUnsigned(
	ext SignedExtension,
	call dispatch.Call,
	info dispatch.Info,
	length int,
) (Write, error) {
	if st, ok := ext.(UnsignedStager); ok {
		return st.StagePreDispatchUnsigned(call, info, length)
	}
	return nil, PreDispatchUnsigned(ext, call, info, length)
}

// writeFuncs adapts a pair of functions to Write.
type writeFuncs struct {
	apply  func() error
	revert func()
}

func (w writeFuncs) Apply() error {
	return w.apply()
}

func (w writeFuncs) Revert() {
	w.revert()
}

// Writes applies its members in order. When one fails, the ones already
// applied are reverted in reverse order and the error is returned.
type Writes []Write

func (w Writes) Apply() error {
	for idx, item := range w {
		if err := item.Apply(); err != nil {
			for i := idx - 1; i >= 0; i-- {
				w[i].Revert()
			}
			return err
		}
	}
	return nil
}

func (w Writes) Revert() {
	for i := len(w) - 1; i >= 0; i-- {
		w[i].Revert()
	}
}

// PostDispatch runs the post-dispatch step of ext if it has one.
func PostDispatch(
	ext SignedExtension,
	pre any,
	info dispatch.Info,
	post dispatch.PostInfo,
	length int,
	result error,
) {
	if pd, ok := ext.(PostDispatcher); ok {
		pd.PostDispatch(pre, info, post, length, result)
	}
}
