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
	"fmt"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/validity"
)

// Chain is an ordered list of extensions that behaves as a single extension.
// An empty chain passes every stage.
type Chain []SignedExtension

// Identifiers returns the identifier of each member in order.
func (c Chain) Identifiers() []string {
	ret := make([]string, 0, len(c))
	for _, ext := range c {
		ret = append(ret, ext.Identifier())
	}
	return ret
}

// AdditionalSigned returns the additional signed data of each member in order.
// It stops at the first member that fails.
func (c Chain) AdditionalSigned() ([]any, error) {
	ret := make([]any, 0, len(c))
	for _, ext := range c {
		tmp, err := ext.AdditionalSigned()
		if err != nil {
			return nil, err
		}
		ret = append(ret, tmp)
	}
	return ret, nil
}

// Validate folds the members' results with CombineWith. The first error is
// returned as is and later members are not run.
func (c Chain) Validate(
	who account.AccountId32,
	call dispatch.Call,
	info dispatch.Info,
	length int,
) (validity.ValidTransaction, error) {
	ret := validity.Default()
	for _, ext := range c {
		tmp, err := ext.Validate(who, call, info, length)
		if err != nil {
			return validity.ValidTransaction{}, err
		}
		ret = ret.CombineWith(tmp)
	}
	return ret, nil
}

// ValidateUnsigned is like Validate for unsigned transactions.
func (c Chain) ValidateUnsigned(
	call dispatch.Call,
	info dispatch.Info,
	length int,
) (validity.ValidTransaction, error) {
	ret := validity.Default()
	for _, ext := range c {
		tmp, err := ext.ValidateUnsigned(call, info, length)
		if err != nil {
			return validity.ValidTransaction{}, err
		}
		ret = ret.CombineWith(tmp)
	}
	return ret, nil
}

// StagePreDispatch runs the checks of each member's pre-dispatch step in order
// without changing any state. It stops at the first member that fails and
// otherwise returns the carries by position and the combined write.
func (c Chain) StagePreDispatch(
	who account.AccountId32,
	call dispatch.Call,
	info dispatch.Info,
	length int,
) ([]any, Writes, error) {
	pre := make([]any, 0, len(c))
	var writes Writes
	for _, ext := range c {
		carry, w, err := StagePreDispatch(ext, who, call, info, length)
		if err != nil {
			return nil, nil, err
		}
		pre = append(pre, carry)
		if w != nil {
			writes = append(writes, w)
		}
	}
	return pre, writes, nil
}

// PreDispatch stages every member and applies the writes once all of them
// have passed, so a failing member leaves state untouched.
func (c Chain) PreDispatch(
	who account.AccountId32,
	call dispatch.Call,
	info dispatch.Info,
	length int,
) ([]any, error) {
	pre, writes, err := c.StagePreDispatch(who, call, info, length)
	if err != nil {
		return nil, err
	}
	if err := writes.Apply(); err != nil {
		return nil, err
	}
	return pre, nil
}

// StagePreDispatchUnsigned is the unsigned counterpart of StagePreDispatch.
func (c Chain) StagePreDispatchUnsigned(
	call dispatch.Call,
	info dispatch.Info,
	length int,
) (Writes, error) {
	var writes Writes
	for _, ext := range c {
		w, err := StagePreDispatchUnsigned(ext, call, info, length)
		if err != nil {
			return nil, err
		}
		if w != nil {
			writes = append(writes, w)
		}
	}
	return writes, nil
}

// PreDispatchUnsigned runs each member's unsigned pre-dispatch step in order.
// State is changed only when every member passes.
func (c Chain) PreDispatchUnsigned(
	call dispatch.Call,
	info dispatch.Info,
	length int,
) error {
	writes, err := c.StagePreDispatchUnsigned(call, info, length)
	if err != nil {
		return err
	}
	return writes.Apply()
}

// PostDispatch runs every member's post-dispatch step in order. Each member
// receives the carry at its position, or nil when pre is shorter than the
// chain, as it is for unsigned transactions.
func (c Chain) PostDispatch(
	pre []any,
	info dispatch.Info,
	post dispatch.PostInfo,
	length int,
	result error,
) {
	for idx, ext := range c {
		var carry any
		if idx < len(pre) {
			carry = pre[idx]
		}
		PostDispatch(ext, carry, info, post, length, result)
	}
}

// MarshalCBOR encodes the chain as an array of the members' encodings.
func (c Chain) MarshalCBOR() ([]byte, error) {
	items := make([]cbor.RawMessage, 0, len(c))
	for idx, ext := range c {
		tmp, err := cbor.Encode(ext)
		if err != nil {
			return nil, fmt.Errorf("encode extension %d (%s): %w", idx, ext.Identifier(), err)
		}
		items = append(items, tmp)
	}
	return cbor.EncodeRawList(items)
}
