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

package generic

import (
	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/extension"
	"github.com/blinklabs-io/goprimitives/validity"
)

// Checkable is implemented by extrinsics that can be checked with the help of
// a context value, usually an account lookup.
type Checkable[C any, T any] interface {
	Check(ctx C) (T, error)
}

// BlindCheckable is implemented by extrinsics that can be checked without any
// context.
type BlindCheckable[T any] interface {
	CheckBlind() (T, error)
}

var (
	_ Checkable[account.Lookup[account.Address, account.AccountId32], *CheckedExtrinsic] = (*UncheckedExtrinsic)(nil)
	_ BlindCheckable[*CheckedExtrinsic]                                                 = (*UncheckedExtrinsic)(nil)
)

// ValidateUnsigned validates unsigned calls, which have no signer whose
// extensions could vouch for them.
type ValidateUnsigned interface {
	ValidateUnsigned(call dispatch.Call) (validity.ValidTransaction, error)
}

// UnsignedPreDispatcher is implemented by unsigned validators that need a
// check before dispatch other than re-running ValidateUnsigned.
type UnsignedPreDispatcher interface {
	PreDispatch(call dispatch.Call) error
}

// UnsignedValidator holds what is needed to validate and apply unsigned
// extrinsics: the runtime's validator for unsigned calls and the extensions
// that also run for them.
type UnsignedValidator struct {
	Validator  ValidateUnsigned
	Extensions extension.Chain
}

func (u UnsignedValidator) validate(call dispatch.Call, info dispatch.Info, length int) (validity.ValidTransaction, error) {
	valid, err := u.Extensions.ValidateUnsigned(call, info, length)
	if err != nil {
		return validity.ValidTransaction{}, err
	}
	if u.Validator == nil {
		return validity.ValidTransaction{}, validity.Unknown(validity.ReasonNoUnsignedValidator)
	}
	unsignedValid, err := u.Validator.ValidateUnsigned(call)
	if err != nil {
		return validity.ValidTransaction{}, err
	}
	return valid.CombineWith(unsignedValid), nil
}

// preDispatch checks the extensions and the validator before the extensions'
// writes are applied, so a rejected call leaves state untouched.
func (u UnsignedValidator) preDispatch(call dispatch.Call, info dispatch.Info, length int) error {
	writes, err := u.Extensions.StagePreDispatchUnsigned(call, info, length)
	if err != nil {
		return err
	}
	if u.Validator == nil {
		return validity.Unknown(validity.ReasonNoUnsignedValidator)
	}
	if pd, ok := u.Validator.(UnsignedPreDispatcher); ok {
		err = pd.PreDispatch(call)
	} else {
		_, err = u.Validator.ValidateUnsigned(call)
	}
	if err != nil {
		return err
	}
	return writes.Apply()
}

// CheckedSigner is the verified signer of a checked extrinsic.
type CheckedSigner struct {
	Who   account.AccountId32
	Extra extension.Chain
}

// ApplyOutcome is the result of applying an extrinsic that passed its checks.
// DispatchErr is the error returned by the call itself, if any.
type ApplyOutcome struct {
	PostInfo    dispatch.PostInfo
	DispatchErr error
}

// Applyable is implemented by checked extrinsics.
type Applyable interface {
	Sender() (account.AccountId32, bool)
	Validate(unsigned UnsignedValidator, info dispatch.Info, length int) (validity.ValidTransaction, error)
	Apply(unsigned UnsignedValidator, info dispatch.Info, length int) (*ApplyOutcome, error)
}

// CheckedExtrinsic is an extrinsic whose signature, if any, has been verified.
type CheckedExtrinsic struct {
	Signed   *CheckedSigner
	Function dispatch.Call
}

var _ Applyable = (*CheckedExtrinsic)(nil)

// Sender returns the signer, or false for unsigned extrinsics.
func (c *CheckedExtrinsic) Sender() (account.AccountId32, bool) {
	if c.Signed == nil {
		return account.AccountId32{}, false
	}
	return c.Signed.Who, true
}

// Validate checks the extrinsic for admission into the pool. It does not modify
// any state and may run concurrently.
func (c *CheckedExtrinsic) Validate(
	unsigned UnsignedValidator,
	info dispatch.Info,
	length int,
) (validity.ValidTransaction, error) {
	if c.Signed != nil {
		return c.Signed.Extra.Validate(c.Signed.Who, c.Function, info, length)
	}
	return unsigned.validate(c.Function, info, length)
}

// Apply runs pre-dispatch, dispatches the call and runs post-dispatch. A
// validity error from pre-dispatch is returned and nothing is dispatched.
// Otherwise post-dispatch always runs, and the call's own error is reported in
// the outcome.
func (c *CheckedExtrinsic) Apply(
	unsigned UnsignedValidator,
	info dispatch.Info,
	length int,
) (*ApplyOutcome, error) {
	var origin dispatch.Origin
	var pre []any
	var extra extension.Chain
	if c.Signed != nil {
		tmpPre, err := c.Signed.Extra.PreDispatch(c.Signed.Who, c.Function, info, length)
		if err != nil {
			return nil, err
		}
		pre = tmpPre
		extra = c.Signed.Extra
		origin = dispatch.SignedOrigin(c.Signed.Who)
	} else {
		if err := unsigned.preDispatch(c.Function, info, length); err != nil {
			return nil, err
		}
		extra = unsigned.Extensions
		origin = dispatch.NoneOrigin()
	}
	postInfo, dispatchErr := c.Function.Dispatch(origin)
	extra.PostDispatch(pre, info, postInfo, length, dispatchErr)
	return &ApplyOutcome{
		PostInfo:    postInfo,
		DispatchErr: dispatchErr,
	}, nil
}
