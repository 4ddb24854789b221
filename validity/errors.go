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

package validity

import (
	"errors"
	"fmt"
)

// Class distinguishes permanent rejections from undetermined validity.
type Class uint8

const (
	// ClassInvalid is a definite, permanent rejection.
	ClassInvalid Class = iota + 1
	// ClassUnknown means validity cannot currently be determined.
	ClassUnknown
)

func (c Class) String() string {
	switch c {
	case ClassInvalid:
		return "invalid"
	case ClassUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Reason is the specific cause within a Class.
type Reason uint8

const (
	// Invalid reasons.
	ReasonCall Reason = iota + 1
	ReasonPayment
	ReasonFuture
	ReasonStale
	ReasonBadProof
	ReasonAncientBirthBlock
	ReasonExhaustsResources
	ReasonBadMandatory
	ReasonMandatoryDispatch
	// Unknown reasons.
	ReasonCannotLookup
	ReasonNoUnsignedValidator
	// Either class.
	ReasonCustom
)

var reasonNames = map[Reason]string{
	ReasonCall:                "transaction call is not expected",
	ReasonPayment:             "inability to pay some fees",
	ReasonFuture:              "transaction will be valid in the future",
	ReasonStale:               "transaction is outdated",
	ReasonBadProof:            "transaction has a bad signature",
	ReasonAncientBirthBlock:   "transaction has an ancient birth block",
	ReasonExhaustsResources:   "transaction would exhaust the resources of current block",
	ReasonBadMandatory:        "a call that must succeed failed",
	ReasonMandatoryDispatch:   "transaction dispatch is mandatory; transactions may not have mandatory dispatches",
	ReasonCannotLookup:        "could not lookup information required to validate the transaction",
	ReasonNoUnsignedValidator: "could not find an unsigned validator for the unsigned transaction",
	ReasonCustom:              "custom error",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

var (
	// ErrInvalid matches every invalid transaction error via errors.Is.
	ErrInvalid = errors.New("invalid transaction")
	// ErrUnknown matches every unknown transaction error via errors.Is.
	ErrUnknown = errors.New("unknown transaction validity")
)

// TransactionValidityError is the classified failure of a validity check.
type TransactionValidityError struct {
	Class  Class
	Reason Reason
	// Custom holds the module-specific code when Reason is ReasonCustom.
	Custom uint8
}

// Invalid returns a permanent rejection with the given reason.
func Invalid(reason Reason) TransactionValidityError {
	return TransactionValidityError{Class: ClassInvalid, Reason: reason}
}

// InvalidCustom returns a permanent rejection with a module-specific code.
func InvalidCustom(code uint8) TransactionValidityError {
	return TransactionValidityError{Class: ClassInvalid, Reason: ReasonCustom, Custom: code}
}

// Unknown returns an undetermined-validity error with the given reason.
func Unknown(reason Reason) TransactionValidityError {
	return TransactionValidityError{Class: ClassUnknown, Reason: reason}
}

// UnknownCustom returns an undetermined-validity error with a module-specific code.
func UnknownCustom(code uint8) TransactionValidityError {
	return TransactionValidityError{Class: ClassUnknown, Reason: ReasonCustom, Custom: code}
}

func (e TransactionValidityError) Error() string {
	if e.Reason == ReasonCustom {
		return fmt.Sprintf("%s transaction: %s %d", e.Class, e.Reason, e.Custom)
	}
	return fmt.Sprintf("%s transaction: %s", e.Class, e.Reason)
}

func (e TransactionValidityError) Is(target error) bool {
	switch target {
	case ErrInvalid:
		return e.Class == ClassInvalid
	case ErrUnknown:
		return e.Class == ClassUnknown
	}
	return false
}

// IsInvalid returns whether this is a permanent rejection.
func (e TransactionValidityError) IsInvalid() bool {
	return e.Class == ClassInvalid
}

// IsUnknown returns whether validity could not be determined.
func (e TransactionValidityError) IsUnknown() bool {
	return e.Class == ClassUnknown
}

// Exhausted returns whether the transaction was rejected for exhausting block
// resources. Such a transaction may still be valid in a later block.
func (e TransactionValidityError) Exhausted() bool {
	return e.Class == ClassInvalid && e.Reason == ReasonExhaustsResources
}

// Converter is implemented by errors from other packages that map onto a
// TransactionValidityError.
type Converter interface {
	ValidityError() TransactionValidityError
}

// From extracts a TransactionValidityError from err. It returns false if err is
// neither a TransactionValidityError nor convertible into one.
func From(err error) (TransactionValidityError, bool) {
	var tve TransactionValidityError
	if errors.As(err, &tve) {
		return tve, true
	}
	var conv Converter
	if errors.As(err, &conv) {
		return conv.ValidityError(), true
	}
	return TransactionValidityError{}, false
}
