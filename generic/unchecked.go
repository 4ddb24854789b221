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
	"errors"
	"fmt"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/block"
	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/crypto"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/extension"
	"github.com/blinklabs-io/goprimitives/hashing"
	"github.com/blinklabs-io/goprimitives/validity"
)

const (
	ExtrinsicFormatVersion uint8 = 4

	// Set in the version byte of signed extrinsics.
	extrinsicSignedBit uint8 = 0x80

	// Payloads longer than this are hashed before signing.
	maxUnhashedPayloadSize = 256
)

// SignatureData is the signature part of a signed extrinsic.
type SignatureData struct {
	cbor.StructAsArray
	Address   account.Address
	Signature crypto.MultiSignature
	Extra     extension.Chain
}

// UncheckedExtrinsic is an extrinsic as received from the wire, whose signature
// has not been checked yet.
type UncheckedExtrinsic struct {
	cbor.DecodeStoreCbor
	Signature *SignatureData
	Function  dispatch.Call
}

var _ block.Extrinsic = (*UncheckedExtrinsic)(nil)

// NewUncheckedExtrinsic builds an extrinsic from a call and an optional
// signature. It returns false if call is nil.
func NewUncheckedExtrinsic(call dispatch.Call, sig *SignatureData) (*UncheckedExtrinsic, bool) {
	if call == nil {
		return nil, false
	}
	return &UncheckedExtrinsic{
		Signature: sig,
		Function:  call,
	}, true
}

// SignExtrinsic builds a signed extrinsic. sign is called with the signing
// message for the call and extensions.
func SignExtrinsic(
	call dispatch.Call,
	address account.Address,
	extra extension.Chain,
	sign func(msg []byte) (crypto.MultiSignature, error),
) (*UncheckedExtrinsic, error) {
	if call == nil {
		return nil, errors.New("call must not be nil")
	}
	payload, err := NewSignedPayload(call, extra)
	if err != nil {
		return nil, err
	}
	msg, err := payload.Message()
	if err != nil {
		return nil, err
	}
	sig, err := sign(msg)
	if err != nil {
		return nil, fmt.Errorf("sign extrinsic: %w", err)
	}
	return &UncheckedExtrinsic{
		Signature: &SignatureData{
			Address:   address,
			Signature: sig,
			Extra:     extra,
		},
		Function: call,
	}, nil
}

func (u *UncheckedExtrinsic) IsSigned() block.SignedState {
	if u.Signature != nil {
		return block.Signed
	}
	return block.Unsigned
}

type uncheckedExtrinsicCbor struct {
	cbor.StructAsArray
	Version   uint8
	Signature cbor.RawMessage
	Call      cbor.RawMessage
}

func (u *UncheckedExtrinsic) MarshalCBOR() ([]byte, error) {
	if cborData := u.Cbor(); cborData != nil {
		return cborData, nil
	}
	tmp := uncheckedExtrinsicCbor{
		Version:   ExtrinsicFormatVersion,
		Signature: cbor.RawMessage{cbor.CborNull},
	}
	if u.Signature != nil {
		sigCbor, err := cbor.Encode(u.Signature)
		if err != nil {
			return nil, fmt.Errorf("encode signature: %w", err)
		}
		tmp.Version |= extrinsicSignedBit
		tmp.Signature = sigCbor
	}
	callCbor, err := cbor.Encode(u.Function)
	if err != nil {
		return nil, fmt.Errorf("encode call: %w", err)
	}
	tmp.Call = callCbor
	return cbor.Encode(tmp)
}

// EncodedLen returns the length of the wire encoding.
func (u *UncheckedExtrinsic) EncodedLen() (int, error) {
	data, err := u.MarshalCBOR()
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Hash returns the blake2b-256 hash of the wire encoding.
func (u *UncheckedExtrinsic) Hash() (hashing.Digest, error) {
	data, err := u.MarshalCBOR()
	if err != nil {
		return hashing.Digest{}, err
	}
	return hashing.BlakeTwo256.Hash(data), nil
}

// Check verifies the signature, resolving the signer address with lookup. An
// unsigned extrinsic passes unchanged. A failed lookup is reported as
// Unknown(CannotLookup), a failing extension as its own error, and a signature
// mismatch as Invalid(BadProof).
func (u *UncheckedExtrinsic) Check(
	lookup account.Lookup[account.Address, account.AccountId32],
) (*CheckedExtrinsic, error) {
	if u.Signature == nil {
		return &CheckedExtrinsic{Function: u.Function}, nil
	}
	signer, err := lookup.Lookup(u.Signature.Address)
	if err != nil {
		if tve, ok := validity.From(err); ok {
			return nil, tve
		}
		return nil, validity.Unknown(validity.ReasonCannotLookup)
	}
	payload, err := NewSignedPayload(u.Function, u.Signature.Extra)
	if err != nil {
		return nil, err
	}
	var msgErr error
	msg := crypto.NewLazy(func() []byte {
		ret, err := payload.Message()
		if err != nil {
			msgErr = err
			return nil
		}
		return ret
	})
	// A payload that cannot be encoded proves nothing, whatever Verify says
	if !u.Signature.Signature.Verify(msg, signer) || msgErr != nil {
		return nil, validity.Invalid(validity.ReasonBadProof)
	}
	return &CheckedExtrinsic{
		Signed: &CheckedSigner{
			Who:   signer,
			Extra: u.Signature.Extra,
		},
		Function: u.Function,
	}, nil
}

// CheckBlind is like Check, but only resolves addresses that carry the account
// ID directly.
func (u *UncheckedExtrinsic) CheckBlind() (*CheckedExtrinsic, error) {
	return u.Check(directLookup{})
}

type directLookup struct{}

func (directLookup) Lookup(addr account.Address) (account.AccountId32, error) {
	if id, ok := addr.Id(); ok {
		return id, nil
	}
	return account.AccountId32{}, account.LookupError{Source: addr.String()}
}

// SignedPayload is the data covered by an extrinsic signature: the call, the
// extensions and their additional signed data.
type SignedPayload struct {
	call       dispatch.Call
	extra      extension.Chain
	additional []any
}

// NewSignedPayload collects the additional signed data of extra. It fails with
// the first extension error.
func NewSignedPayload(call dispatch.Call, extra extension.Chain) (*SignedPayload, error) {
	additional, err := extra.AdditionalSigned()
	if err != nil {
		return nil, err
	}
	return &SignedPayload{
		call:       call,
		extra:      extra,
		additional: additional,
	}, nil
}

// Encode returns the CBOR array [call, extra, additional signed].
func (p *SignedPayload) Encode() ([]byte, error) {
	return cbor.Encode([]any{p.call, p.extra, p.additional})
}

// Message returns the bytes that are actually signed: the encoded payload, or
// its blake2b-256 hash when the encoding is longer than 256 bytes.
func (p *SignedPayload) Message() ([]byte, error) {
	data, err := p.Encode()
	if err != nil {
		return nil, err
	}
	if len(data) > maxUnhashedPayloadSize {
		hash := hashing.BlakeTwo256.Hash(data)
		return hash.Bytes(), nil
	}
	return data, nil
}
