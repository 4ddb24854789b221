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

// Package account provides account identities and the deterministic
// derivation of account identifiers from typed source values.
//
// A derived account is the fixed-width encoding of (type tag, source value,
// optional sub value), truncated or zero-padded to the width of the target
// account type. The reverse direction recognises accounts derived this way and
// recovers the source value.
package account

import (
	"bytes"

	"github.com/blinklabs-io/goprimitives/codec"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// TypeID is the 4-byte tag that namespaces derived accounts.
type TypeID [4]byte

// TypeIdentified is implemented by types that carry a constant TypeID. The
// zero value of the type must report the same TypeID as any other value.
type TypeIdentified interface {
	TypeID() TypeID
}

// IntoAccount derives an account of type T from id.
func IntoAccount[T any](id TypeIdentified) T {
	return IntoSubAccount[T](id, nil)
}

// IntoSubAccount derives an account of type T from id and a sub value. A nil
// sub contributes nothing to the encoding. The encoding is zero-padded when it
// is shorter than T and truncated when it is longer. The zero T is returned if
// the inputs cannot be encoded or T cannot be decoded.
func IntoSubAccount[T any](id TypeIdentified, sub any) T {
	var ret T
	encoded, err := codec.EncodeTuple(id.TypeID(), id, sub)
	if err != nil {
		return ret
	}
	var tmp T
	if err := codec.Decode(codec.NewTrailingZeroInput(encoded), &tmp); err != nil {
		return ret
	}
	return tmp
}

// TryFromAccount recovers the source value from an account derived with
// IntoAccount.
func TryFromAccount[I TypeIdentified, T any](x T) (I, bool) {
	id, _, ok := tryFromSubAccount[I, struct{}](x, false)
	return id, ok
}

// TryFromSubAccount recovers the source and sub values from an account derived
// with IntoSubAccount. It fails if the account does not start with the TypeID
// of I, if either value cannot be decoded, or if any byte after them is not
// zero.
func TryFromSubAccount[I TypeIdentified, S any, T any](x T) (I, S, bool) {
	return tryFromSubAccount[I, S](x, true)
}

func tryFromSubAccount[I TypeIdentified, S any, T any](x T, withSub bool) (I, S, bool) {
	var id I
	var sub S
	encoded, err := codec.Encode(x)
	if err != nil {
		return id, sub, false
	}
	tag := id.TypeID()
	if len(encoded) < len(tag) || !bytes.Equal(encoded[:len(tag)], tag[:]) {
		return id, sub, false
	}
	r := bytes.NewReader(encoded[len(tag):])
	var tmpID I
	if err := codec.Decode(r, &tmpID); err != nil {
		return id, sub, false
	}
	var tmpSub S
	if withSub {
		if err := codec.Decode(r, &tmpSub); err != nil {
			return id, sub, false
		}
	}
	for r.Len() > 0 {
		b, _ := r.ReadByte()
		if b != 0 {
			return id, sub, false
		}
	}
	return tmpID, tmpSub, true
}

// RawIdentity is a source value whose tag and encoding are supplied as is, for
// deriving accounts from data that was encoded elsewhere. It only works with
// IntoAccount and IntoSubAccount. Its TypeID depends on the value, so
// TryFromAccount cannot recognise it.
type RawIdentity struct {
	Tag     TypeID
	Encoded RawEncoded
}

func (r RawIdentity) TypeID() TypeID {
	return r.Tag
}

func (r RawIdentity) Encode(enc scale.Encoder) error {
	return r.Encoded.Encode(enc)
}

// RawEncoded is data that is already encoded. It is written without a length
// prefix.
type RawEncoded []byte

func (r RawEncoded) Encode(enc scale.Encoder) error {
	return enc.Write(r)
}

// PalletID identifies a runtime module that owns funds.
type PalletID [8]byte

func (PalletID) TypeID() TypeID {
	return TypeID{'m', 'o', 'd', 'l'}
}

// ParaID identifies a parachain as seen from the relay chain.
type ParaID uint32

func (ParaID) TypeID() TypeID {
	return TypeID{'p', 'a', 'r', 'a'}
}

// SiblingParaID identifies a parachain as seen from another parachain.
type SiblingParaID uint32

func (SiblingParaID) TypeID() TypeID {
	return TypeID{'s', 'i', 'b', 'l'}
}
