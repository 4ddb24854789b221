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

// Package dispatch defines call origins, origin checks and the metadata that
// accompanies a dispatchable call.
package dispatch

import (
	"errors"
	"fmt"
	"slices"

	"github.com/blinklabs-io/goprimitives/account"
)

// ErrBadOrigin is returned when a call is dispatched from an origin it does not
// accept.
var ErrBadOrigin = errors.New("bad origin")

type OriginKind uint8

const (
	OriginRoot   OriginKind = 0
	OriginSigned OriginKind = 1
	OriginNone   OriginKind = 2
)

// Origin is the source a call is dispatched from.
type Origin struct {
	Kind OriginKind
	Who  account.AccountId32
}

func RootOrigin() Origin {
	return Origin{Kind: OriginRoot}
}

func SignedOrigin(who account.AccountId32) Origin {
	return Origin{Kind: OriginSigned, Who: who}
}

func NoneOrigin() Origin {
	return Origin{Kind: OriginNone}
}

func (o Origin) String() string {
	switch o.Kind {
	case OriginRoot:
		return "root"
	case OriginSigned:
		return fmt.Sprintf("signed(%s)", o.Who)
	case OriginNone:
		return "none"
	default:
		return fmt.Sprintf("origin(%d)", o.Kind)
	}
}

// EnsureOrigin checks an origin and extracts a value of type S from it.
type EnsureOrigin[S any] interface {
	TryOrigin(o Origin) (S, bool)
}

// Ensure runs e against o and returns ErrBadOrigin if it does not pass.
func Ensure[S any](e EnsureOrigin[S], o Origin) (S, error) {
	ret, ok := e.TryOrigin(o)
	if !ok {
		return ret, fmt.Errorf("%w: %s", ErrBadOrigin, o)
	}
	return ret, nil
}

// EnsureRoot passes only the root origin.
type EnsureRoot struct{}

func (EnsureRoot) TryOrigin(o Origin) (struct{}, bool) {
	return struct{}{}, o.Kind == OriginRoot
}

// EnsureSigned passes signed origins and yields the signer.
type EnsureSigned struct{}

func (EnsureSigned) TryOrigin(o Origin) (account.AccountId32, bool) {
	if o.Kind != OriginSigned {
		return account.AccountId32{}, false
	}
	return o.Who, true
}

// EnsureNone passes only the unsigned origin.
type EnsureNone struct{}

func (EnsureNone) TryOrigin(o Origin) (struct{}, bool) {
	return struct{}{}, o.Kind == OriginNone
}

// IsMember reports whether an identity belongs to a set.
type IsMember[M any] interface {
	IsMember(m M) bool
}

// MemberList is a fixed IsMember set of accounts.
type MemberList []account.AccountId32

func (l MemberList) IsMember(who account.AccountId32) bool {
	return slices.Contains(l, who)
}

// EnsureSignedBy passes signed origins whose signer is one of Members. A nil
// Members admits nobody.
type EnsureSignedBy struct {
	Members IsMember[account.AccountId32]
}

func (e EnsureSignedBy) TryOrigin(o Origin) (account.AccountId32, bool) {
	if o.Kind != OriginSigned || e.Members == nil || !e.Members.IsMember(o.Who) {
		return account.AccountId32{}, false
	}
	return o.Who, true
}
