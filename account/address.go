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

	"github.com/blinklabs-io/goprimitives/cbor"
)

type AddressKind uint8

const (
	AddressKindId    AddressKind = 0
	AddressKindIndex AddressKind = 1
)

// Address refers to an account either directly by ID or by a compact index
// that must be looked up.
type Address struct {
	kind  AddressKind
	id    AccountId32
	index uint32
}

func AddressFromId(id AccountId32) Address {
	return Address{kind: AddressKindId, id: id}
}

func AddressFromIndex(index uint32) Address {
	return Address{kind: AddressKindIndex, index: index}
}

func (a Address) Kind() AddressKind {
	return a.kind
}

// Id returns the account ID if this is a direct address.
func (a Address) Id() (AccountId32, bool) {
	return a.id, a.kind == AddressKindId
}

// Index returns the account index if this is an indexed address.
func (a Address) Index() (uint32, bool) {
	return a.index, a.kind == AddressKindIndex
}

func (a Address) String() string {
	if a.kind == AddressKindIndex {
		return fmt.Sprintf("index:%d", a.index)
	}
	return a.id.String()
}

type addressCbor struct {
	cbor.StructAsArray
	Kind  AddressKind
	Value cbor.RawMessage
}

func (a Address) MarshalCBOR() ([]byte, error) {
	var value any = a.id
	if a.kind == AddressKindIndex {
		value = a.index
	}
	valueCbor, err := cbor.Encode(value)
	if err != nil {
		return nil, err
	}
	return cbor.Encode(addressCbor{Kind: a.kind, Value: valueCbor})
}

func (a *Address) UnmarshalCBOR(data []byte) error {
	var tmp addressCbor
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	switch tmp.Kind {
	case AddressKindId:
		var id AccountId32
		if _, err := cbor.Decode(tmp.Value, &id); err != nil {
			return err
		}
		*a = AddressFromId(id)
	case AddressKindIndex:
		var index uint32
		if _, err := cbor.Decode(tmp.Value, &index); err != nil {
			return err
		}
		*a = AddressFromIndex(index)
	default:
		return errors.New("unknown address kind")
	}
	return nil
}
