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
	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/crypto"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/extension"
)

// CallDecoder decodes the wire form of a call.
type CallDecoder interface {
	DecodeCall(data []byte) (dispatch.Call, error)
}

// CallDecoderFunc adapts a function to CallDecoder.
type CallDecoderFunc func(data []byte) (dispatch.Call, error)

func (f CallDecoderFunc) DecodeCall(data []byte) (dispatch.Call, error) {
	return f(data)
}

// ExtrinsicDecoder decodes unchecked extrinsics using the runtime's calls and
// extensions.
type ExtrinsicDecoder struct {
	Calls      CallDecoder
	Extensions *extension.Registry
}

type signatureDataCbor struct {
	cbor.StructAsArray
	Address   account.Address
	Signature crypto.MultiSignature
	Extra     cbor.RawMessage
}

// Decode decodes a single extrinsic. The original bytes are kept so that
// re-encoding and hashing use exactly what was received.
func (d ExtrinsicDecoder) Decode(data []byte) (*UncheckedExtrinsic, error) {
	if d.Calls == nil {
		return nil, errors.New("no call decoder configured")
	}
	var tmp uncheckedExtrinsicCbor
	if err := cbor.DecodeExact(data, &tmp); err != nil {
		return nil, fmt.Errorf("decode extrinsic: %w", err)
	}
	if tmp.Version&^extrinsicSignedBit != ExtrinsicFormatVersion {
		return nil, fmt.Errorf(
			"unsupported extrinsic version %d",
			tmp.Version&^extrinsicSignedBit,
		)
	}
	signed := tmp.Version&extrinsicSignedBit != 0
	if signed == cbor.IsNull(tmp.Signature) {
		return nil, errors.New("extrinsic signed flag does not match signature")
	}
	ret := &UncheckedExtrinsic{}
	if signed {
		if d.Extensions == nil {
			return nil, errors.New("no extension registry configured")
		}
		var sigTmp signatureDataCbor
		if err := cbor.DecodeExact(tmp.Signature, &sigTmp); err != nil {
			return nil, fmt.Errorf("decode signature: %w", err)
		}
		extra, err := d.Extensions.DecodeChain(sigTmp.Extra)
		if err != nil {
			return nil, err
		}
		ret.Signature = &SignatureData{
			Address:   sigTmp.Address,
			Signature: sigTmp.Signature,
			Extra:     extra,
		}
	}
	call, err := d.Calls.DecodeCall(tmp.Call)
	if err != nil {
		return nil, fmt.Errorf("decode call: %w", err)
	}
	if call == nil {
		return nil, errors.New("decoded call is nil")
	}
	ret.Function = call
	ret.SetCbor(data)
	return ret, nil
}
