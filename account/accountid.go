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
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	AccountId32Size = 32

	// SS58 prefixes above this value cannot be encoded.
	MaxSS58Prefix = 16383

	ss58ChecksumSize = 2
)

var ss58Preamble = []byte("SS58PRE")

// SS58Prefix selects the network an SS58 address is rendered for.
type SS58Prefix uint16

const (
	SS58PrefixPolkadot  SS58Prefix = 0
	SS58PrefixKusama    SS58Prefix = 2
	SS58PrefixSubstrate SS58Prefix = 42
)

var ErrInvalidSS58 = errors.New("invalid SS58 address")

// AccountId32 is a 32-byte account identifier.
type AccountId32 [AccountId32Size]byte

// NewAccountId32 builds an AccountId32 from exactly 32 bytes.
func NewAccountId32(data []byte) (AccountId32, error) {
	var ret AccountId32
	if len(data) != AccountId32Size {
		return ret, fmt.Errorf(
			"invalid account ID length: expected %d bytes, got %d",
			AccountId32Size,
			len(data),
		)
	}
	copy(ret[:], data)
	return ret, nil
}

// AccountId32FromHex parses a hex-encoded account ID.
func AccountId32FromHex(s string) (AccountId32, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return AccountId32{}, err
	}
	return NewAccountId32(data)
}

func (a AccountId32) Bytes() []byte {
	return bytes.Clone(a[:])
}

func (a AccountId32) String() string {
	return hex.EncodeToString(a[:])
}

// SS58 renders the account as an SS58 address for the provided network prefix.
// Prefixes above MaxSS58Prefix are clamped.
func (a AccountId32) SS58(prefix SS58Prefix) string {
	prefix = min(prefix, MaxSS58Prefix)
	payload := make([]byte, 0, 2+AccountId32Size+ss58ChecksumSize)
	payload = append(payload, encodeSS58Prefix(prefix)...)
	payload = append(payload, a[:]...)
	checksum := ss58Checksum(payload)
	payload = append(payload, checksum[:ss58ChecksumSize]...)
	return base58.Encode(payload)
}

func (a AccountId32) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(a[:])
}

func (a *AccountId32) UnmarshalCBOR(data []byte) error {
	var tmp []byte
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	id, err := NewAccountId32(tmp)
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// ParseSS58 decodes an SS58 address into its account ID and network prefix.
func ParseSS58(address string) (AccountId32, SS58Prefix, error) {
	var ret AccountId32
	data := base58.Decode(address)
	if len(data) < 1 {
		return ret, 0, fmt.Errorf("%w: bad base58", ErrInvalidSS58)
	}
	prefix, prefixLen, err := decodeSS58Prefix(data)
	if err != nil {
		return ret, 0, err
	}
	if len(data) != prefixLen+AccountId32Size+ss58ChecksumSize {
		return ret, 0, fmt.Errorf(
			"%w: unexpected length %d",
			ErrInvalidSS58,
			len(data),
		)
	}
	body := data[:prefixLen+AccountId32Size]
	checksum := ss58Checksum(body)
	if !bytes.Equal(checksum[:ss58ChecksumSize], data[len(body):]) {
		return ret, 0, fmt.Errorf("%w: checksum mismatch", ErrInvalidSS58)
	}
	copy(ret[:], body[prefixLen:])
	return ret, prefix, nil
}

func ss58Checksum(data []byte) [blake2b.Size]byte {
	tmp := make([]byte, 0, len(ss58Preamble)+len(data))
	tmp = append(tmp, ss58Preamble...)
	tmp = append(tmp, data...)
	return blake2b.Sum512(tmp)
}

func encodeSS58Prefix(prefix SS58Prefix) []byte {
	if prefix < 64 {
		return []byte{byte(prefix)}
	}
	first := byte((prefix&0x00fc)>>2) | 0x40
	second := byte(prefix>>8) | byte(prefix&0x0003)<<6
	return []byte{first, second}
}

func decodeSS58Prefix(data []byte) (SS58Prefix, int, error) {
	switch {
	case data[0] < 64:
		return SS58Prefix(data[0]), 1, nil
	case data[0] < 128:
		if len(data) < 2 {
			return 0, 0, fmt.Errorf("%w: truncated prefix", ErrInvalidSS58)
		}
		lower := (data[0] << 2) | (data[1] >> 6)
		upper := data[1] & 0x3f
		return SS58Prefix(lower) | SS58Prefix(upper)<<8, 2, nil
	default:
		return 0, 0, fmt.Errorf("%w: reserved prefix byte 0x%02x", ErrInvalidSS58, data[0])
	}
}
