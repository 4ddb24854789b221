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
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/blinklabs-io/goprimitives/account"
	"github.com/blinklabs-io/goprimitives/cbor"
	"github.com/blinklabs-io/goprimitives/dispatch"
	"github.com/blinklabs-io/goprimitives/hashing"
	"github.com/blinklabs-io/goprimitives/validity"
)

const (
	minEraPeriod = 4
	maxEraPeriod = 1 << 16
	// Phases of long periods are rounded down to a multiple of period/4096.
	eraQuantizeShift = 12
)

// Era is the range of blocks a transaction is valid in. An immortal era never
// ends. A mortal era starts at the most recent block whose number is congruent
// to Phase modulo Period, and lasts Period blocks.
type Era struct {
	Period uint64
	Phase  uint64
}

// ImmortalEra returns the era that never ends.
func ImmortalEra() Era {
	return Era{}
}

// MortalEra returns an era of about period blocks starting at current. The
// period is rounded up to a power of two between 4 and 65536.
func MortalEra(period uint64, current uint64) Era {
	switch {
	case period <= minEraPeriod:
		period = minEraPeriod
	case period > maxEraPeriod:
		period = maxEraPeriod
	default:
		period = 1 << bits.Len64(period-1)
	}
	phase := current % period
	quantizeFactor := max(period>>eraQuantizeShift, 1)
	return Era{
		Period: period,
		Phase:  phase / quantizeFactor * quantizeFactor,
	}
}

func (e Era) IsImmortal() bool {
	return e.Period == 0
}

// Birth returns the first block of the era as seen from current.
func (e Era) Birth(current uint64) uint64 {
	if e.IsImmortal() {
		return 0
	}
	return (max(current, e.Phase)-e.Phase)/e.Period*e.Period + e.Phase
}

// Death returns the first block after the era as seen from current.
func (e Era) Death(current uint64) uint64 {
	if e.IsImmortal() {
		return math.MaxUint64
	}
	return e.Birth(current) + e.Period
}

func (e Era) MarshalCBOR() ([]byte, error) {
	if e.IsImmortal() {
		return cbor.Encode([]uint64{})
	}
	return cbor.Encode([]uint64{e.Period, e.Phase})
}

func (e *Era) UnmarshalCBOR(data []byte) error {
	var tmp []uint64
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	switch len(tmp) {
	case 0:
		*e = ImmortalEra()
	case 2:
		if tmp[0] < minEraPeriod || tmp[0] > maxEraPeriod || bits.OnesCount64(tmp[0]) != 1 {
			return fmt.Errorf("invalid era period %d", tmp[0])
		}
		if tmp[1] >= tmp[0] {
			return fmt.Errorf("invalid era phase %d for period %d", tmp[1], tmp[0])
		}
		*e = Era{Period: tmp[0], Phase: tmp[1]}
	default:
		return errors.New("invalid era encoding")
	}
	return nil
}

// BlockHashes provides the current block number and the hashes of recent blocks.
type BlockHashes interface {
	Best() uint64
	BlockHash(number uint64) (hashing.Digest, bool)
}

// CheckMortality limits the lifetime of a transaction to its era and binds the
// hash of the era's first block into the signature.
type CheckMortality struct {
	Base
	Era    Era
	Blocks BlockHashes
}

func (CheckMortality) Identifier() string {
	return IdentifierCheckMortality
}

// AdditionalSigned returns the hash of the birth block, or AncientBirthBlock if
// that block is not known.
func (c CheckMortality) AdditionalSigned() (any, error) {
	birth := c.Era.Birth(c.Blocks.Best())
	hash, ok := c.Blocks.BlockHash(birth)
	if !ok {
		return nil, validity.Invalid(validity.ReasonAncientBirthBlock)
	}
	return hash, nil
}

func (c CheckMortality) Validate(
	account.AccountId32,
	dispatch.Call,
	dispatch.Info,
	int,
) (validity.ValidTransaction, error) {
	current := c.Blocks.Best()
	ret := validity.Default()
	death := c.Era.Death(current)
	if death > current {
		ret.Longevity = death - current
	} else {
		ret.Longevity = 0
	}
	return ret, nil
}

func (c CheckMortality) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(c.Era)
}
