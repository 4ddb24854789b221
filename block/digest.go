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

package block

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/blinklabs-io/goprimitives/cbor"
)

// ConsensusEngineID identifies the consensus engine a digest item belongs to.
type ConsensusEngineID [4]byte

func (c ConsensusEngineID) String() string {
	return string(c[:])
}

var (
	EngineAura    = ConsensusEngineID{'a', 'u', 'r', 'a'}
	EngineBabe    = ConsensusEngineID{'B', 'A', 'B', 'E'}
	EngineGrandpa = ConsensusEngineID{'F', 'R', 'N', 'K'}
)

type DigestItemKind uint8

const (
	DigestItemOther                     DigestItemKind = 0
	DigestItemConsensus                 DigestItemKind = 4
	DigestItemSeal                      DigestItemKind = 5
	DigestItemPreRuntime                DigestItemKind = 6
	DigestItemRuntimeEnvironmentUpdated DigestItemKind = 8
)

// DigestItem is a single entry in a header digest.
type DigestItem struct {
	cbor.StructAsArray
	Kind   DigestItemKind
	Engine ConsensusEngineID
	Data   []byte
}

func PreRuntimeItem(engine ConsensusEngineID, data []byte) DigestItem {
	return DigestItem{Kind: DigestItemPreRuntime, Engine: engine, Data: data}
}

func ConsensusItem(engine ConsensusEngineID, data []byte) DigestItem {
	return DigestItem{Kind: DigestItemConsensus, Engine: engine, Data: data}
}

func SealItem(engine ConsensusEngineID, data []byte) DigestItem {
	return DigestItem{Kind: DigestItemSeal, Engine: engine, Data: data}
}

func OtherItem(data []byte) DigestItem {
	return DigestItem{Kind: DigestItemOther, Data: data}
}

func RuntimeEnvironmentUpdatedItem() DigestItem {
	return DigestItem{Kind: DigestItemRuntimeEnvironmentUpdated}
}

func (d DigestItem) Equal(other DigestItem) bool {
	return d.Kind == other.Kind &&
		d.Engine == other.Engine &&
		bytes.Equal(d.Data, other.Data)
}

func (d DigestItem) String() string {
	switch d.Kind {
	case DigestItemPreRuntime:
		return fmt.Sprintf("PreRuntime(%s, %x)", d.Engine, d.Data)
	case DigestItemConsensus:
		return fmt.Sprintf("Consensus(%s, %x)", d.Engine, d.Data)
	case DigestItemSeal:
		return fmt.Sprintf("Seal(%s, %x)", d.Engine, d.Data)
	case DigestItemRuntimeEnvironmentUpdated:
		return "RuntimeEnvironmentUpdated"
	default:
		return fmt.Sprintf("Other(%x)", d.Data)
	}
}

// DigestLog is the ordered list of digest items in a header.
type DigestLog struct {
	Logs []DigestItem
}

func (d *DigestLog) Push(item DigestItem) {
	d.Logs = append(d.Logs, item)
}

// Pop removes and returns the last item.
func (d *DigestLog) Pop() (DigestItem, bool) {
	if len(d.Logs) == 0 {
		return DigestItem{}, false
	}
	item := d.Logs[len(d.Logs)-1]
	d.Logs = d.Logs[:len(d.Logs)-1]
	return item, true
}

// PopSeal removes and returns the trailing seal, if the last item is one.
func (d *DigestLog) PopSeal() (DigestItem, bool) {
	if len(d.Logs) == 0 || d.Logs[len(d.Logs)-1].Kind != DigestItemSeal {
		return DigestItem{}, false
	}
	return d.Pop()
}

// Find returns the first item of the given kind for the given engine.
func (d *DigestLog) Find(kind DigestItemKind, engine ConsensusEngineID) (DigestItem, bool) {
	idx := slices.IndexFunc(d.Logs, func(item DigestItem) bool {
		return item.Kind == kind && item.Engine == engine
	})
	if idx < 0 {
		return DigestItem{}, false
	}
	return d.Logs[idx], true
}

func (d DigestLog) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(d.Logs)
}

func (d *DigestLog) UnmarshalCBOR(data []byte) error {
	var tmp []DigestItem
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	if len(tmp) == 0 {
		tmp = nil
	}
	d.Logs = tmp
	return nil
}
