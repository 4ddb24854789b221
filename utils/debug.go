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

// Package utils provides debugging helpers.
package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blinklabs-io/goprimitives/cbor"
)

// DumpCbor decodes a single CBOR item and renders its structure.
func DumpCbor(data []byte) (string, error) {
	var tmp any
	if err := cbor.DecodeExact(data, &tmp); err != nil {
		return "", err
	}
	return DumpCborStructure(tmp, ""), nil
}

// DumpCborStructure renders a generically decoded CBOR value, one item per
// line. Nested items are indented by two spaces per level.
func DumpCborStructure(data any, prefix string) string {
	var ret strings.Builder
	switch v := data.(type) {
	case uint64, int64:
		fmt.Fprintf(&ret, "%s0x%x (%d),\n", prefix, v, v)
	case []byte:
		fmt.Fprintf(&ret, "%s<bytes> (length %d) %x,\n", prefix, len(v), v)
	case string:
		fmt.Fprintf(&ret, "%s%q,\n", prefix, v)
	case bool:
		fmt.Fprintf(&ret, "%s%t,\n", prefix, v)
	case nil:
		fmt.Fprintf(&ret, "%snull,\n", prefix)
	case []any:
		fmt.Fprintf(&ret, "%s[\n", prefix)
		for _, val := range v {
			ret.WriteString(DumpCborStructure(val, prefix+"  "))
		}
		fmt.Fprintf(&ret, "%s],\n", prefix)
	case map[any]any:
		fmt.Fprintf(&ret, "%s{\n", prefix)
		// Map iteration order is random
		lines := make([]string, 0, len(v))
		for key, val := range v {
			lines = append(lines, fmt.Sprintf("%s  %#v => %#v,\n", prefix, key, val))
		}
		sort.Strings(lines)
		for _, line := range lines {
			ret.WriteString(line)
		}
		fmt.Fprintf(&ret, "%s},\n", prefix)
	case cbor.Tag:
		fmt.Fprintf(&ret, "%stag %d (\n", prefix, v.Number)
		ret.WriteString(DumpCborStructure(v.Content, prefix+"  "))
		fmt.Fprintf(&ret, "%s),\n", prefix)
	default:
		fmt.Fprintf(&ret, "%s%#v,\n", prefix, v)
	}
	return ret.String()
}
