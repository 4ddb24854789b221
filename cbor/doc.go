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

// Package cbor provides the deterministic CBOR wire codec used for headers,
// blocks, extrinsics and signed payloads.
//
// This package wraps github.com/fxamacker/cbor/v2 with a fixed, deterministic
// encoding mode: map keys are sorted (core deterministic) and nil containers
// encode identically to empty ones. Two equal values therefore always encode to
// the same bytes, which is what content hashing relies on.
//
// # Key Types
//
//   - StructAsArray: Embed to encode struct fields as CBOR array instead of map
//   - DecodeStoreCbor: Embed to preserve original CBOR bytes for hashing
//   - RawMessage: Deferred decoding (like json.RawMessage)
//
// # Composing encodings
//
// EncodeRawList builds an array from items that were encoded separately. Since
// RawMessage is embedded verbatim, the result matches encoding the original
// values as a slice, which lets callers encode a block from its parts without
// materializing it.
package cbor
