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

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/blinklabs-io/goprimitives/utils"
)

// runDump prints the structure of a hex-encoded CBOR item, such as an
// extrinsic or a header.
func runDump(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("you must specify exactly one hex-encoded CBOR item")
	}
	data, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	out, err := utils.DumpCbor(data)
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	return nil
}
