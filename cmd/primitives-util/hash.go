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
	"flag"
	"fmt"
	"io"

	"github.com/blinklabs-io/goprimitives/hashing"
)

var hasherAliases = map[string]string{
	"blake2": hashing.BlakeTwo256.Name(),
	"keccak": hashing.Keccak256.Name(),
}

type hashFlags struct {
	flagset *flag.FlagSet
	hasher  string
}

func newHashFlags() *hashFlags {
	f := &hashFlags{
		flagset: flag.NewFlagSet("hash", flag.ContinueOnError),
	}
	f.flagset.StringVar(&f.hasher, "hasher", "blake2", "hash function (blake2, keccak or blake3)")
	return f
}

func runHash(w io.Writer, args []string) error {
	f := newHashFlags()
	f.flagset.SetOutput(w)
	if err := f.flagset.Parse(args); err != nil {
		return err
	}
	name := f.hasher
	if alias, ok := hasherAliases[name]; ok {
		name = alias
	}
	hasher, err := hashing.ByName(name)
	if err != nil {
		return err
	}
	if f.flagset.NArg() == 0 {
		return errors.New("you must specify at least one hex item")
	}
	items := make([][]byte, 0, f.flagset.NArg())
	for _, arg := range f.flagset.Args() {
		item, err := hex.DecodeString(arg)
		if err != nil {
			return fmt.Errorf("invalid item %q: %w", arg, err)
		}
		items = append(items, item)
		fmt.Fprintf(w, "%s: %s\n", arg, hasher.Hash(item).String())
	}
	root := hasher.OrderedTrieRoot(items)
	fmt.Fprintf(w, "Ordered trie root: %s\n", root.String())
	c, err := hashing.CID(hasher, root)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "CID: %s\n", c.String())
	return nil
}
