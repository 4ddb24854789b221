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

	"github.com/blinklabs-io/goprimitives/account"
)

type deriveFlags struct {
	flagset *flag.FlagSet
	tag     string
	source  string
	sub     string
	prefix  uint
}

func newDeriveFlags() *deriveFlags {
	f := &deriveFlags{
		flagset: flag.NewFlagSet("derive", flag.ContinueOnError),
	}
	f.flagset.StringVar(&f.tag, "tag", "", "4-byte type tag in hex (e.g. 6d6f646c for \"modl\")")
	f.flagset.StringVar(&f.source, "source", "", "source identifier in hex")
	f.flagset.StringVar(&f.sub, "sub", "", "optional sub-account discriminator in hex")
	f.flagset.UintVar(&f.prefix, "prefix", uint(account.SS58PrefixSubstrate), "SS58 network prefix")
	return f
}

func runDerive(w io.Writer, args []string) error {
	f := newDeriveFlags()
	f.flagset.SetOutput(w)
	if err := f.flagset.Parse(args); err != nil {
		return err
	}
	tagBytes, err := hex.DecodeString(f.tag)
	if err != nil {
		return fmt.Errorf("invalid tag: %w", err)
	}
	var tag account.TypeID
	if len(tagBytes) != len(tag) {
		return errors.New("tag must be exactly 4 bytes")
	}
	copy(tag[:], tagBytes)
	source, err := hex.DecodeString(f.source)
	if err != nil {
		return fmt.Errorf("invalid source: %w", err)
	}
	sub, err := hex.DecodeString(f.sub)
	if err != nil {
		return fmt.Errorf("invalid sub: %w", err)
	}
	prefix, err := ss58Prefix(f.prefix)
	if err != nil {
		return err
	}
	id := account.IntoSubAccount[account.AccountId32](
		account.RawIdentity{Tag: tag, Encoded: source},
		account.RawEncoded(sub),
	)
	fmt.Fprintf(w, "Account ID: %s\n", id.String())
	fmt.Fprintf(w, "SS58: %s\n", id.SS58(prefix))
	return nil
}

func ss58Prefix(v uint) (account.SS58Prefix, error) {
	if v > uint(account.MaxSS58Prefix) {
		return 0, fmt.Errorf("SS58 prefix %d out of range", v)
	}
	return account.SS58Prefix(v), nil
}
