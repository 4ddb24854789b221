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
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/blinklabs-io/goprimitives/account"
)

type ss58Flags struct {
	flagset *flag.FlagSet
	key     string
	address string
	prefix  uint
}

func newSS58Flags() *ss58Flags {
	f := &ss58Flags{
		flagset: flag.NewFlagSet("ss58", flag.ContinueOnError),
	}
	f.flagset.StringVar(&f.key, "key", "", "32-byte account ID in hex to render")
	f.flagset.StringVar(&f.address, "address", "", "SS58 address to parse")
	f.flagset.UintVar(&f.prefix, "prefix", uint(account.SS58PrefixSubstrate), "SS58 network prefix")
	return f
}

func runSS58(w io.Writer, args []string) error {
	f := newSS58Flags()
	f.flagset.SetOutput(w)
	if err := f.flagset.Parse(args); err != nil {
		return err
	}
	switch {
	case f.key != "" && f.address != "":
		return errors.New("specify only one of -key and -address")
	case f.key != "":
		id, err := account.AccountId32FromHex(f.key)
		if err != nil {
			return fmt.Errorf("invalid key: %w", err)
		}
		prefix, err := ss58Prefix(f.prefix)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "SS58: %s\n", id.SS58(prefix))
	case f.address != "":
		id, prefix, err := account.ParseSS58(f.address)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Account ID: %s\n", id.String())
		fmt.Fprintf(w, "Prefix: %d\n", prefix)
	default:
		return errors.New("you must specify -key or -address")
	}
	return nil
}
