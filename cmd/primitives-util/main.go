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
	"flag"
	"fmt"
	"io"
	"os"
)

type globalFlags struct {
	flagset *flag.FlagSet
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	if len(f.flagset.Args()) == 0 {
		fmt.Printf("You must specify a subcommand (derive, ss58, hash or dump)\n")
		os.Exit(1)
	}
	if err := run(os.Stdout, f.flagset.Arg(0), f.flagset.Args()[1:]); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, subcommand string, args []string) error {
	switch subcommand {
	case "derive":
		return runDerive(w, args)
	case "ss58":
		return runSS58(w, args)
	case "hash":
		return runHash(w, args)
	case "dump":
		return runDump(w, args)
	default:
		return fmt.Errorf("unknown subcommand: %s", subcommand)
	}
}
