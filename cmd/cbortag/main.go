// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// cbortag produces and inspects tagged records: the two-field
// {"__cbor_tag_ser_tag": N, "__cbor_tag_ser_data": payload} shape that
// lib/cbortag uses to carry CBOR semantic tags through generic
// encoders.
//
// Usage:
//
//	cbortag encode --tag 32 --text https://example.org > uri.cbor
//	cbortag decode uri.cbor
//	cbortag diag uri.cbor
//	echo '{"lat": 1.5}' | cbortag encode --tag 103 -f yaml
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/cbortag/lib/version"
)

// environment carries the process streams so that commands can be
// exercised in tests without touching os.Stdin and friends.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type subcommand struct {
	name    string
	summary string
	run     func(env *environment, args []string) error
}

var subcommands = []subcommand{
	{name: "encode", summary: "write a tagged record from a tag and a payload", run: encodeCommand},
	{name: "decode", summary: "print a tagged record's tag and payload as JSON", run: decodeCommand},
	{name: "diag", summary: "print CBOR diagnostic notation", run: diagCommand},
}

func main() {
	env := &environment{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := run(os.Args[1:], env); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var commandErr *commandError
		if errors.As(err, &commandErr) {
			os.Exit(commandErr.ExitCode())
		}
		os.Exit(exitFailure)
	}
}

func run(args []string, env *environment) error {
	if len(args) == 0 {
		printUsage(env.stderr)
		return validation("no subcommand given")
	}

	switch args[0] {
	case "--version", "version":
		version.Print(env.stdout, "cbortag")
		return nil
	case "--help", "-h", "help":
		printUsage(env.stdout)
		return nil
	}

	for _, command := range subcommands {
		if command.name == args[0] {
			return command.run(env, args[1:])
		}
	}
	return validation("unknown subcommand %q (run \"cbortag --help\" for a list)", args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `cbortag - produce and inspect CBOR tagged records

USAGE
    cbortag <subcommand> [flags] [file]

SUBCOMMANDS
`)
	for _, command := range subcommands {
		fmt.Fprintf(w, "    %-8s %s\n", command.name, command.summary)
	}
	fmt.Fprint(w, `
Run "cbortag <subcommand> --help" for subcommand flags.
`)
}

// newFlagSet returns a flag set for a subcommand whose --help output
// is usage followed by the flag table.
func newFlagSet(name, usage string, env *environment) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("cbortag "+name, pflag.ContinueOnError)
	flagSet.SetOutput(env.stderr)
	flagSet.SortFlags = false
	flagSet.Usage = func() {
		fmt.Fprint(env.stderr, usage)
		fmt.Fprint(env.stderr, flagSet.FlagUsages())
	}
	return flagSet
}

// parseFlags parses args into flagSet. It returns done when --help was
// requested and usage has already been printed.
func parseFlags(flagSet *pflag.FlagSet, args []string) (done bool, err error) {
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return true, nil
		}
		return false, validation("%w", err)
	}
	return false, nil
}
