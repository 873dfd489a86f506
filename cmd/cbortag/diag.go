// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/bureau-foundation/cbortag/lib/codec"
)

const diagUsage = `Usage: cbortag diag [-x] [file]

Write RFC 8949 Extended Diagnostic Notation for each CBOR item in the
file argument or stdin, one item per line. Unlike JSON output,
diagnostic notation preserves CBOR types, so a tagged record shows
its tag as an unsigned integer and byte-string payloads as h'..':

  {"__cbor_tag_ser_tag": 2, "__cbor_tag_ser_data": h'010000000000000000'}

Flags:
`

func diagCommand(env *environment, args []string) error {
	var hexInput bool

	flagSet := newFlagSet("diag", diagUsage, env)
	flagSet.BoolVarP(&hexInput, "hex", "x", false, "treat input as hex-encoded CBOR")

	if done, err := parseFlags(flagSet, args); done || err != nil {
		return err
	}

	data, err := readInput(flagSet.Args(), env.stdin, hexInput)
	if err != nil {
		return err
	}
	return diagCBOR(data, env.stdout)
}

// diagCBOR writes diagnostic notation for data to w. Data is processed
// as a CBOR sequence (RFC 8742): a single item produces one line.
func diagCBOR(data []byte, w io.Writer) error {
	remaining := data
	for len(remaining) > 0 {
		notation, rest, err := codec.DiagnoseFirst(remaining)
		if err != nil {
			offset := len(data) - len(remaining)
			return internal("diagnose CBOR at byte %d: %w", offset, err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return err
		}
		remaining = rest
	}
	return nil
}
