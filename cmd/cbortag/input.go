// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"
)

// readInput resolves input data from either a file (the single
// positional argument, if present) or stdin. More than one positional
// argument is a usage error.
//
// When hexMode is true, the raw bytes are treated as hex-encoded data:
// whitespace is stripped and the hex is decoded to binary.
func readInput(args []string, stdin io.Reader, hexMode bool) ([]byte, error) {
	var data []byte

	switch len(args) {
	case 0:
		var err error
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, internal("read stdin: %w", err)
		}
	case 1:
		var err error
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, internal("read %s: %w", args[0], err)
		}
	default:
		return nil, validation("expected at most one input file, got %d arguments", len(args))
	}

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, internal("%w", err)
		}
		data = decoded
	}

	if len(data) == 0 {
		return nil, internal("empty input")
	}
	return data, nil
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it to binary bytes. Whitespace between hex digit pairs is allowed
// (e.g., "a2 72 5f 5f" or "a2725f5f").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}
