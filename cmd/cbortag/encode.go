// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/cbortag/lib/cbortag"
)

const encodeUsage = `Usage: cbortag encode --tag N [--text S] [-f cbor|json|yaml] [-x] [file]

Write a tagged record carrying tag N. With --text, the payload is the
given string. Otherwise the payload is read as JSON from the file
argument or stdin; comments and trailing commas are allowed.

Flags:
`

func encodeCommand(env *environment, args []string) error {
	var (
		tag       uint64
		text      string
		hexOutput bool
		verbose   bool
	)
	outputFormat := formatCBOR

	flagSet := newFlagSet("encode", encodeUsage, env)
	flagSet.Uint64Var(&tag, "tag", 0, "semantic tag number, 0 through 18446744073709551615 (required)")
	flagSet.StringVar(&text, "text", "", "use this string as the payload instead of reading JSON")
	flagSet.VarP(&outputFormat, "format", "f", "output format: cbor, json, or yaml")
	flagSet.BoolVarP(&hexOutput, "hex", "x", false, "write CBOR output as hex text")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug details to stderr")

	if done, err := parseFlags(flagSet, args); done || err != nil {
		return err
	}
	logger := newLogger(env.stderr, verbose).With("command", "encode")

	if !flagSet.Changed("tag") {
		return validation("--tag is required")
	}
	if hexOutput && outputFormat != formatCBOR {
		return validation("--hex applies only to cbor output, not %s", outputFormat)
	}

	var record any
	if flagSet.Changed("text") {
		if flagSet.NArg() > 0 {
			return validation("--text and an input file are mutually exclusive")
		}
		record = cbortag.TaggedString{TagNumber: tag, Data: text}
	} else {
		data, err := readInput(flagSet.Args(), env.stdin, false)
		if err != nil {
			return err
		}
		payload, err := parseJSONPayload(data)
		if err != nil {
			return err
		}
		record = cbortag.New(tag, payload)
	}

	output, err := outputFormat.marshal(record)
	if err != nil {
		return internal("encode %s: %w", outputFormat, err)
	}
	if hexOutput {
		output = append([]byte(hex.EncodeToString(output)), '\n')
	}

	logger.Debug("encoded tagged record",
		"tag", tag,
		"format", string(outputFormat),
		"bytes", len(output),
	)

	_, err = env.stdout.Write(output)
	return err
}

// parseJSONPayload decodes a single JSON (or JSONC) value. Numbers are
// kept as integers when they are integral so a JSON 42 becomes a CBOR
// unsigned integer rather than a float.
func parseJSONPayload(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, internal("decode JSON payload: %w", err)
	}
	if decoder.More() {
		return nil, internal("decode JSON payload: unexpected data after the first value")
	}
	return convertNumbers(value), nil
}

// convertNumbers recursively walks a JSON-decoded value and converts
// json.Number to int64, uint64, or float64, in that order of
// preference. Without this, numbers decoded with UseNumber() stay as
// strings that the CBOR encoder would write as text.
func convertNumbers(v any) any {
	switch value := v.(type) {
	case json.Number:
		if integer, err := value.Int64(); err == nil {
			return integer
		}
		if unsigned, err := strconv.ParseUint(value.String(), 10, 64); err == nil {
			return unsigned
		}
		if float, err := value.Float64(); err == nil {
			return float
		}
		// Out of float64 range. Keep the literal rather than guess.
		return value.String()

	case map[string]any:
		for key, element := range value {
			value[key] = convertNumbers(element)
		}
		return value

	case []any:
		for index, element := range value {
			value[index] = convertNumbers(element)
		}
		return value

	default:
		return v
	}
}
