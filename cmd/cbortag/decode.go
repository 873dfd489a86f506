// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	gocbor "github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/cbortag/lib/cbortag"
	"github.com/bureau-foundation/cbortag/lib/codec"
)

const decodeUsage = `Usage: cbortag decode [-f cbor|json|yaml] [-x] [-c] [file]

Read one tagged record from the file argument or stdin and print its
tag and payload as JSON:

  {"tag": 32, "data": "https://example.org"}

Input that is not exactly a two-field tagged record is rejected.

Flags:
`

// toolDecMode decodes CBOR payloads for display. Unlike lib/codec's
// decoder it keeps the default map type (map[any]any), so maps with
// integer keys decode; normalizeValue then stringifies the keys.
var toolDecMode gocbor.DecMode

func init() {
	var err error
	toolDecMode, err = gocbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cbortag: decoder initialization failed: " + err.Error())
	}
}

// decodedRecord is the JSON shape printed by decode.
type decodedRecord struct {
	Tag  uint64 `json:"tag"`
	Data any    `json:"data"`
}

func decodeCommand(env *environment, args []string) error {
	var (
		hexInput bool
		compact  bool
		verbose  bool
	)
	inputFormat := formatCBOR

	flagSet := newFlagSet("decode", decodeUsage, env)
	flagSet.VarP(&inputFormat, "format", "f", "input format: cbor, json, or yaml")
	flagSet.BoolVarP(&hexInput, "hex", "x", false, "treat input as hex-encoded CBOR")
	flagSet.BoolVarP(&compact, "compact", "c", false, "compact output (no indentation)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug details to stderr")

	if done, err := parseFlags(flagSet, args); done || err != nil {
		return err
	}
	logger := newLogger(env.stderr, verbose).With("command", "decode")

	if hexInput && inputFormat != formatCBOR {
		return validation("--hex applies only to cbor input, not %s", inputFormat)
	}

	data, err := readInput(flagSet.Args(), env.stdin, hexInput)
	if err != nil {
		return err
	}

	tag, payload, err := decodeRecord(inputFormat, data)
	if err != nil {
		return internal("decode %s tagged record: %w", inputFormat, err)
	}

	logger.Debug("decoded tagged record",
		"tag", tag,
		"format", string(inputFormat),
		"bytes", len(data),
	)

	return writeJSON(env.stdout, decodedRecord{
		Tag:  tag,
		Data: normalizeValue(payload),
	}, compact)
}

// decodeRecord checks the record shape with the library decoder and
// returns the tag and a generic payload. CBOR and JSON payloads are kept
// raw through the shape check and decoded afterwards: CBOR through
// toolDecMode so integer map keys survive, JSON with UseNumber so
// integers outside float64 precision are printed exactly.
func decodeRecord(inputFormat format, data []byte) (uint64, any, error) {
	var payload any
	switch inputFormat {
	case formatCBOR:
		var record cbortag.Tagged[codec.RawMessage]
		if err := codec.Unmarshal(data, &record); err != nil {
			return 0, nil, err
		}
		if err := toolDecMode.Unmarshal(record.Value(), &payload); err != nil {
			return 0, nil, fmt.Errorf("decode %s: %w", cbortag.DataField, err)
		}
		return record.Tag(), payload, nil

	case formatJSON:
		var record cbortag.Tagged[json.RawMessage]
		if err := json.Unmarshal(data, &record); err != nil {
			return 0, nil, err
		}
		decoder := json.NewDecoder(bytes.NewReader(record.Value()))
		decoder.UseNumber()
		if err := decoder.Decode(&payload); err != nil {
			return 0, nil, fmt.Errorf("decode %s: %w", cbortag.DataField, err)
		}
		return record.Tag(), payload, nil

	default:
		var record cbortag.Tagged[any]
		if err := inputFormat.unmarshal(data, &record); err != nil {
			return 0, nil, err
		}
		return record.Tag(), record.Value(), nil
	}
}

// normalizeValue recursively converts decoded values to JSON-compatible
// types. The main transformation is converting map[any]any (from CBOR
// or YAML maps with non-string keys) to map[string]any with
// fmt.Sprint'd keys.
func normalizeValue(v any) any {
	switch value := v.(type) {
	case map[any]any:
		result := make(map[string]any, len(value))
		for key, element := range value {
			result[fmt.Sprint(key)] = normalizeValue(element)
		}
		return result

	case map[string]any:
		for key, element := range value {
			value[key] = normalizeValue(element)
		}
		return value

	case []any:
		for index, element := range value {
			value[index] = normalizeValue(element)
		}
		return value

	default:
		return v
	}
}

// writeJSON encodes value as JSON and writes it to w with a trailing
// newline. When compact is false, output is pretty-printed with 2-space
// indentation.
func writeJSON(w io.Writer, value any, compact bool) error {
	var output []byte
	var err error
	if compact {
		output, err = json.Marshal(value)
	} else {
		output, err = json.MarshalIndent(value, "", "  ")
	}
	if err != nil {
		return internal("encode JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(output))
	return err
}
