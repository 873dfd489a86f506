// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/cbortag/lib/codec"
)

// format selects the serialization a tagged record is written in or
// read from. It implements pflag.Value so it can be bound directly to
// a --format flag.
type format string

const (
	formatCBOR format = "cbor"
	formatJSON format = "json"
	formatYAML format = "yaml"
)

func (f *format) String() string { return string(*f) }

func (f *format) Type() string { return "format" }

func (f *format) Set(value string) error {
	switch format(value) {
	case formatCBOR, formatJSON, formatYAML:
		*f = format(value)
		return nil
	}
	return fmt.Errorf("unknown format %q (want cbor, json, or yaml)", value)
}

func (f format) marshal(v any) ([]byte, error) {
	switch f {
	case formatJSON:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatYAML:
		return yaml.Marshal(v)
	default:
		return codec.Marshal(v)
	}
}

func (f format) unmarshal(data []byte, v any) error {
	switch f {
	case formatJSON:
		return json.Unmarshal(data, v)
	case formatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return codec.Unmarshal(data, v)
	}
}
