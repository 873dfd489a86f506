// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// MarshalJSON implements json.Marshaler, emitting the tag entry before
// the data entry. The tag is written as a bare integer literal so the
// full uint64 range survives decoders that parse into uint64.
func (t Tagged[T]) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(t.value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", DataField, err)
	}

	var buffer bytes.Buffer
	buffer.Grow(len(TagField) + len(DataField) + len(payload) + 28)
	buffer.WriteString(`{"` + TagField + `":`)
	buffer.WriteString(strconv.FormatUint(t.tag, 10))
	buffer.WriteString(`,"` + DataField + `":`)
	buffer.Write(payload)
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. The object is walked
// token by token so that duplicate keys, which encoding/json would
// otherwise resolve silently to the last occurrence, are visible to
// the field check.
func (t *Tagged[T]) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return shapeErrorf("expected JSON object, got %v", token)
	}

	var keys []string
	fields := make(map[string]json.RawMessage, 2)
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
		}
		key, ok := token.(string)
		if !ok {
			return shapeErrorf("expected object key, got %v", token)
		}
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrShapeMismatch, key, err)
		}
		keys = append(keys, key)
		fields[key] = raw
	}
	if _, err := decoder.Token(); err != nil {
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return shapeErrorf("unexpected data after JSON object")
	}

	if err := checkFields(keys); err != nil {
		return err
	}

	// encoding/json treats null as a no-op for non-pointer targets.
	tagData := fields[TagField]
	if bytes.Equal(tagData, []byte("null")) {
		return shapeErrorf("%s is null", TagField)
	}
	var tag uint64
	if err := json.Unmarshal(tagData, &tag); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrShapeMismatch, TagField, err)
	}

	var value T
	if err := json.Unmarshal(fields[DataField], &value); err != nil {
		return fmt.Errorf("decode %s: %w", DataField, err)
	}

	*t = Tagged[T]{tag: tag, value: value}
	return nil
}
