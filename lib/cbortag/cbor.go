// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import (
	"bytes"
	"fmt"

	"github.com/bureau-foundation/cbortag/lib/codec"
)

// cborMapOfTwo is the initial byte of a definite-length CBOR map with
// two entries (major type 5, argument 2).
const cborMapOfTwo = 0xa2

// cborMajorUnsigned is the major type of a CBOR unsigned integer.
const cborMajorUnsigned = 0

// MarshalCBOR implements cbor.Marshaler. The record is assembled entry
// by entry so the tag always precedes the payload, independent of the
// caller's encoder sort mode. Under Core Deterministic Encoding the
// shorter tag key sorts first anyway, so the output is also canonical.
func (t Tagged[T]) MarshalCBOR() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte(cborMapOfTwo)

	encoder := codec.NewEncoder(&buffer)
	if err := encoder.Encode(TagField); err != nil {
		return nil, fmt.Errorf("encode %s key: %w", TagField, err)
	}
	if err := encoder.Encode(t.tag); err != nil {
		return nil, fmt.Errorf("encode %s: %w", TagField, err)
	}
	if err := encoder.Encode(DataField); err != nil {
		return nil, fmt.Errorf("encode %s key: %w", DataField, err)
	}
	if err := encoder.Encode(t.value); err != nil {
		return nil, fmt.Errorf("encode %s: %w", DataField, err)
	}
	return buffer.Bytes(), nil
}

// UnmarshalCBOR implements cbor.Unmarshaler. CBOR maps carry no entry
// order, so the two reserved entries are accepted in either order. On
// error the receiver is left unchanged.
func (t *Tagged[T]) UnmarshalCBOR(data []byte) error {
	// A CBOR null decodes into a nil map without error, which the
	// field check below then rejects as a zero-field record.
	var record map[string]codec.RawMessage
	if err := codec.UnmarshalStrict(data, &record); err != nil {
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	if err := checkFields(keys); err != nil {
		return err
	}

	// Null and undefined decode into uint64 as zero without error, so
	// the major type is checked before decoding.
	tagData := record[TagField]
	if len(tagData) == 0 || tagData[0]>>5 != cborMajorUnsigned {
		return shapeErrorf("%s is not an unsigned integer", TagField)
	}
	var tag uint64
	if err := codec.Unmarshal(tagData, &tag); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrShapeMismatch, TagField, err)
	}

	var value T
	if err := codec.Unmarshal(record[DataField], &value); err != nil {
		return fmt.Errorf("decode %s: %w", DataField, err)
	}

	*t = Tagged[T]{tag: tag, value: value}
	return nil
}
