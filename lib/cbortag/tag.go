// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import (
	"errors"
	"fmt"
)

// Reserved field names of the tagged record. Every encoder and decoder
// that understands tagged records must agree on these literals; they
// match the names used by existing tag-aware CBOR writers, so changing
// them breaks wire compatibility.
const (
	// TagField carries the uint64 tag number.
	TagField = "__cbor_tag_ser_tag"

	// DataField carries the payload.
	DataField = "__cbor_tag_ser_data"
)

// ErrShapeMismatch is wrapped by every decode error caused by a record
// that is not exactly {TagField: uint, DataField: payload}. Payload
// decode failures wrap the payload's own error instead.
var ErrShapeMismatch = errors.New("tagged record shape mismatch")

// Tagged pairs a semantic tag number with a payload. The zero value is
// tag 0 with T's zero value. Tagged values are immutable: none of the
// methods modify the receiver except the Unmarshal methods, which
// replace it wholesale on success.
type Tagged[T any] struct {
	tag   uint64
	value T
}

// New wraps value in tag. Any tag number is accepted.
func New[T any](tag uint64, value T) Tagged[T] {
	return Tagged[T]{tag: tag, value: value}
}

// Tag returns the tag number.
func (t Tagged[T]) Tag() uint64 {
	return t.tag
}

// Value returns the payload. Reference types (slices, maps, pointers)
// are returned as-is, not copied; callers that keep using the wrapper
// after taking the value share the payload's backing storage.
func (t Tagged[T]) Value() T {
	return t.value
}

func shapeErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrShapeMismatch, fmt.Sprintf(format, args...))
}

// checkFields verifies that keys, in the order they were read, name
// both reserved fields exactly once and nothing else.
func checkFields(keys []string) error {
	if len(keys) != 2 {
		return shapeErrorf("record has %d fields, want 2", len(keys))
	}

	var sawTag, sawData bool
	for _, key := range keys {
		switch key {
		case TagField:
			if sawTag {
				return shapeErrorf("duplicate field %q", key)
			}
			sawTag = true
		case DataField:
			if sawData {
				return shapeErrorf("duplicate field %q", key)
			}
			sawData = true
		default:
			return shapeErrorf("unexpected field %q", key)
		}
	}
	return nil
}
