// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import "gopkg.in/yaml.v3"

// TaggedString is a tagged text payload, e.g. an RFC 8949 URI (tag 32)
// or a standard date/time string (tag 0). It encodes exactly as
// Tagged[string] does in every supported format. TaggedString is
// comparable, so == compares both the tag and the text.
type TaggedString struct {
	TagNumber uint64
	Data      string
}

// Tag returns the tag number.
func (s TaggedString) Tag() uint64 {
	return s.TagNumber
}

func (s TaggedString) tagged() Tagged[string] {
	return New(s.TagNumber, s.Data)
}

func (s *TaggedString) assign(decoded Tagged[string]) {
	*s = TaggedString{TagNumber: decoded.Tag(), Data: decoded.Value()}
}

// MarshalCBOR implements cbor.Marshaler.
func (s TaggedString) MarshalCBOR() ([]byte, error) {
	return s.tagged().MarshalCBOR()
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (s *TaggedString) UnmarshalCBOR(data []byte) error {
	var decoded Tagged[string]
	if err := decoded.UnmarshalCBOR(data); err != nil {
		return err
	}
	s.assign(decoded)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s TaggedString) MarshalJSON() ([]byte, error) {
	return s.tagged().MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *TaggedString) UnmarshalJSON(data []byte) error {
	var decoded Tagged[string]
	if err := decoded.UnmarshalJSON(data); err != nil {
		return err
	}
	s.assign(decoded)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s TaggedString) MarshalYAML() (any, error) {
	return s.tagged().MarshalYAML()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *TaggedString) UnmarshalYAML(node *yaml.Node) error {
	var decoded Tagged[string]
	if err := decoded.UnmarshalYAML(node); err != nil {
		return err
	}
	s.assign(decoded)
	return nil
}
