// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import (
	"bytes"
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/cbortag/lib/codec"
)

var (
	_ cbor.Marshaler   = Tagged[string]{}
	_ cbor.Unmarshaler = (*Tagged[string])(nil)
	_ cbor.Marshaler   = TaggedString{}
	_ cbor.Unmarshaler = (*TaggedString)(nil)
)

// cborText returns the encoding of a short (< 24 byte) text string.
func cborText(s string) []byte {
	return append([]byte{0x60 + byte(len(s))}, s...)
}

func TestCBORWireShape(t *testing.T) {
	data, err := codec.Marshal(New(55, "hello"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	// {"__cbor_tag_ser_tag": 55, "__cbor_tag_ser_data": "hello"}
	want := []byte{0xa2}
	want = append(want, cborText(TagField)...)
	want = append(want, 0x18, 55)
	want = append(want, cborText(DataField)...)
	want = append(want, cborText("hello")...)

	if !bytes.Equal(data, want) {
		t.Errorf("encoding:\n got %x\nwant %x", data, want)
	}

	var decoded Tagged[string]
	if err := codec.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Tag() != 55 || decoded.Value() != "hello" {
		t.Errorf("decoded = (%d, %q), want (55, \"hello\")", decoded.Tag(), decoded.Value())
	}
}

func TestCBORTagPrecedesData(t *testing.T) {
	for _, tag := range boundaryTags {
		data, err := New(tag, point{X: 1, Y: -1}).MarshalCBOR()
		if err != nil {
			t.Fatalf("MarshalCBOR(%d): %v", tag, err)
		}
		tagAt := bytes.Index(data, []byte(TagField))
		dataAt := bytes.Index(data, []byte(DataField))
		if tagAt < 0 || dataAt < 0 {
			t.Fatalf("tag %d: reserved names missing from %x", tag, data)
		}
		if tagAt > dataAt {
			t.Errorf("tag %d: %s at offset %d follows %s at offset %d", tag, TagField, tagAt, DataField, dataAt)
		}
	}
}

func TestCBOREncodingIsDeterministic(t *testing.T) {
	// Decoding the record generically and re-encoding it with the
	// Core Deterministic encoder must reproduce the exact bytes.
	for _, tag := range boundaryTags {
		data, err := codec.Marshal(New(tag, map[string]any{"b": 2, "a": 1}))
		if err != nil {
			t.Fatalf("Marshal(%d): %v", tag, err)
		}

		var generic any
		if err := codec.Unmarshal(data, &generic); err != nil {
			t.Fatalf("Unmarshal(%d) generic: %v", tag, err)
		}
		reencoded, err := codec.Marshal(generic)
		if err != nil {
			t.Fatalf("re-Marshal(%d): %v", tag, err)
		}
		if !bytes.Equal(data, reencoded) {
			t.Errorf("tag %d: not deterministic:\n got %x\nwant %x", tag, data, reencoded)
		}
	}
}

// roundtripCBOR encodes New(tag, value) and decodes it back into a
// Tagged[T].
func roundtripCBOR[T any](t *testing.T, tag uint64, value T) Tagged[T] {
	t.Helper()
	data, err := codec.Marshal(New(tag, value))
	if err != nil {
		t.Fatalf("Marshal(%d, %v): %v", tag, value, err)
	}
	var decoded Tagged[T]
	if err := codec.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal(%x): %v", data, err)
	}
	if decoded.Tag() != tag {
		t.Errorf("tag = %d, want %d", decoded.Tag(), tag)
	}
	return decoded
}

func TestCBORRoundtripTagRange(t *testing.T) {
	for _, tag := range boundaryTags {
		decoded := roundtripCBOR(t, tag, "x")
		if decoded.Value() != "x" {
			t.Errorf("tag %d: value = %q, want %q", tag, decoded.Value(), "x")
		}
	}

	random := rand.New(rand.NewPCG(8949, 6))
	for range 256 {
		tag := random.Uint64()
		decoded := roundtripCBOR(t, tag, tag)
		if decoded.Value() != tag {
			t.Errorf("tag %d: value = %d", tag, decoded.Value())
		}
	}
}

func TestCBORRoundtripPayloadTypes(t *testing.T) {
	t.Run("negative integer", func(t *testing.T) {
		decoded := roundtripCBOR(t, 1, int64(math.MinInt64))
		if decoded.Value() != math.MinInt64 {
			t.Errorf("value = %d, want %d", decoded.Value(), int64(math.MinInt64))
		}
	})

	t.Run("float", func(t *testing.T) {
		decoded := roundtripCBOR(t, 1, 1363896240.5)
		if decoded.Value() != 1363896240.5 {
			t.Errorf("value = %v, want 1363896240.5", decoded.Value())
		}
	})

	t.Run("byte string", func(t *testing.T) {
		// Tag 2: unsigned bignum.
		payload := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
		decoded := roundtripCBOR(t, 2, payload)
		if !bytes.Equal(decoded.Value(), payload) {
			t.Errorf("value = %x, want %x", decoded.Value(), payload)
		}
	})

	t.Run("struct", func(t *testing.T) {
		payload := point{X: 3, Y: -4, Label: "ü"}
		decoded := roundtripCBOR(t, 40000, payload)
		if decoded.Value() != payload {
			t.Errorf("value = %+v, want %+v", decoded.Value(), payload)
		}
	})

	t.Run("array", func(t *testing.T) {
		payload := []int{1, 2, 3}
		decoded := roundtripCBOR(t, 40, payload)
		if !reflect.DeepEqual(decoded.Value(), payload) {
			t.Errorf("value = %v, want %v", decoded.Value(), payload)
		}
	})

	t.Run("map", func(t *testing.T) {
		payload := map[string]string{"lang": "en", "text": "hi"}
		decoded := roundtripCBOR(t, 38, payload)
		if !reflect.DeepEqual(decoded.Value(), payload) {
			t.Errorf("value = %v, want %v", decoded.Value(), payload)
		}
	})

	t.Run("nested tag", func(t *testing.T) {
		inner := New(32, "https://example.org")
		decoded := roundtripCBOR(t, 55799, inner)
		if decoded.Value() != inner {
			t.Errorf("value = %+v, want %+v", decoded.Value(), inner)
		}
	})

	t.Run("empty string", func(t *testing.T) {
		decoded := roundtripCBOR(t, 0, "")
		if decoded.Value() != "" {
			t.Errorf("value = %q, want empty", decoded.Value())
		}
	})
}

func TestCBORAsStructField(t *testing.T) {
	type document struct {
		Title string         `cbor:"title"`
		Link  Tagged[string] `cbor:"link"`
		Dates []TaggedString `cbor:"dates"`
	}

	original := document{
		Title: "release notes",
		Link:  New(32, "https://example.org/notes"),
		Dates: []TaggedString{
			{TagNumber: 0, Data: "2013-03-21T20:04:00Z"},
			{TagNumber: 0, Data: "2026-10-14T00:00:00Z"},
		},
	}

	data, err := codec.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded document
	if err := codec.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestCBORFieldsInEitherOrder(t *testing.T) {
	// Hand-assembled with the data entry first; CBOR maps are
	// unordered so this is the same record.
	data := []byte{0xa2}
	data = append(data, cborText(DataField)...)
	data = append(data, cborText("swapped")...)
	data = append(data, cborText(TagField)...)
	data = append(data, 0x07)

	var decoded Tagged[string]
	if err := decoded.UnmarshalCBOR(data); err != nil {
		t.Fatalf("UnmarshalCBOR: %v", err)
	}
	if decoded.Tag() != 7 || decoded.Value() != "swapped" {
		t.Errorf("decoded = (%d, %q), want (7, \"swapped\")", decoded.Tag(), decoded.Value())
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := codec.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal(%v): %v", v, err)
	}
	return data
}

func TestCBORRejectsShape(t *testing.T) {
	duplicate := []byte{0xa2}
	duplicate = append(duplicate, cborText(TagField)...)
	duplicate = append(duplicate, 0x01)
	duplicate = append(duplicate, cborText(TagField)...)
	duplicate = append(duplicate, 0x02)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "tag only", data: mustMarshal(t, map[string]any{TagField: 1})},
		{name: "data only", data: mustMarshal(t, map[string]any{DataField: "x"})},
		{name: "empty map", data: mustMarshal(t, map[string]any{})},
		{name: "three fields", data: mustMarshal(t, map[string]any{TagField: 1, DataField: "x", "extra": true})},
		{name: "misspelled tag", data: mustMarshal(t, map[string]any{"__cbor_tag_ser_tga": 1, DataField: "x"})},
		{name: "truncated data name", data: mustMarshal(t, map[string]any{TagField: 1, "__cbor_tag_ser_dat": "x"})},
		{name: "integer keys", data: mustMarshal(t, map[int]any{1: 1, 2: "x"})},
		{name: "duplicate tag key", data: duplicate},
		{name: "text string", data: mustMarshal(t, "hello")},
		{name: "array", data: mustMarshal(t, []any{1, "x"})},
		{name: "null", data: []byte{0xf6}},
		{name: "native tag item", data: mustMarshal(t, cbor.Tag{Number: 32, Content: "x"})},
		{name: "tag is text", data: mustMarshal(t, map[string]any{TagField: "1", DataField: "x"})},
		{name: "tag is negative", data: mustMarshal(t, map[string]any{TagField: -1, DataField: "x"})},
		{name: "tag is float", data: mustMarshal(t, map[string]any{TagField: 1.5, DataField: "x"})},
		{name: "tag is null", data: mustMarshal(t, map[string]any{TagField: nil, DataField: "x"})},
		{name: "tag is bool", data: mustMarshal(t, map[string]any{TagField: true, DataField: "x"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := New(99, "untouched")
			err := decoded.UnmarshalCBOR(tt.data)
			if err == nil {
				t.Fatalf("UnmarshalCBOR(%x) succeeded with (%d, %q)", tt.data, decoded.Tag(), decoded.Value())
			}
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("error %v does not wrap ErrShapeMismatch", err)
			}
			if decoded.Tag() != 99 || decoded.Value() != "untouched" {
				t.Errorf("receiver modified on error: (%d, %q)", decoded.Tag(), decoded.Value())
			}
		})
	}
}

func TestCBORRejectsPayloadTypeMismatch(t *testing.T) {
	data := mustMarshal(t, New(32, []int{1, 2}))

	decoded := New(99, "untouched")
	err := codec.Unmarshal(data, &decoded)
	if err == nil {
		t.Fatalf("decoding an array payload as string succeeded: %q", decoded.Value())
	}
	if errors.Is(err, ErrShapeMismatch) {
		t.Errorf("payload type error %v should not be reported as a shape mismatch", err)
	}
	if decoded.Tag() != 99 || decoded.Value() != "untouched" {
		t.Errorf("receiver modified on error: (%d, %q)", decoded.Tag(), decoded.Value())
	}
}

func TestCBORMarshalUnsupportedPayload(t *testing.T) {
	if _, err := codec.Marshal(New(1, make(chan int))); err == nil {
		t.Error("Marshal of a channel payload succeeded")
	}
}

func BenchmarkCBORMarshal(b *testing.B) {
	tagged := New(32, "https://example.org/a/reasonably/long/path")

	b.ReportAllocs()
	for b.Loop() {
		codec.Marshal(tagged)
	}
}

func BenchmarkCBORUnmarshal(b *testing.B) {
	data, err := codec.Marshal(New(32, "https://example.org/a/reasonably/long/path"))
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		var decoded Tagged[string]
		codec.Unmarshal(data, &decoded)
	}
}
