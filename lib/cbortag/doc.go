// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cbortag attaches CBOR semantic tags (RFC 8949 §3.4, major
// type 6) to values that travel through generic encoders.
//
// Go's format encoders (CBOR, JSON, YAML) drive values through their
// Marshaler and Unmarshaler interfaces, and none of those interfaces
// has a first-class "emit a tagged item" call. [Tagged] instead
// presents itself as a two-entry record under reserved field names:
//
//	{"__cbor_tag_ser_tag": 32, "__cbor_tag_ser_data": "https://example.org"}
//
// A tag-aware writer downstream may recognize the reserved names and
// rewrite the record into a genuine tag-plus-payload item. This
// package does not depend on such a writer existing: without one the
// literal record is the output, and it round-trips through this
// package unchanged.
//
// The tag entry is always emitted first. Decoders accept exactly the
// two reserved names, each present once, in either order, and reject
// any other shape with an error wrapping [ErrShapeMismatch]. Tag
// numbers are never interpreted; the full uint64 range passes through.
//
// [TaggedString] is the ready-made text case:
//
//	uri := cbortag.TaggedString{TagNumber: 32, Data: "https://example.org"}
//	data, err := codec.Marshal(uri)
//
// Arbitrary payloads use [New]:
//
//	epoch := cbortag.New(1, int64(1363896240))
//	data, err := codec.Marshal(epoch)
//
//	var decoded cbortag.Tagged[int64]
//	err = codec.Unmarshal(data, &decoded)
package cbortag
