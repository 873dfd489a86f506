// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the module's standard CBOR encoding
// configuration.
//
// Every package that produces or consumes CBOR goes through these
// shared modes so that output is identical regardless of which package
// emitted it. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes.
//
// Two decoders are provided. [Unmarshal] accepts any well-formed CBOR.
// [UnmarshalStrict] additionally rejects duplicate map keys; record
// types whose decoders must see every key exactly once (see
// lib/cbortag) use it.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
package codec
