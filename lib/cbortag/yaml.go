// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cbortag

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler. It returns a mapping node
// rather than a Go map so the tag entry keeps its position ahead of
// the data entry.
func (t Tagged[T]) MarshalYAML() (any, error) {
	var payload yaml.Node
	if err := payload.Encode(t.value); err != nil {
		return nil, fmt.Errorf("encode %s: %w", DataField, err)
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: TagField},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(t.tag, 10)},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: DataField},
			&payload,
		},
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Tagged[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return shapeErrorf("expected YAML mapping, got %s", node.ShortTag())
	}

	keys := make([]string, 0, len(node.Content)/2)
	fields := make(map[string]*yaml.Node, 2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		if keyNode.Kind != yaml.ScalarNode || keyNode.ShortTag() != "!!str" {
			return shapeErrorf("mapping key at line %d is not a string", keyNode.Line)
		}
		keys = append(keys, keyNode.Value)
		fields[keyNode.Value] = node.Content[i+1]
	}
	if err := checkFields(keys); err != nil {
		return err
	}

	// A null scalar decodes into uint64 as zero without error.
	tagNode := fields[TagField]
	if tagNode.Kind != yaml.ScalarNode || tagNode.ShortTag() != "!!int" {
		return shapeErrorf("%s is not an integer (line %d)", TagField, tagNode.Line)
	}
	var tag uint64
	if err := tagNode.Decode(&tag); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrShapeMismatch, TagField, err)
	}

	var value T
	if err := fields[DataField].Decode(&value); err != nil {
		return fmt.Errorf("decode %s: %w", DataField, err)
	}

	*t = Tagged[T]{tag: tag, value: value}
	return nil
}
