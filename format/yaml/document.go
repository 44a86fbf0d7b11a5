// Package yaml implements document.Document for YAML files using
// gopkg.in/yaml.v3. Apply edits the yaml.Node tree, so comments on untouched
// keys are kept.
package yaml

import (
	"bytes"
	"fmt"

	"github.com/yacchi/zoomify/document"
	"github.com/yacchi/zoomify/jsonptr"
	"gopkg.in/yaml.v3"
)

// Document is a stateless YAML document.
type Document struct{}

var _ document.Document = (*Document)(nil)

// New returns a YAML Document.
func New() *Document {
	return &Document{}
}

// Format returns document.FormatYAML.
func (d *Document) Format() document.DocumentFormat {
	return document.FormatYAML
}

// Get parses YAML into a map.
func (d *Document) Get(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var result map[string]any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, &document.ParseError{Format: document.FormatYAML, Err: err}
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// Apply edits the node tree of data and re-encodes it.
func (d *Document) Apply(data []byte, changeset document.JSONPatchSet) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	out := root
	if len(bytes.TrimSpace(data)) > 0 {
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &document.ParseError{Format: document.FormatYAML, Err: err}
		}
		if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
			root = doc.Content[0]
			out = &doc
		}
	}

	for _, p := range changeset {
		keys, err := jsonptr.Parse(p.Path)
		if err != nil || len(keys) == 0 {
			continue
		}
		switch p.Op {
		case document.PatchOpAdd, document.PatchOpReplace:
			if err := setNode(root, keys, p.Value); err != nil {
				return nil, fmt.Errorf("failed to set %s: %w", p.Path, err)
			}
		case document.PatchOpRemove:
			deleteNode(root, keys)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// lookup returns the index of key's value node in a mapping, or -1.
func lookup(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i + 1
		}
	}
	return -1
}

func setNode(mapping *yaml.Node, keys []string, value any) error {
	for _, k := range keys[:len(keys)-1] {
		idx := lookup(mapping, k)
		if idx < 0 || mapping.Content[idx].Kind != yaml.MappingNode {
			child := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			if idx < 0 {
				mapping.Content = append(mapping.Content, keyNode(k), child)
			} else {
				mapping.Content[idx] = child
			}
			mapping = child
			continue
		}
		mapping = mapping.Content[idx]
	}

	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return err
	}
	last := keys[len(keys)-1]
	if idx := lookup(mapping, last); idx >= 0 {
		// Keep comments attached to the previous value.
		old := mapping.Content[idx]
		node.HeadComment, node.LineComment, node.FootComment = old.HeadComment, old.LineComment, old.FootComment
		mapping.Content[idx] = &node
		return nil
	}
	mapping.Content = append(mapping.Content, keyNode(last), &node)
	return nil
}

func deleteNode(mapping *yaml.Node, keys []string) {
	for _, k := range keys[:len(keys)-1] {
		idx := lookup(mapping, k)
		if idx < 0 || mapping.Content[idx].Kind != yaml.MappingNode {
			return
		}
		mapping = mapping.Content[idx]
	}
	if idx := lookup(mapping, keys[len(keys)-1]); idx >= 0 {
		mapping.Content = append(mapping.Content[:idx-1], mapping.Content[idx+1:]...)
	}
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
