// Package jsonc implements document.Document for JSON-with-comments files
// using github.com/tailscale/hujson.
//
// Apply edits the hujson AST with RFC 6902 patches, so comments, key order
// and formatting of untouched members survive a save.
package jsonc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"
	"github.com/yacchi/zoomify/document"
)

// Document is a stateless JSONC document.
type Document struct{}

var _ document.Document = (*Document)(nil)

// New returns a JSONC Document.
//
//	layer.New("user", fs.New("~/.minecraft/config/zoomify.json"), jsonc.New())
func New() *Document {
	return &Document{}
}

// Format returns document.FormatJSONC.
func (d *Document) Format() document.DocumentFormat {
	return document.FormatJSONC
}

// Get parses JSONC, dropping comments and trailing commas.
func (d *Document) Get(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	v, err := hujson.Parse(trimmed)
	if err != nil {
		return nil, &document.ParseError{Format: document.FormatJSONC, Err: err}
	}
	v.Standardize()

	var result map[string]any
	if err := json.Unmarshal(v.Pack(), &result); err != nil {
		return nil, &document.ParseError{Format: document.FormatJSONC, Err: err}
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// Apply patches data in place. A new (empty) document is pretty-printed;
// existing documents keep their layout.
func (d *Document) Apply(data []byte, changeset document.JSONPatchSet) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	fresh := len(trimmed) == 0
	if fresh {
		trimmed = []byte("{}")
	}
	root, err := hujson.Parse(trimmed)
	if err != nil {
		return nil, &document.ParseError{Format: document.FormatJSONC, Err: err}
	}

	for _, p := range changeset {
		if err := patch(&root, p); err != nil {
			return nil, fmt.Errorf("failed to apply %s %s: %w", p.Op, p.Path, err)
		}
	}

	if fresh {
		root.Format()
	}
	out := root.Pack()
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// patch applies one operation. "replace" on a member that disappeared from
// the file since it was loaded falls back to "add", and "remove" of a
// missing member is a no-op.
func patch(root *hujson.Value, p document.JSONPatch) error {
	op := map[string]any{"op": string(p.Op), "path": p.Path}
	if p.Op != document.PatchOpRemove {
		op["value"] = p.Value
	}
	raw, err := json.Marshal([]any{op})
	if err != nil {
		return err
	}
	err = root.Patch(raw)
	if err == nil {
		return nil
	}
	switch p.Op {
	case document.PatchOpReplace:
		op["op"] = string(document.PatchOpAdd)
		if raw, err = json.Marshal([]any{op}); err != nil {
			return err
		}
		return root.Patch(raw)
	case document.PatchOpRemove:
		return nil
	}
	return err
}
