// Package toml implements document.Document for TOML files using
// github.com/pelletier/go-toml/v2.
//
// TOML documents are re-encoded on Apply; comments in the original text are
// not kept. Legacy files read through this package are never written back.
package toml

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/yacchi/zoomify/document"
	"github.com/yacchi/zoomify/jsonptr"
)

// Document is a stateless TOML document.
type Document struct{}

var _ document.Document = (*Document)(nil)

var (
	tomlMarshal   = toml.Marshal
	tomlUnmarshal = toml.Unmarshal
)

// New returns a TOML Document.
//
//	layer.New("okzoomer", fs.New(path), toml.New())
func New() *Document {
	return &Document{}
}

// Format returns document.FormatTOML.
func (d *Document) Format() document.DocumentFormat {
	return document.FormatTOML
}

// Get parses TOML. Integers decode as int64 and floats as float64.
func (d *Document) Get(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var result map[string]any
	if err := tomlUnmarshal(data, &result); err != nil {
		return nil, &document.ParseError{Format: document.FormatTOML, Err: err}
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// Apply decodes data, replays changeset and encodes the result.
func (d *Document) Apply(data []byte, changeset document.JSONPatchSet) ([]byte, error) {
	current, err := d.Get(data)
	if err != nil {
		return nil, err
	}
	changeset.ApplyTo(current)
	if err := checkNil("", current); err != nil {
		return nil, err
	}
	out, err := tomlMarshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to encode TOML: %w", err)
	}
	return out, nil
}

// checkNil rejects nil values, which TOML has no representation for.
func checkNil(path string, v any) error {
	switch val := v.(type) {
	case nil:
		return &document.UnsupportedValueError{Format: document.FormatTOML, Path: path, Reason: "null values"}
	case map[string]any:
		for k, child := range val {
			if err := checkNil(path+"/"+jsonptr.Escape(k), child); err != nil {
				return err
			}
		}
	case []any:
		for i, child := range val {
			if err := checkNil(fmt.Sprintf("%s/%d", path, i), child); err != nil {
				return err
			}
		}
	}
	return nil
}
