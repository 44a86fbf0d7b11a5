// Package format picks the document implementation for a settings file.
package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yacchi/zoomify/document"
	"github.com/yacchi/zoomify/format/jsonc"
	"github.com/yacchi/zoomify/format/toml"
	"github.com/yacchi/zoomify/format/yaml"
)

// ForPath returns the document for path based on its extension.
// .json, .jsonc and .json5 files are read as JSONC.
func ForPath(path string) (document.Document, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc", ".json5":
		return jsonc.New(), nil
	case ".toml":
		return toml.New(), nil
	case ".yaml", ".yml":
		return yaml.New(), nil
	default:
		return nil, fmt.Errorf("unsupported settings file extension %q", ext)
	}
}
