// Package document converts between the raw bytes of a settings file and the
// map[string]any view the store works with.
//
// A Document is stateless: Get parses bytes, Apply writes a changeset back
// into existing bytes. Formats that can keep comments and key order (JSONC)
// patch the original text; the others re-encode.
package document

// Document parses and rewrites one on-disk format.
type Document interface {
	// Format returns the format handled by this document.
	Format() DocumentFormat

	// Get parses data. Empty input yields an empty map, never nil.
	Get(data []byte) (map[string]any, error)

	// Apply writes changeset into data and returns the new bytes.
	// An empty changeset re-encodes data unchanged in meaning.
	Apply(data []byte, changeset JSONPatchSet) ([]byte, error)
}

// DocumentFormat names a document format.
type DocumentFormat string

const (
	// FormatTOML is TOML via github.com/pelletier/go-toml/v2.
	FormatTOML DocumentFormat = "toml"

	// FormatJSONC is JSON with comments via github.com/tailscale/hujson.
	FormatJSONC DocumentFormat = "jsonc"

	// FormatYAML is YAML via gopkg.in/yaml.v3.
	FormatYAML DocumentFormat = "yaml"
)
