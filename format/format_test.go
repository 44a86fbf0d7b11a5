package format

import (
	"testing"

	"github.com/yacchi/zoomify/document"
)

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want document.DocumentFormat
	}{
		{"config/zoomify.json", document.FormatJSONC},
		{"zoomify.JSON5", document.FormatJSONC},
		{"zoomify.jsonc", document.FormatJSONC},
		{"ok_zoomer/config.toml", document.FormatTOML},
		{"zoomify.yaml", document.FormatYAML},
		{"zoomify.yml", document.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			doc, err := ForPath(tt.path)
			if err != nil {
				t.Fatalf("ForPath() error = %v", err)
			}
			if doc.Format() != tt.want {
				t.Errorf("ForPath(%q).Format() = %q, want %q", tt.path, doc.Format(), tt.want)
			}
		})
	}

	if _, err := ForPath("zoomify.ini"); err == nil {
		t.Error("ForPath(.ini) should fail")
	}
}
