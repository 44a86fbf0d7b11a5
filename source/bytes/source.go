// Package bytes provides a read-only in-memory source, used for embedded
// settings and tests.
package bytes

import (
	"context"

	"github.com/yacchi/zoomify/source"
)

// Source serves a fixed byte slice.
type Source struct {
	data []byte
}

var (
	_ source.Source = (*Source)(nil)
	_ source.Prober = (*Source)(nil)
)

// New creates a source from raw bytes. The slice is copied.
func New(data []byte) *Source {
	return &Source{data: append([]byte(nil), data...)}
}

// FromString creates a source from a string.
//
//	src := bytes.FromString("[features]\nzoom_mode = \"HOLD\"\n")
func FromString(data string) *Source {
	return &Source{data: []byte(data)}
}

// Load returns a copy of the data.
func (s *Source) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]byte(nil), s.data...), nil
}

// Save always returns source.ErrSaveNotSupported.
func (s *Source) Save(context.Context, source.UpdateFunc) error {
	return source.ErrSaveNotSupported
}

// CanSave returns false.
func (s *Source) CanSave() bool {
	return false
}

// Exists always reports true; an in-memory source is never missing.
func (s *Source) Exists() bool {
	return true
}
