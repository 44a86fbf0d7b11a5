// Package layer pairs a source with a document format. The settings store
// stacks layers by priority: built-in defaults at the bottom, the user's
// settings file above them.
package layer

import (
	"context"
	"sync"

	"github.com/yacchi/zoomify/document"
	"github.com/yacchi/zoomify/source"
)

// Priority orders layers; higher values override lower ones.
type Priority int

// Name identifies a layer within a store.
type Name string

// Layer loads a map and optionally saves a changeset back.
type Layer interface {
	Name() Name

	// Load reads and parses the layer.
	Load(ctx context.Context) (map[string]any, error)

	// Save writes changeset into the layer's backing storage.
	// Returns source.ErrSaveNotSupported for read-only layers.
	Save(ctx context.Context, changeset document.JSONPatchSet) error

	CanSave() bool
}

// SourceProvider is implemented by layers built on a source.Source.
type SourceProvider interface {
	Source() source.Source
}

// FileLayer combines a source and a document. Load and Save are serialized.
type FileLayer struct {
	name Name
	src  source.Source
	doc  document.Document

	opMu sync.Mutex
}

var (
	_ Layer          = (*FileLayer)(nil)
	_ SourceProvider = (*FileLayer)(nil)
)

// New creates a layer reading src through doc.
//
//	layer.New("user", fs.New(path, fs.WithMissingOK()), jsonc.New())
func New(name Name, src source.Source, doc document.Document) *FileLayer {
	return &FileLayer{name: name, src: src, doc: doc}
}

// Name returns the layer name.
func (l *FileLayer) Name() Name {
	return l.name
}

// Source returns the underlying source.
func (l *FileLayer) Source() source.Source {
	return l.src
}

// Document returns the document format.
func (l *FileLayer) Document() document.Document {
	return l.doc
}

// Load reads the source and parses it.
func (l *FileLayer) Load(ctx context.Context) (map[string]any, error) {
	l.opMu.Lock()
	defer l.opMu.Unlock()

	data, err := l.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return l.doc.Get(data)
}

// Save applies changeset to the source's current bytes.
func (l *FileLayer) Save(ctx context.Context, changeset document.JSONPatchSet) error {
	l.opMu.Lock()
	defer l.opMu.Unlock()

	return l.src.Save(ctx, func(current []byte) ([]byte, error) {
		return l.doc.Apply(current, changeset)
	})
}

// CanSave reports whether the source is writable.
func (l *FileLayer) CanSave() bool {
	return l.src.CanSave()
}

// CloneMap deep-copies nested maps and slices so layers never share
// mutable state with callers.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies v when it is a map or slice.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}
