// Package mapdata provides an in-memory layer. The store uses it for the
// built-in default settings; tests use it to inject values without files.
package mapdata

import (
	"context"

	"github.com/yacchi/zoomify/document"
	"github.com/yacchi/zoomify/layer"
)

// Layer holds its data in memory. Save applies the changeset to that data.
type Layer struct {
	name layer.Name
	data map[string]any
}

var _ layer.Layer = (*Layer)(nil)

// New creates a layer from a copy of data.
func New(name layer.Name, data map[string]any) *Layer {
	if data == nil {
		data = map[string]any{}
	}
	return &Layer{name: name, data: layer.CloneMap(data)}
}

// Name returns the layer name.
func (l *Layer) Name() layer.Name {
	return l.name
}

// Load returns a copy of the current data.
func (l *Layer) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return layer.CloneMap(l.data), nil
}

// Save replays changeset onto the in-memory data.
func (l *Layer) Save(ctx context.Context, changeset document.JSONPatchSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	changeset.ApplyTo(l.data)
	return nil
}

// CanSave returns true.
func (l *Layer) CanSave() bool {
	return true
}

// Data returns a copy of the current data.
func (l *Layer) Data() map[string]any {
	return layer.CloneMap(l.data)
}
