package zoomify

import (
	"context"

	"github.com/yacchi/zoomify/format"
	"github.com/yacchi/zoomify/layer"
	"github.com/yacchi/zoomify/source/fs"
)

// Open creates a Store with the defaults and the settings file at path as
// the user layer, then loads it. The file format follows the extension; a
// missing file behaves as empty and is created on the first Save.
// WithEnvOverrides adds a read-only environment layer above the file.
func Open(ctx context.Context, path string, opts ...StoreOption) (*Store, error) {
	doc, err := format.ForPath(path)
	if err != nil {
		return nil, err
	}

	var options storeOptions
	for _, opt := range opts {
		opt(&options)
	}

	s := New(opts...)
	user := layer.New(LayerUser, fs.New(path, fs.WithMissingOK()), doc)
	if err := s.Add(user, WithPriority(PriorityUser)); err != nil {
		return nil, err
	}
	if options.envPrefix != "" {
		if err := s.Add(NewEnvLayer(options.envPrefix), WithPriority(PriorityEnv), WithReadOnly()); err != nil {
			return nil, err
		}
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
