// Package env provides a read-only layer built from environment variables.
package env

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/yacchi/zoomify/document"
	"github.com/yacchi/zoomify/jsonptr"
	"github.com/yacchi/zoomify/layer"
	"github.com/yacchi/zoomify/source"
)

// KeyMapper turns a variable name with the prefix removed into a JSON
// Pointer. ok is false for variables the layer should ignore.
type KeyMapper func(name string) (pointer string, ok bool)

// ValueParser converts the raw text of a variable for the given pointer.
type ValueParser func(pointer, raw string) (any, error)

// Layer loads settings from environment variables with a given prefix.
//
// With prefix "APP_" and the default mapper, APP_SERVER_PORT=8080 becomes
// "/server/port" = "8080".
type Layer struct {
	name    layer.Name
	prefix  string
	mapKey  KeyMapper
	parse   ValueParser
	environ func() []string
}

var _ layer.Layer = (*Layer)(nil)

// Option configures a Layer.
type Option func(*Layer)

// WithKeyMapper replaces the default mapping, which lowercases the name
// and splits it on underscores.
func WithKeyMapper(fn KeyMapper) Option {
	return func(l *Layer) {
		l.mapKey = fn
	}
}

// WithValueParser converts values instead of keeping them as strings.
func WithValueParser(fn ValueParser) Option {
	return func(l *Layer) {
		l.parse = fn
	}
}

// WithEnviron replaces os.Environ as the variable source.
func WithEnviron(fn func() []string) Option {
	return func(l *Layer) {
		l.environ = fn
	}
}

// New creates an environment layer reading variables that start with prefix.
func New(name layer.Name, prefix string, opts ...Option) *Layer {
	l := &Layer{
		name:    name,
		prefix:  prefix,
		mapKey:  defaultKeyMapper,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the layer's name.
func (l *Layer) Name() layer.Name {
	return l.name
}

// Prefix returns the environment variable prefix.
func (l *Layer) Prefix() string {
	return l.prefix
}

// Load collects the matching variables. Every value that fails to parse is
// reported; the layer is not loaded in that case.
func (l *Layer) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vars := l.environ()
	sort.Strings(vars)

	data := make(map[string]any)
	var errs []error
	for _, kv := range vars {
		key, value, found := strings.Cut(kv, "=")
		if !found || !strings.HasPrefix(key, l.prefix) {
			continue
		}
		pointer, ok := l.mapKey(strings.TrimPrefix(key, l.prefix))
		if !ok {
			continue
		}

		var v any = value
		if l.parse != nil {
			parsed, err := l.parse(pointer, value)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			v = parsed
		}
		if _, ok := jsonptr.Set(data, pointer, v); !ok {
			errs = append(errs, fmt.Errorf("%s: cannot set %s", key, pointer))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("environment layer %q: %w", l.name, err)
	}
	return data, nil
}

// Save always fails; environment variables are not written back.
func (l *Layer) Save(ctx context.Context, changeset document.JSONPatchSet) error {
	return fmt.Errorf("environment layer %q: %w", l.name, source.ErrSaveNotSupported)
}

// CanSave returns false.
func (l *Layer) CanSave() bool {
	return false
}

// defaultKeyMapper converts "SERVER_PORT" to "/server/port".
func defaultKeyMapper(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return jsonptr.Build(strings.Split(strings.ToLower(name), "_")...), true
}
