// Package source defines where raw settings bytes come from and go to.
// Sources only move bytes; parsing belongs to document.Document.
package source

import (
	"context"
	"errors"
)

// ErrSaveNotSupported is returned by Save on read-only sources.
var ErrSaveNotSupported = errors.New("save not supported for this source")

// UpdateFunc receives the bytes currently stored (read under the source's
// lock) and returns the bytes to write.
type UpdateFunc func(current []byte) ([]byte, error)

// Source loads and optionally saves raw bytes.
type Source interface {
	// Load reads the current bytes.
	Load(ctx context.Context) ([]byte, error)

	// Save rewrites the stored bytes with the result of updateFunc.
	// Returns ErrSaveNotSupported if the source is read-only.
	Save(ctx context.Context, updateFunc UpdateFunc) error

	// CanSave reports whether Save is supported.
	CanSave() bool
}

// Prober is implemented by sources that can report whether their backing
// data exists without reading it.
type Prober interface {
	Exists() bool
}

// NotifyFunc is called by a Subscriber when the backing data changed, or
// with a non-nil error when watching failed.
type NotifyFunc func(err error)

// StopFunc stops a subscription.
type StopFunc func() error

// Subscriber is implemented by sources that can push change notifications.
type Subscriber interface {
	Subscribe(ctx context.Context, notify NotifyFunc) (StopFunc, error)
}
