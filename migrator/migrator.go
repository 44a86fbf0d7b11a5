// Package migrator moves settings from other zoom mods into zoomify.
//
// A Migrator reads a foreign config and writes zoomify settings through a
// SettingsStore. Problems that do not stop the run are collected in a
// Report; only a config that cannot be read fails the run.
package migrator

import (
	"context"
)

// SettingsStore is the part of the settings store a migration needs.
// Keys are JSON Pointers such as "/initialZoom".
type SettingsStore interface {
	GetAt(key string) (any, bool)
	Set(key string, value any) error
}

// BatchSetter is implemented by stores that can apply several writes
// atomically.
type BatchSetter interface {
	SetMany(values map[string]any) error
}

// Migrator moves one foreign config into zoomify's settings.
type Migrator interface {
	// Name is the translation key identifying the source mod.
	Name() string

	// IsMigrationAvailable reports whether the foreign config exists.
	// It never reads the file.
	IsMigrationAvailable() bool

	// Migrate translates the foreign config, recording recoverable problems
	// in report. A returned error means nothing was written.
	Migrate(ctx context.Context, report *Report) error
}
