// Package okzoomer migrates Ok Zoomer's TOML config into zoomify settings.
package okzoomer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/yacchi/zoomify/format/toml"
	"github.com/yacchi/zoomify/layer"
	"github.com/yacchi/zoomify/migrator"
	"github.com/yacchi/zoomify/source/fs"
)

// Name identifies this migration.
const Name = "zoomify.migrate.okz"

// DefaultConfigDir is the game's config directory relative to the working
// directory.
const DefaultConfigDir = "config"

// ConfigPath returns the location of Ok Zoomer's config under configDir.
func ConfigPath(configDir string) string {
	return filepath.Join(configDir, "ok_zoomer", "config.toml")
}

// Migrator moves Ok Zoomer settings into a zoomify settings store.
type Migrator struct {
	store  migrator.SettingsStore
	path   string
	unbind func()
	log    zerolog.Logger
}

var _ migrator.Migrator = (*Migrator)(nil)

// Option configures a Migrator.
type Option func(*Migrator)

// WithConfigDir reads the legacy config from the ok_zoomer directory under dir.
func WithConfigDir(dir string) Option {
	return func(m *Migrator) {
		m.path = ConfigPath(dir)
	}
}

// WithPath reads the legacy config from an explicit file.
func WithPath(path string) Option {
	return func(m *Migrator) {
		m.path = path
	}
}

// WithUnbindConflicting sets the action run when the legacy config asks for
// the key conflicting with zoom to be unbound.
func WithUnbindConflicting(fn func()) Option {
	return func(m *Migrator) {
		m.unbind = fn
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Migrator) {
		m.log = l
	}
}

// New creates a migrator writing into store.
func New(store migrator.SettingsStore, opts ...Option) *Migrator {
	m := &Migrator{
		store: store,
		path:  ConfigPath(DefaultConfigDir),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("migration", Name).Logger()
	return m
}

// Name returns the migration's translation key.
func (m *Migrator) Name() string {
	return Name
}

// Path returns the legacy config file location.
func (m *Migrator) Path() string {
	return m.path
}

// IsMigrationAvailable reports whether the legacy config file exists.
func (m *Migrator) IsMigrationAvailable() bool {
	return fs.New(m.path).Exists()
}

// Migrate translates the legacy config and commits every resulting write in
// one batch. On a read or decode failure the report gets an error, the
// store is untouched and the returned error wraps ErrDecode.
func (m *Migrator) Migrate(ctx context.Context, report *migrator.Report) error {
	stage, err := m.run(ctx, report, false)
	if err != nil {
		return err
	}
	if err := stage.Commit(); err != nil {
		return fmt.Errorf("%s: %w", Name, err)
	}
	m.log.Info().
		Int("warnings", len(report.Warnings())).
		Int("errors", len(report.Errors())).
		Bool("restart", report.RestartRequired()).
		Msg("migration complete")
	return nil
}

// Plan runs the translation without touching the store and returns the
// writes Migrate would make. The unbind action is not invoked.
func (m *Migrator) Plan(ctx context.Context, report *migrator.Report) ([]migrator.Write, error) {
	stage, err := m.run(ctx, report, true)
	if err != nil {
		return nil, err
	}
	return stage.Writes(), nil
}

func (m *Migrator) run(ctx context.Context, report *migrator.Report, dryRun bool) (*migrator.Stage, error) {
	cfg, err := m.load(ctx)
	if err != nil {
		report.Error(msgDecode)
		m.log.Error().Err(err).Str("path", m.path).Msg("cannot read legacy config")
		return nil, err
	}

	r := &run{
		cfg:    cfg,
		stage:  migrator.NewStage(m.store),
		report: report,
		unbind: m.unbind,
		dryRun: dryRun,
		log:    m.log,
	}
	for _, s := range pipeline {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.log.Debug().Str("step", s.name).Msg("applying rule")
		s.apply(r)
	}
	return r.stage, nil
}

func (m *Migrator) load(ctx context.Context) (Config, error) {
	l := layer.New("okzoomer", fs.New(m.path), toml.New())
	data, err := l.Load(ctx)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return Decode(data)
}
