package migrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Result is the outcome of one migrator run by CheckMigrations.
type Result struct {
	Name   string
	Report *Report
	Err    error
}

// Registry holds the known migrators in registration order.
type Registry struct {
	mu        sync.RWMutex
	migrators []Migrator
}

// NewRegistry creates a registry holding ms. It fails if two migrators share
// a name.
func NewRegistry(ms ...Migrator) (*Registry, error) {
	r := &Registry{}
	var errs []error
	for _, m := range ms {
		if err := r.Register(m); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds m. Names must be unique.
func (r *Registry) Register(m Migrator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.migrators {
		if existing.Name() == m.Name() {
			return fmt.Errorf("migrator %q already registered", m.Name())
		}
	}
	r.migrators = append(r.migrators, m)
	return nil
}

// All returns every registered migrator.
func (r *Registry) All() []Migrator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Migrator(nil), r.migrators...)
}

// Lookup returns the migrator named name.
func (r *Registry) Lookup(name string) (Migrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.migrators {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// Available returns the migrators whose foreign config exists.
func (r *Registry) Available() []Migrator {
	var out []Migrator
	for _, m := range r.All() {
		if m.IsMigrationAvailable() {
			out = append(out, m)
		}
	}
	return out
}

// CheckMigrations runs every available migrator with a fresh report each.
// It returns false when no migrator was available, which the caller shows
// as NoMigrations rather than as a successful run.
func (r *Registry) CheckMigrations(ctx context.Context) ([]Result, bool) {
	available := r.Available()
	if len(available) == 0 {
		return nil, false
	}

	results := make([]Result, 0, len(available))
	for _, m := range available {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Name: m.Name(), Report: &Report{}, Err: err})
			continue
		}
		report := &Report{}
		err := m.Migrate(ctx, report)
		results = append(results, Result{Name: m.Name(), Report: report, Err: err})
	}
	return results, true
}
