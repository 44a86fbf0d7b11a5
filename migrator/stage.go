package migrator

import (
	"fmt"
)

// Write is one planned setting change.
type Write struct {
	Key   string
	Value any
}

// Stage buffers writes to a SettingsStore. Reads see staged values first,
// so later steps observe what earlier steps wrote. Nothing reaches the
// store until Commit.
type Stage struct {
	store  SettingsStore
	writes []Write
	index  map[string]int
}

var _ SettingsStore = (*Stage)(nil)

// NewStage starts a stage over store.
func NewStage(store SettingsStore) *Stage {
	return &Stage{store: store, index: make(map[string]int)}
}

// GetAt returns the staged value for key, or the store's.
func (s *Stage) GetAt(key string) (any, bool) {
	if i, ok := s.index[key]; ok {
		return s.writes[i].Value, true
	}
	return s.store.GetAt(key)
}

// Set stages value for key. Staging the same key again replaces the value
// but keeps its original position.
func (s *Stage) Set(key string, value any) error {
	if i, ok := s.index[key]; ok {
		s.writes[i].Value = value
		return nil
	}
	s.index[key] = len(s.writes)
	s.writes = append(s.writes, Write{Key: key, Value: value})
	return nil
}

// Writes returns the staged writes in first-write order.
func (s *Stage) Writes() []Write {
	return append([]Write(nil), s.writes...)
}

// Len returns the number of staged keys.
func (s *Stage) Len() int {
	return len(s.writes)
}

// Commit applies the staged writes. Stores implementing BatchSetter get a
// single all-or-nothing call; others are written key by key in order.
// The stage is empty afterwards.
func (s *Stage) Commit() error {
	if len(s.writes) == 0 {
		return nil
	}
	if bs, ok := s.store.(BatchSetter); ok {
		values := make(map[string]any, len(s.writes))
		for _, w := range s.writes {
			values[w.Key] = w.Value
		}
		if err := bs.SetMany(values); err != nil {
			return fmt.Errorf("failed to commit %d settings: %w", len(values), err)
		}
	} else {
		for _, w := range s.writes {
			if err := s.store.Set(w.Key, w.Value); err != nil {
				return fmt.Errorf("failed to commit %s: %w", w.Key, err)
			}
		}
	}
	s.writes = nil
	s.index = make(map[string]int)
	return nil
}
