package zoomtest

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Write is one recorded Set on a Store.
type Write struct {
	Key   string
	Value any
}

// Normalizer validates and converts a value before a Store keeps it.
type Normalizer func(key string, value any) (any, error)

// Store is an in-memory settings store that records every write.
type Store struct {
	mu        sync.Mutex
	values    map[string]any
	writes    []Write
	batches   int
	failOn    map[string]error
	normalize Normalizer
}

// NewStore creates a Store with the given key/value pairs. Keys are JSON
// Pointers, as the real store uses.
func NewStore(initial map[string]any) *Store {
	values := make(map[string]any, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Store{values: values, failOn: make(map[string]error)}
}

// WithNormalizer makes Set and SetMany pass values through fn.
func (s *Store) WithNormalizer(fn Normalizer) *Store {
	s.normalize = fn
	return s
}

// FailOn makes writes to key return err.
func (s *Store) FailOn(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[key] = err
}

// GetAt returns the value stored at key.
func (s *Store) GetAt(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value at key.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.checkLocked(key, value)
	if err != nil {
		return err
	}
	s.values[key] = v
	s.writes = append(s.writes, Write{Key: key, Value: v})
	return nil
}

// SetMany checks every value, then stores all of them in sorted key order.
func (s *Store) SetMany(values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	checked := make([]any, len(keys))
	var errs []error
	for i, k := range keys {
		v, err := s.checkLocked(k, values[k])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		checked[i] = v
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	for i, k := range keys {
		s.values[k] = checked[i]
		s.writes = append(s.writes, Write{Key: k, Value: checked[i]})
	}
	s.batches++
	return nil
}

func (s *Store) checkLocked(key string, value any) (any, error) {
	if err := s.failOn[key]; err != nil {
		return nil, fmt.Errorf("set %s: %w", key, err)
	}
	if s.normalize != nil {
		return s.normalize(key, value)
	}
	return value, nil
}

// Writes returns every recorded write in order.
func (s *Store) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// Batches returns how many SetMany calls succeeded.
func (s *Store) Batches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches
}

// Values returns a copy of the stored values.
func (s *Store) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// ResetWrites forgets recorded writes but keeps the values.
func (s *Store) ResetWrites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
	s.batches = 0
}
