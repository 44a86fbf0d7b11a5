package zoomify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/yacchi/zoomify/document"
	"github.com/yacchi/zoomify/jsonptr"
	"github.com/yacchi/zoomify/layer"
	"github.com/yacchi/zoomify/layer/mapdata"
)

// subscriber wraps a callback function with a unique ID for reliable unsubscription.
type subscriber struct {
	id uint64
	fn func(Settings)
}

// LayerInfo provides metadata about a registered layer.
type LayerInfo interface {
	Name() layer.Name
	Priority() layer.Priority

	// Format returns the document format, or "" for in-memory layers.
	Format() document.DocumentFormat

	// Path returns the file path for file-based layers.
	Path() string

	Loaded() bool
	ReadOnly() bool

	// Writable reports whether Set may target the layer.
	Writable() bool

	// Dirty reports whether the layer has unsaved changes.
	Dirty() bool
}

// AddOption is a functional option for configuring layer addition.
type AddOption func(*addOptions)

type addOptions struct {
	priority    layer.Priority
	hasPriority bool
	readOnly    bool
}

// WithPriority sets a specific priority for the layer.
// Higher priority values override lower priority values during merging.
func WithPriority(p layer.Priority) AddOption {
	return func(o *addOptions) {
		o.priority = p
		o.hasPriority = true
	}
}

// WithReadOnly prevents Set and SetTo from modifying the layer, even if the
// underlying source supports saving.
func WithReadOnly() AddOption {
	return func(o *addOptions) {
		o.readOnly = true
	}
}

// layerEntry holds a layer with its priority and loaded state.
type layerEntry struct {
	layer    layer.Layer
	priority layer.Priority
	path     string
	readOnly bool
	dirty    bool

	// data holds the cached data from Load()
	data map[string]any

	// changeset holds modifications since last Load/Save
	changeset document.JSONPatchSet
}

func (e *layerEntry) Name() layer.Name         { return e.layer.Name() }
func (e *layerEntry) Priority() layer.Priority { return e.priority }
func (e *layerEntry) Path() string             { return e.path }
func (e *layerEntry) Loaded() bool             { return e.data != nil }
func (e *layerEntry) ReadOnly() bool           { return e.readOnly }
func (e *layerEntry) Dirty() bool              { return e.dirty }

func (e *layerEntry) Format() document.DocumentFormat {
	if fl, ok := e.layer.(*layer.FileLayer); ok {
		return fl.Document().Format()
	}
	return ""
}

func (e *layerEntry) Writable() bool {
	if e.readOnly {
		return false
	}
	return e.layer.CanSave()
}

// PathProvider is implemented by sources that know their file path.
type PathProvider interface {
	Path() string
}

// MapDecoder converts the merged settings map into Settings.
type MapDecoder func(data map[string]any, target *Settings) error

// StoreOption is a functional option for configuring Store creation.
type StoreOption func(*storeOptions)

type storeOptions struct {
	writeLayer layer.Name
	decoder    MapDecoder
	defaults   map[string]any
	envPrefix  string
}

// WithWriteLayer sets the layer Set and SetMany write to. Default is "user".
func WithWriteLayer(name layer.Name) StoreOption {
	return func(o *storeOptions) {
		o.writeLayer = name
	}
}

// WithDecoder replaces the mapstructure-based decoder.
func WithDecoder(decoder MapDecoder) StoreOption {
	return func(o *storeOptions) {
		o.decoder = decoder
	}
}

// WithDefaults replaces the built-in defaults layer data.
func WithDefaults(values map[string]any) StoreOption {
	return func(o *storeOptions) {
		o.defaults = values
	}
}

// WithEnvOverrides makes Open add an environment layer reading variables
// with prefix, e.g. ZOOMIFY_OVERRIDE_INITIAL_ZOOM=6. New ignores it.
func WithEnvOverrides(prefix string) StoreOption {
	return func(o *storeOptions) {
		o.envPrefix = prefix
	}
}

// Store merges settings layers and keeps a decoded snapshot of the result.
//
// Get returns a snapshot of the current resolved settings.
// Use Subscribe to react to updates across Load, Reload, Set and Watch.
type Store struct {
	layers      []*layerEntry
	resolved    atomic.Pointer[Settings]
	merged      map[string]any
	subscribers []subscriber
	nextSubID   uint64
	writeLayer  layer.Name
	decoder     MapDecoder

	mu sync.RWMutex
}

// New creates a Store holding a read-only defaults layer at PriorityDefaults.
// The defaults are resolved immediately; add the user's layer and call Load
// to bring in saved settings.
func New(opts ...StoreOption) *Store {
	options := storeOptions{
		writeLayer: LayerUser,
		decoder:    decodeSettings,
		defaults:   DefaultValues(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	s := &Store{
		nextSubID:  1,
		writeLayer: options.writeLayer,
		decoder:    options.decoder,
	}
	defaults := mapdata.New(LayerDefaults, options.defaults)
	s.layers = []*layerEntry{{
		layer:    defaults,
		priority: PriorityDefaults,
		readOnly: true,
		data:     defaults.Data(),
	}}

	if _, _, err := s.materializeLocked(); err != nil {
		// A custom decoder rejected the defaults; start from the zero value.
		s.resolved.Store(&Settings{})
	}
	return s
}

// Add registers a new layer. Layers are kept sorted by priority; layers
// without WithPriority go above every existing layer.
//
// Add does not load the layer. Call Load or Reload afterwards.
//
//	store.Add(layer.New("user", fs.New(path, fs.WithMissingOK()), jsonc.New()),
//		zoomify.WithPriority(zoomify.PriorityUser))
func (s *Store) Add(l layer.Layer, opts ...AddOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLayerLocked(l.Name()) != nil {
		return fmt.Errorf("layer %q already exists", l.Name())
	}

	var options addOptions
	for _, opt := range opts {
		opt(&options)
	}

	priority := options.priority
	if !options.hasPriority {
		priority = s.layers[len(s.layers)-1].priority + 1
	}

	entry := &layerEntry{
		layer:    l,
		priority: priority,
		readOnly: options.readOnly,
	}
	if sp, ok := l.(layer.SourceProvider); ok {
		if pp, ok := sp.Source().(PathProvider); ok {
			entry.path = pp.Path()
		}
	}

	s.layers = append(s.layers, entry)
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].priority < s.layers[j].priority
	})
	return nil
}

func (s *Store) findLayerLocked(name layer.Name) *layerEntry {
	for _, entry := range s.layers {
		if entry.layer.Name() == name {
			return entry
		}
	}
	return nil
}

// Get returns the current settings snapshot.
func (s *Store) Get() Settings {
	return *s.resolved.Load()
}

// GetAt returns the resolved value at key. Registered keys come back in
// their normalized form (int, float64, bool or string).
func (s *Store) GetAt(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := jsonptr.Get(s.merged, key)
	if !ok {
		return nil, false
	}
	if e, err := LookupEntry(key); err == nil {
		if nv, err := e.Normalize(v); err == nil {
			return nv, true
		}
	}
	return layer.CloneValue(v), true
}

// Origin returns the name of the highest-priority layer that holds key.
func (s *Store) Origin(key string) (layer.Name, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.layers) - 1; i >= 0; i-- {
		entry := s.layers[i]
		if entry.data == nil {
			continue
		}
		if _, ok := jsonptr.Get(entry.data, key); ok {
			return entry.layer.Name(), true
		}
	}
	return "", false
}

// Entry returns the registry entry for key.
func (s *Store) Entry(key string) (Entry, error) {
	return LookupEntry(key)
}

// Subscribe registers fn to be called with the new settings after every
// change. The returned function unsubscribes and is safe to call twice.
func (s *Store) Subscribe(fn func(Settings)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Load loads every layer, discarding unsaved changes, and materializes the
// settings.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	for _, entry := range s.layers {
		data, err := entry.layer.Load(ctx)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to load layer %q: %w", entry.layer.Name(), err)
		}
		entry.data = data
		entry.changeset = nil
		entry.dirty = false
	}
	return s.commitLocked()
}

// Reload reloads every layer and replays unsaved changesets on top of the
// fresh data, so local edits survive external changes to the file.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	for _, entry := range s.layers {
		data, err := entry.layer.Load(ctx)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to load layer %q: %w", entry.layer.Name(), err)
		}
		entry.changeset.ApplyTo(data)
		entry.data = data
		entry.dirty = len(entry.changeset) > 0
	}
	return s.commitLocked()
}

// commitLocked materializes, releases the lock and notifies subscribers.
func (s *Store) commitLocked() error {
	current, subscribers, err := s.materializeLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, sub := range subscribers {
		sub.fn(current)
	}
	return nil
}

// Set writes value to the write layer.
func (s *Store) Set(key string, value any) error {
	return s.SetTo(s.writeLayer, key, value)
}

// SetTo writes value at key in the named layer. The change is kept in
// memory until Save.
func (s *Store) SetTo(layerName layer.Name, key string, value any) error {
	e, err := LookupEntry(key)
	if err != nil {
		return err
	}
	v, err := e.Normalize(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	entry, err := s.writableLocked(layerName)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := setLocked(entry, key, v); err != nil {
		s.mu.Unlock()
		return err
	}
	return s.commitLocked()
}

// SetMany validates every value first and then writes all of them to the
// write layer in sorted key order. Nothing is written if any value is
// rejected. Subscribers are notified once.
func (s *Store) SetMany(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	normalized := make([]any, len(keys))
	var errs []error
	for i, k := range keys {
		e, err := LookupEntry(k)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		v, err := e.Normalize(values[k])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		normalized[i] = v
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.mu.Lock()
	entry, err := s.writableLocked(s.writeLayer)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	for i, k := range keys {
		if err := setLocked(entry, k, normalized[i]); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	return s.commitLocked()
}

func (s *Store) writableLocked(name layer.Name) (*layerEntry, error) {
	entry := s.findLayerLocked(name)
	if entry == nil {
		return nil, fmt.Errorf("layer %q not found", name)
	}
	if !entry.Writable() {
		if entry.readOnly {
			return nil, fmt.Errorf("layer %q is marked as read-only", name)
		}
		return nil, fmt.Errorf("layer %q does not support saving (source is not writable)", name)
	}
	if entry.data == nil {
		return nil, fmt.Errorf("layer %q has not been loaded", name)
	}
	return entry, nil
}

func setLocked(entry *layerEntry, key string, value any) error {
	created, ok := jsonptr.Set(entry.data, key, value)
	if !ok {
		return fmt.Errorf("failed to set value at path %q", key)
	}
	if created {
		entry.changeset.Add(key, value)
	} else {
		entry.changeset.Replace(key, value)
	}
	entry.dirty = true
	return nil
}

// Save persists every dirty layer.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, entry := range s.layers {
		if !entry.dirty {
			continue
		}
		if err := saveLayerLocked(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveLayer persists one layer, dirty or not.
func (s *Store) SaveLayer(ctx context.Context, name layer.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.findLayerLocked(name)
	if entry == nil {
		return fmt.Errorf("layer %q not found", name)
	}
	return saveLayerLocked(ctx, entry)
}

func saveLayerLocked(ctx context.Context, entry *layerEntry) error {
	if !entry.layer.CanSave() {
		return fmt.Errorf("layer %q does not support saving", entry.layer.Name())
	}
	if entry.data == nil {
		return fmt.Errorf("layer %q has not been loaded", entry.layer.Name())
	}
	if err := entry.layer.Save(ctx, entry.changeset); err != nil {
		return fmt.Errorf("failed to save layer %q: %w", entry.layer.Name(), err)
	}
	entry.dirty = false
	entry.changeset = nil
	return nil
}

// IsDirty reports whether any layer has unsaved changes.
func (s *Store) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.layers {
		if entry.dirty {
			return true
		}
	}
	return false
}

// GetLayerInfo returns metadata about a layer, or nil if it is not registered.
func (s *Store) GetLayerInfo(name layer.Name) LayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entry := s.findLayerLocked(name); entry != nil {
		return entry
	}
	return nil
}

// ListLayers returns metadata about all layers, lowest priority first.
func (s *Store) ListLayers() []LayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]LayerInfo, len(s.layers))
	for i, entry := range s.layers {
		result[i] = entry
	}
	return result
}
