package zoomtest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/yacchi/zoomify/source"
)

// MemSource is an in-memory source supporting Load, Save and Subscribe.
// Write replaces the data as an external editor would and notifies
// subscribers.
type MemSource struct {
	mu        sync.Mutex
	data      []byte
	exists    bool
	saves     int
	listeners map[int]source.NotifyFunc
	nextID    int
}

var (
	_ source.Source     = (*MemSource)(nil)
	_ source.Prober     = (*MemSource)(nil)
	_ source.Subscriber = (*MemSource)(nil)
)

// NewMemSource creates a MemSource holding data. A nil slice makes the
// source report that nothing exists yet.
func NewMemSource(data []byte) *MemSource {
	return &MemSource{
		data:      append([]byte(nil), data...),
		exists:    data != nil,
		listeners: make(map[int]source.NotifyFunc),
	}
}

// Load returns a copy of the current data.
func (s *MemSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...), nil
}

// Save applies updateFunc to the current data.
func (s *MemSource) Save(ctx context.Context, updateFunc source.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := updateFunc(append([]byte(nil), s.data...))
	if err != nil {
		return err
	}
	s.data = next
	s.exists = true
	s.saves++
	return nil
}

// CanSave returns true.
func (s *MemSource) CanSave() bool {
	return true
}

// Exists reports whether the source has been given data.
func (s *MemSource) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists
}

// Saves returns how many times Save succeeded.
func (s *MemSource) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Bytes returns a copy of the current data.
func (s *MemSource) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// Write replaces the data and notifies subscribers.
func (s *MemSource) Write(data []byte) {
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	s.exists = true
	listeners := make([]source.NotifyFunc, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
}

// Subscribe registers notify until the returned StopFunc is called or ctx
// is done.
func (s *MemSource) Subscribe(ctx context.Context, notify source.NotifyFunc) (source.StopFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = notify
	s.mu.Unlock()

	var once sync.Once
	stop := func() error {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
		return nil
	}
	go func() {
		<-ctx.Done()
		_ = stop()
	}()
	return stop, nil
}

// SourceFactory creates a Source initialized with the given test data.
// The factory is called for each test case to ensure test isolation.
type SourceFactory func(data []byte) source.Source

// SourceTester verifies Source implementations.
type SourceTester struct {
	t       *testing.T
	factory SourceFactory
}

// NewSourceTester creates a SourceTester for the given SourceFactory.
func NewSourceTester(t *testing.T, factory SourceFactory) *SourceTester {
	return &SourceTester{t: t, factory: factory}
}

// TestAll runs all compliance tests.
func (st *SourceTester) TestAll() {
	st.t.Run("Load", st.testLoad)
	st.t.Run("LoadCanceled", st.testLoadCanceled)
	st.t.Run("CanSave", st.testCanSave)
	st.t.Run("Prober", st.testProber)
}

func (st *SourceTester) testLoad(t *testing.T) {
	want := []byte(`{"initialZoom": 4}`)
	s := st.factory(want)

	data, err := s.Load(context.Background())
	requireNoError(t, err, "Load() error = %v", err)
	require(t, string(data) == string(want), "Load() = %q, want %q", data, want)

	// Callers may modify what they get back.
	if len(data) > 0 {
		data[0] = 'X'
	}
	again, err := s.Load(context.Background())
	requireNoError(t, err, "second Load() error = %v", err)
	check(t, string(again) == string(want), "Load() returned shared buffer: %q", again)
}

func (st *SourceTester) testLoadCanceled(t *testing.T) {
	s := st.factory([]byte(`{}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx)
	check(t, errors.Is(err, context.Canceled), "Load() with canceled ctx error = %v, want context.Canceled", err)
}

func (st *SourceTester) testCanSave(t *testing.T) {
	s := st.factory([]byte(`{"initialZoom": 4}`))

	err := s.Save(context.Background(), func(current []byte) ([]byte, error) {
		return []byte(`{"initialZoom": 6}`), nil
	})
	if !s.CanSave() {
		check(t, errors.Is(err, source.ErrSaveNotSupported),
			"CanSave() returned false but Save() error = %v", err)
		return
	}
	requireNoError(t, err, "Save() error = %v", err)

	data, err := s.Load(context.Background())
	requireNoError(t, err, "Load() after Save() error = %v", err)
	check(t, string(data) == `{"initialZoom": 6}`, "Load() after Save() = %q", data)

	boom := errors.New("boom")
	err = s.Save(context.Background(), func([]byte) ([]byte, error) { return nil, boom })
	check(t, errors.Is(err, boom), "Save() should return the update error, got %v", err)
}

func (st *SourceTester) testProber(t *testing.T) {
	s := st.factory([]byte(`{}`))
	p, ok := s.(source.Prober)
	if !ok {
		t.Skip("source does not implement Prober")
	}
	check(t, p.Exists(), "Exists() = false for a source with data")
}
