package zoomify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yacchi/zoomify/format/jsonc"
	"github.com/yacchi/zoomify/layer"
	"github.com/yacchi/zoomify/layer/mapdata"
	"github.com/yacchi/zoomify/zoomtest"
)

func TestStore_Watch(t *testing.T) {
	src := zoomtest.NewMemSource([]byte(`{"initialZoom": 4}`))
	s := New()
	if err := s.Add(layer.New(LayerUser, src, jsonc.New()), WithPriority(PriorityUser)); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	updates := make(chan Settings, 4)
	unsubscribe := s.Subscribe(func(cfg Settings) { updates <- cfg })
	defer unsubscribe()

	reloaded := make(chan struct{}, 4)
	stop, err := s.Watch(context.Background(), LayerUser, WatchConfig{
		DebounceDelay: 10 * time.Millisecond,
		OnReload:      func() { reloaded <- struct{}{} },
		OnError:       func(name layer.Name, err error) { t.Errorf("watch error on %s: %v", name, err) },
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer stop()

	src.Write([]byte(`{"initialZoom": 4}`))
	src.Write([]byte(`{"initialZoom": 7}`))

	select {
	case cfg := <-updates:
		if cfg.InitialZoom != 7 {
			t.Errorf("subscriber saw InitialZoom = %d, want 7", cfg.InitialZoom)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reload after external write")
	}
	<-reloaded

	if err := stop(); err != nil {
		t.Errorf("stop() error = %v", err)
	}
}

func TestStore_WatchErrors(t *testing.T) {
	s := New()
	if err := s.Add(mapdata.New(LayerUser, nil)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Watch(context.Background(), "missing", DefaultWatchConfig()); err == nil {
		t.Error("Watch(missing) should fail")
	}
	_, err := s.Watch(context.Background(), LayerUser, DefaultWatchConfig())
	if !errors.Is(err, ErrWatchNotSupported) {
		t.Errorf("Watch(mapdata) error = %v, want ErrWatchNotSupported", err)
	}
}
