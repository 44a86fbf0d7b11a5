package zoomify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yacchi/zoomify/layer"
	"github.com/yacchi/zoomify/source"
)

// ErrWatchNotSupported is returned by Watch for layers whose source cannot
// report changes.
var ErrWatchNotSupported = errors.New("layer source does not support watching")

// WatchConfig configures Watch.
type WatchConfig struct {
	// DebounceDelay batches rapid successive changes into a single reload.
	// Default: 100ms
	DebounceDelay time.Duration

	// OnError is called when watching or reloading fails.
	// If nil, errors are ignored.
	OnError func(name layer.Name, err error)

	// OnReload is called after each successful reload, after subscribers.
	OnReload func()
}

// DefaultWatchConfig returns the default watch configuration.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{DebounceDelay: 100 * time.Millisecond}
}

// Watch reloads the named layer whenever its source reports a change and
// notifies subscribers. Unsaved changes to the layer are replayed on top of
// the new data. Call Load before Watch.
//
//	stop, err := store.Watch(ctx, zoomify.LayerUser, zoomify.DefaultWatchConfig())
//	if err != nil {
//		return err
//	}
//	defer stop()
func (s *Store) Watch(ctx context.Context, name layer.Name, cfg WatchConfig) (stop func() error, err error) {
	s.mu.RLock()
	entry := s.findLayerLocked(name)
	s.mu.RUnlock()
	if entry == nil {
		return nil, fmt.Errorf("layer %q not found", name)
	}

	sp, ok := entry.layer.(layer.SourceProvider)
	if !ok {
		return nil, fmt.Errorf("layer %q: %w", name, ErrWatchNotSupported)
	}
	sub, ok := sp.Source().(source.Subscriber)
	if !ok {
		return nil, fmt.Errorf("layer %q: %w", name, ErrWatchNotSupported)
	}

	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultWatchConfig().DebounceDelay
	}

	watchCtx, cancel := context.WithCancel(ctx)
	changed := make(chan struct{}, 1)

	unsubscribe, err := sub.Subscribe(watchCtx, func(err error) {
		if err != nil {
			if cfg.OnError != nil {
				cfg.OnError(name, err)
			}
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch layer %q: %w", name, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.watchLoop(watchCtx, entry, changed, cfg)
	}()

	return func() error {
		cancel()
		err := unsubscribe()
		<-done
		return err
	}, nil
}

// watchLoop debounces change signals and reloads the layer.
func (s *Store) watchLoop(ctx context.Context, entry *layerEntry, changed <-chan struct{}, cfg WatchConfig) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			if timer == nil {
				timer = time.NewTimer(cfg.DebounceDelay)
			} else {
				timer.Reset(cfg.DebounceDelay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := s.reloadLayer(ctx, entry); err != nil {
				if cfg.OnError != nil {
					cfg.OnError(entry.layer.Name(), err)
				}
				continue
			}
			if cfg.OnReload != nil {
				cfg.OnReload()
			}
		}
	}
}

// reloadLayer loads fresh data for one layer, replays its unsaved
// changeset and re-materializes.
func (s *Store) reloadLayer(ctx context.Context, entry *layerEntry) error {
	data, err := entry.layer.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload layer %q: %w", entry.layer.Name(), err)
	}

	s.mu.Lock()
	entry.changeset.ApplyTo(data)
	entry.data = data
	entry.dirty = len(entry.changeset) > 0
	return s.commitLocked()
}
