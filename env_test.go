package zoomify

import (
	"context"
	"path/filepath"
	"testing"
)

func TestEnvKey(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"INITIAL_ZOOM", KeyInitialZoom, true},
		{"INITIALZOOM", KeyInitialZoom, true},
		{"spyglass_overlay_visibility", KeySpyglassOverlayVisibility, true},
		{"SECONDARY_HIDE_HUD_ON_ZOOM", KeySecondaryHideHUDOnZoom, true},
		{"FOV", "", false},
	}
	for _, tt := range tests {
		got, ok := envKey(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("envKey(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestOpen_EnvOverrides(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "zoomify.json")
	t.Setenv("ZOOMIFY_TEST_INITIAL_ZOOM", "7")
	t.Setenv("ZOOMIFY_TEST_ZOOM_KEY_BEHAVIOUR", "toggle")
	t.Setenv("ZOOMIFY_TEST_UNKNOWN", "1")

	s, err := Open(ctx, path, WithEnvOverrides("ZOOMIFY_TEST_"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got := s.Get()
	if got.InitialZoom != 7 || got.ZoomKeyBehaviour != ZoomKeyToggle {
		t.Errorf("InitialZoom, ZoomKeyBehaviour = %d, %s, want 7, TOGGLE", got.InitialZoom, got.ZoomKeyBehaviour)
	}
	if origin, _ := s.Origin(KeyInitialZoom); origin != LayerEnv {
		t.Errorf("Origin(initialZoom) = %q, want env", origin)
	}
	info := s.GetLayerInfo(LayerEnv)
	if info == nil || !info.ReadOnly() || info.Priority() != PriorityEnv {
		t.Errorf("env layer info = %+v", info)
	}

	// Writes land in the file but the override still wins.
	if err := s.Set(KeyInitialZoom, 2); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if s.Get().InitialZoom != 7 {
		t.Errorf("InitialZoom = %d after Set, want override 7", s.Get().InitialZoom)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	plain, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if plain.Get().InitialZoom != 2 {
		t.Errorf("saved InitialZoom = %d, want 2", plain.Get().InitialZoom)
	}
}

func TestOpen_EnvOverrideInvalid(t *testing.T) {
	t.Setenv("ZOOMIFY_TEST_INITIAL_ZOOM", "close")
	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "zoomify.json"), WithEnvOverrides("ZOOMIFY_TEST_")); err == nil {
		t.Error("Open() should fail on an unparsable override")
	}
}
