package okzoomer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yacchi/zoomify/format/toml"
	"github.com/yacchi/zoomify/zoomtest"
)

func parseLegacy(t *testing.T, opts ...zoomtest.LegacyOption) map[string]any {
	t.Helper()
	data, err := toml.New().Get(zoomtest.OkZoomerTOML(t, opts...))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	return data
}

func TestDecode(t *testing.T) {
	got, err := Decode(parseLegacy(t))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := Config{
		Features: Features{
			CinematicCamera:    CinematicOff,
			ReduceSensitivity:  true,
			ZoomTransition:     TransitionSmooth,
			ZoomMode:           ZoomHold,
			ZoomScrolling:      true,
			ExtraKeyBinds:      true,
			ZoomOverlay:        OverlayOff,
			SpyglassDependency: SpyglassOff,
		},
		Values: Values{
			ZoomDivisor:         4,
			MinimumZoomDivisor:  1,
			MaximumZoomDivisor:  50,
			UpperScrollSteps:    20,
			LowerScrollSteps:    4,
			SmoothMultiplier:    0.75,
			CinematicMultiplier: 4,
			MinimumLinearStep:   0.125,
			MaximumLinearStep:   0.25,
		},
		Tweaks: Tweaks{
			ResetZoomWithMouse: true,
			ForgetZoomDivisor:  true,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_NumberForms(t *testing.T) {
	got, err := Decode(parseLegacy(t,
		zoomtest.WithLegacy("values", "zoom_divisor", 6),
		zoomtest.WithLegacy("values", "upper_scroll_steps", 10.0),
	))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Values.ZoomDivisor != 6 {
		t.Errorf("ZoomDivisor = %v, want 6", got.Values.ZoomDivisor)
	}
	if got.Values.UpperScrollSteps != 10 {
		t.Errorf("UpperScrollSteps = %v, want 10", got.Values.UpperScrollSteps)
	}
}

func TestDecode_IgnoresUnknownKeys(t *testing.T) {
	_, err := Decode(parseLegacy(t,
		zoomtest.WithLegacy("features", "future_flag", true),
		zoomtest.WithLegacy("extras", "anything", "x"),
	))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		opts     []zoomtest.LegacyOption
		wantPath string
	}{
		{
			name:     "missing table",
			opts:     []zoomtest.LegacyOption{zoomtest.WithoutLegacy("tweaks", "")},
			wantPath: "tweaks",
		},
		{
			name:     "table of wrong type",
			opts:     []zoomtest.LegacyOption{zoomtest.WithoutLegacy("values", ""), withRaw("values", "none")},
			wantPath: "values",
		},
		{
			name:     "missing field",
			opts:     []zoomtest.LegacyOption{zoomtest.WithoutLegacy("values", "smooth_multiplier")},
			wantPath: "values.smooth_multiplier",
		},
		{
			name:     "unknown enum value",
			opts:     []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "zoom_mode", "SOMETIMES")},
			wantPath: "features.zoom_mode",
		},
		{
			name:     "enum is case sensitive",
			opts:     []zoomtest.LegacyOption{zoomtest.WithLegacy("features", "zoom_overlay", "spyglass")},
			wantPath: "features.zoom_overlay",
		},
		{
			name:     "bool of wrong type",
			opts:     []zoomtest.LegacyOption{zoomtest.WithLegacy("tweaks", "forget_zoom_divisor", "yes")},
			wantPath: "tweaks.forget_zoom_divisor",
		},
		{
			name:     "number of wrong type",
			opts:     []zoomtest.LegacyOption{zoomtest.WithLegacy("values", "zoom_divisor", "4")},
			wantPath: "values.zoom_divisor",
		},
		{
			name:     "fractional integer",
			opts:     []zoomtest.LegacyOption{zoomtest.WithLegacy("values", "lower_scroll_steps", 2.5)},
			wantPath: "values.lower_scroll_steps",
		},
		{
			name: "first error wins",
			opts: []zoomtest.LegacyOption{
				zoomtest.WithoutLegacy("features", "cinematic_camera"),
				zoomtest.WithoutLegacy("tweaks", "use_spyglass_sounds"),
			},
			wantPath: "features.cinematic_camera",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(parseLegacy(t, tt.opts...))
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Decode() error = %v, want ErrDecode", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Decode() error = %T, want *DecodeError", err)
			}
			if de.Path != tt.wantPath {
				t.Errorf("DecodeError.Path = %q, want %q", de.Path, tt.wantPath)
			}
			if diff := cmp.Diff(Config{}, got); diff != "" {
				t.Errorf("Decode() returned partial config:\n%s", diff)
			}
		})
	}
}

func withRaw(key string, value any) zoomtest.LegacyOption {
	return func(cfg map[string]any) {
		cfg[key] = value
	}
}
