package zoomtest

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// OkZoomerConfig returns a complete Ok Zoomer config, as written by the
// mod on first launch, in nested map form.
func OkZoomerConfig() map[string]any {
	return map[string]any{
		"features": map[string]any{
			"cinematic_camera":    "OFF",
			"reduce_sensitivity":  true,
			"zoom_transition":     "SMOOTH",
			"zoom_mode":           "HOLD",
			"zoom_scrolling":      true,
			"extra_key_binds":     true,
			"zoom_overlay":        "OFF",
			"spyglass_dependency": "OFF",
		},
		"values": map[string]any{
			"zoom_divisor":         4.0,
			"minimum_zoom_divisor": 1.0,
			"maximum_zoom_divisor": 50.0,
			"upper_scroll_steps":   20,
			"lower_scroll_steps":   4,
			"smooth_multiplier":    0.75,
			"cinematic_multiplier": 4.0,
			"minimum_linear_step":  0.125,
			"maximum_linear_step":  0.25,
		},
		"tweaks": map[string]any{
			"reset_zoom_with_mouse":  true,
			"forget_zoom_divisor":    true,
			"unbind_conflicting_key": false,
			"use_spyglass_texture":   false,
			"use_spyglass_sounds":    false,
		},
	}
}

// LegacyOption edits a legacy config map before it is encoded.
type LegacyOption func(cfg map[string]any)

// WithLegacy sets group.key to value.
func WithLegacy(group, key string, value any) LegacyOption {
	return func(cfg map[string]any) {
		g, ok := cfg[group].(map[string]any)
		if !ok {
			g = map[string]any{}
			cfg[group] = g
		}
		g[key] = value
	}
}

// WithoutLegacy removes group.key, or the whole group when key is empty.
func WithoutLegacy(group, key string) LegacyOption {
	return func(cfg map[string]any) {
		if key == "" {
			delete(cfg, group)
			return
		}
		if g, ok := cfg[group].(map[string]any); ok {
			delete(g, key)
		}
	}
}

// OkZoomerTOML encodes OkZoomerConfig with opts applied.
func OkZoomerTOML(t testT, opts ...LegacyOption) []byte {
	t.Helper()
	cfg := OkZoomerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	data, err := toml.Marshal(cfg)
	requireNoError(t, err, "toml.Marshal() error = %v", err)
	return data
}

// WriteOkZoomerConfig writes data to <configDir>/ok_zoomer/config.toml and
// returns the path.
func WriteOkZoomerConfig(t testT, configDir string, data []byte) string {
	t.Helper()
	dir := filepath.Join(configDir, "ok_zoomer")
	err := os.MkdirAll(dir, 0o755)
	requireNoError(t, err, "MkdirAll() error = %v", err)
	path := filepath.Join(dir, "config.toml")
	err = os.WriteFile(path, data, 0o644)
	requireNoError(t, err, "WriteFile() error = %v", err)
	return path
}
