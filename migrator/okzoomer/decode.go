package okzoomer

import (
	"errors"
	"fmt"
	"math"
)

// ErrDecode marks failures to read or decode the legacy config. Nothing is
// migrated when it occurs.
var ErrDecode = errors.New("cannot decode Ok Zoomer config")

// DecodeError describes the first problem found in the legacy config.
type DecodeError struct {
	// Path is the dotted TOML path, e.g. "values.zoom_divisor".
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrDecode, e.Path, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// Decode builds a Config from a parsed TOML document. Every field is
// required and enums must match exactly; unknown keys are ignored. Numbers
// may be written as TOML integers or floats.
func Decode(data map[string]any) (Config, error) {
	var (
		d   decoder
		cfg Config
	)

	f := d.table(data, "features")
	cfg.Features = Features{
		CinematicCamera:    enumField(&d, f, "cinematic_camera", cinematicCameraStates),
		ReduceSensitivity:  d.boolean(f, "reduce_sensitivity"),
		ZoomTransition:     enumField(&d, f, "zoom_transition", transitionModes),
		ZoomMode:           enumField(&d, f, "zoom_mode", zoomModes),
		ZoomScrolling:      d.boolean(f, "zoom_scrolling"),
		ExtraKeyBinds:      d.boolean(f, "extra_key_binds"),
		ZoomOverlay:        enumField(&d, f, "zoom_overlay", overlays),
		SpyglassDependency: enumField(&d, f, "spyglass_dependency", spyglassDependencies),
	}

	v := d.table(data, "values")
	cfg.Values = Values{
		ZoomDivisor:         d.float(v, "zoom_divisor"),
		MinimumZoomDivisor:  d.float(v, "minimum_zoom_divisor"),
		MaximumZoomDivisor:  d.float(v, "maximum_zoom_divisor"),
		UpperScrollSteps:    d.integer(v, "upper_scroll_steps"),
		LowerScrollSteps:    d.integer(v, "lower_scroll_steps"),
		SmoothMultiplier:    d.float(v, "smooth_multiplier"),
		CinematicMultiplier: d.float(v, "cinematic_multiplier"),
		MinimumLinearStep:   d.float(v, "minimum_linear_step"),
		MaximumLinearStep:   d.float(v, "maximum_linear_step"),
	}

	t := d.table(data, "tweaks")
	cfg.Tweaks = Tweaks{
		ResetZoomWithMouse:   d.boolean(t, "reset_zoom_with_mouse"),
		ForgetZoomDivisor:    d.boolean(t, "forget_zoom_divisor"),
		UnbindConflictingKey: d.boolean(t, "unbind_conflicting_key"),
		UseSpyglassTexture:   d.boolean(t, "use_spyglass_texture"),
		UseSpyglassSounds:    d.boolean(t, "use_spyglass_sounds"),
	}

	if d.err != nil {
		return Config{}, d.err
	}
	return cfg, nil
}

// table is a TOML table together with its dotted name.
type table struct {
	name string
	m    map[string]any
}

// decoder keeps the first error; later lookups become no-ops.
type decoder struct {
	err error
}

func (d *decoder) fail(path, reason string) {
	if d.err == nil {
		d.err = &DecodeError{Path: path, Reason: reason}
	}
}

// fieldVal returns m[key] as T. ok is false when the key is missing or has
// another type; err is set only in the second case.
func fieldVal[T any](m map[string]any, key string) (v T, ok bool, err error) {
	raw, ok := m[key]
	if !ok {
		return v, false, nil
	}
	v, ok = raw.(T)
	if !ok {
		return v, false, fmt.Errorf("unexpected type %T", raw)
	}
	return v, true, nil
}

func (d *decoder) table(data map[string]any, name string) table {
	t := table{name: name}
	if d.err != nil {
		return t
	}
	m, ok, err := fieldVal[map[string]any](data, name)
	switch {
	case err != nil:
		d.fail(name, "expected a table: "+err.Error())
	case !ok:
		d.fail(name, "missing table")
	default:
		t.m = m
	}
	return t
}

// raw returns the value at key or records a missing-field error.
func (d *decoder) raw(t table, key string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	v, ok := t.m[key]
	if !ok {
		d.fail(t.name+"."+key, "missing field")
	}
	return v, ok
}

func (d *decoder) boolean(t table, key string) bool {
	if _, ok := d.raw(t, key); !ok {
		return false
	}
	v, _, err := fieldVal[bool](t.m, key)
	if err != nil {
		d.fail(t.name+"."+key, "expected a boolean: "+err.Error())
	}
	return v
}

func (d *decoder) float(t table, key string) float64 {
	raw, ok := d.raw(t, key)
	if !ok {
		return 0
	}
	switch n := raw.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	d.fail(t.name+"."+key, fmt.Sprintf("expected a number: unexpected type %T", raw))
	return 0
}

func (d *decoder) integer(t table, key string) int64 {
	raw, ok := d.raw(t, key)
	if !ok {
		return 0
	}
	switch n := raw.(type) {
	case int64:
		return n
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int64(n)
		}
		d.fail(t.name+"."+key, fmt.Sprintf("expected an integer, got %v", n))
		return 0
	}
	d.fail(t.name+"."+key, fmt.Sprintf("expected an integer: unexpected type %T", raw))
	return 0
}

func enumField[T ~string](d *decoder, t table, key string, values []T) T {
	if _, ok := d.raw(t, key); !ok {
		return ""
	}
	s, _, err := fieldVal[string](t.m, key)
	if err != nil {
		d.fail(t.name+"."+key, "expected a string: "+err.Error())
		return ""
	}
	for _, v := range values {
		if string(v) == s {
			return v
		}
	}
	d.fail(t.name+"."+key, fmt.Sprintf("unknown value %q", s))
	return ""
}
