package zoomify

import (
	"fmt"
	"strings"
)

// Preset is a named bundle of settings that mimics another zoom mod.
type Preset string

const (
	PresetDefault  Preset = "DEFAULT"
	PresetOptifine Preset = "OPTIFINE"
	PresetOkZoomer Preset = "OK_ZOOMER"
	PresetSpyglass Preset = "SPYGLASS"
)

// Presets lists every preset in display order.
var Presets = []Preset{PresetDefault, PresetOptifine, PresetOkZoomer, PresetSpyglass}

var presetOverrides = map[Preset]map[string]any{
	PresetDefault: {},
	PresetOptifine: {
		KeyInitialZoom:         4,
		KeyZoomInTransition:    string(TransitionInstant),
		KeyZoomOutTransition:   string(TransitionInstant),
		KeyScrollZoom:          false,
		KeyAffectHandFov:       false,
		KeyCinematicCamera:     100,
		KeyRelativeViewBobbing: false,
	},
	PresetOkZoomer: {
		KeyInitialZoom:       4,
		KeyZoomInTime:        1.0,
		KeyZoomOutTime:       1.0,
		KeyZoomInTransition:  string(TransitionEaseInExp),
		KeyZoomOutTransition: string(TransitionEaseInExp),
		KeyScrollZoomAmount:  2,
		KeyLinearLikeSteps:   false,
		KeyRetainZoomSteps:   false,
	},
	PresetSpyglass: {
		KeyInitialZoom:               10,
		KeyZoomInTransition:          string(TransitionInstant),
		KeyZoomOutTransition:         string(TransitionInstant),
		KeyScrollZoom:                false,
		KeySpyglassBehaviour:         string(SpyglassOnlyZoomWhileHolding),
		KeySpyglassOverlayVisibility: string(OverlayHolding),
		KeySpyglassSoundBehaviour:    string(SoundAlways),
	},
}

// ParsePreset matches name against the presets, ignoring case.
func ParsePreset(name string) (Preset, error) {
	p := Preset(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := presetOverrides[p]; !ok {
		return "", fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// Values returns every setting the preset writes: the defaults with the
// preset's overrides on top.
func (p Preset) Values() map[string]any {
	out := make(map[string]any, len(registry))
	for _, e := range registry {
		out[e.Key] = e.Default
	}
	for k, v := range presetOverrides[p] {
		out[k] = v
	}
	return out
}

// BatchSetter writes several settings at once.
type BatchSetter interface {
	SetMany(values map[string]any) error
}

// ApplyPreset writes every value of p to dst in one batch.
func ApplyPreset(dst BatchSetter, p Preset) error {
	if _, ok := presetOverrides[p]; !ok {
		return fmt.Errorf("unknown preset %q", p)
	}
	return dst.SetMany(p.Values())
}
