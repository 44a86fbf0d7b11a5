package zoomify

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/yacchi/zoomify/jsonptr"
)

// ErrUnknownKey is returned for keys that are not in the entry registry.
var ErrUnknownKey = errors.New("unknown setting")

// Kind is the value type of a setting.
type Kind int

const (
	KindInt Kind = iota + 1
	KindFloat
	KindBool
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Entry describes one setting.
type Entry struct {
	Key     string
	Kind    Kind
	Default any

	// Values lists the accepted names of an enum entry.
	Values []string

	// Min and Max are the settings screen's slider bounds when HasRange is set.
	Min, Max float64
	HasRange bool

	// RestartRequired marks settings that only apply after the game restarts.
	RestartRequired bool
}

// ValueError is returned when a value does not fit an entry.
type ValueError struct {
	Key    string
	Value  any
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %v for %s: %s", e.Value, e.Key, e.Reason)
}

func intEntry(key string, def int, lo, hi float64) Entry {
	return Entry{Key: key, Kind: KindInt, Default: def, Min: lo, Max: hi, HasRange: true}
}

func floatEntry(key string, def, lo, hi float64) Entry {
	return Entry{Key: key, Kind: KindFloat, Default: def, Min: lo, Max: hi, HasRange: true}
}

func boolEntry(key string, def bool) Entry {
	return Entry{Key: key, Kind: KindBool, Default: def}
}

func enumEntry(key, def string, values []string) Entry {
	return Entry{Key: key, Kind: KindEnum, Default: def, Values: values}
}

var registry = []Entry{
	intEntry(KeyInitialZoom, 4, 1, 10),
	floatEntry(KeyZoomInTime, 1.0, 0.1, 5.0),
	floatEntry(KeyZoomOutTime, 0.5, 0.1, 5.0),
	enumEntry(KeyZoomInTransition, string(TransitionEaseOutExp), enumStrings(TransitionTypes...)),
	enumEntry(KeyZoomOutTransition, string(TransitionEaseOutExp), enumStrings(TransitionTypes...)),
	boolEntry(KeyAffectHandFov, true),
	boolEntry(KeyRetainZoomSteps, false),
	boolEntry(KeyLinearLikeSteps, true),
	boolEntry(KeyScrollZoom, true),
	intEntry(KeyScrollZoomAmount, 3, 1, 10),
	intEntry(KeyScrollZoomSmoothness, 70, 0, 100),
	enumEntry(KeyZoomKeyBehaviour, string(ZoomKeyHold), enumStrings(ZoomKeyHold, ZoomKeyToggle)),
	{Key: KeyKeybindScrolling, Kind: KindBool, Default: false, RestartRequired: true},
	intEntry(KeyRelativeSensitivity, 100, 0, 150),
	boolEntry(KeyRelativeViewBobbing, true),
	intEntry(KeyCinematicCamera, 0, 0, 250),
	enumEntry(KeySpyglassBehaviour, string(SpyglassCombine), enumStrings(
		SpyglassCombine, SpyglassOverride, SpyglassOnlyZoomWhileHolding, SpyglassOnlyZoomWhileCarrying)),
	enumEntry(KeySpyglassOverlayVisibility, string(OverlayHolding), enumStrings(
		OverlayNever, OverlayAlways, OverlayHolding, OverlayCarrying)),
	enumEntry(KeySpyglassSoundBehaviour, string(SoundWithOverlay), enumStrings(
		SoundNever, SoundAlways, SoundWithOverlay, SoundOnlySpyglass)),
	intEntry(KeySecondaryZoomAmount, 4, 2, 10),
	floatEntry(KeySecondaryZoomInTime, 10.0, 6.0, 30.0),
	floatEntry(KeySecondaryZoomOutTime, 1.0, 0.0, 5.0),
	boolEntry(KeySecondaryHideHUDOnZoom, true),
}

var registryIndex = func() map[string]int {
	idx := make(map[string]int, len(registry))
	for i, e := range registry {
		idx[e.Key] = i
	}
	return idx
}()

// Entries returns every registered entry in display order.
func Entries() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry)
	return out
}

// LookupEntry returns the entry for key.
func LookupEntry(key string) (Entry, error) {
	i, ok := registryIndex[key]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return registry[i], nil
}

// DefaultValues returns the defaults as a settings document map.
func DefaultValues() map[string]any {
	out := make(map[string]any, len(registry))
	for _, e := range registry {
		jsonptr.Set(out, e.Key, e.Default)
	}
	return out
}

// Normalize checks v against the entry and converts it to the stored
// representation: int, float64, bool, or the enum name as a plain string.
func (e Entry) Normalize(v any) (any, error) {
	if v == nil {
		return nil, &ValueError{Key: e.Key, Value: v, Reason: "value is nil"}
	}
	rv := reflect.ValueOf(v)

	switch e.Kind {
	case KindInt:
		switch {
		case rv.CanInt():
			return int(rv.Int()), nil
		case rv.CanUint():
			return int(rv.Uint()), nil
		case rv.CanFloat():
			f := rv.Float()
			if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
				return nil, &ValueError{Key: e.Key, Value: v, Reason: "not an integer"}
			}
			return int(f), nil
		}
		return nil, &ValueError{Key: e.Key, Value: v, Reason: "expected an integer"}

	case KindFloat:
		f, ok := toFloat(rv)
		if !ok {
			return nil, &ValueError{Key: e.Key, Value: v, Reason: "expected a number"}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &ValueError{Key: e.Key, Value: v, Reason: "not a finite number"}
		}
		return f, nil

	case KindBool:
		if rv.Kind() != reflect.Bool {
			return nil, &ValueError{Key: e.Key, Value: v, Reason: "expected a boolean"}
		}
		return rv.Bool(), nil

	case KindEnum:
		if rv.Kind() != reflect.String {
			return nil, &ValueError{Key: e.Key, Value: v, Reason: "expected an enum name"}
		}
		s := rv.String()
		for _, allowed := range e.Values {
			if s == allowed {
				return s, nil
			}
		}
		return nil, &ValueError{Key: e.Key, Value: v, Reason: "must be one of " + strings.Join(e.Values, ", ")}
	}
	return nil, &ValueError{Key: e.Key, Value: v, Reason: "unsupported kind " + e.Kind.String()}
}

// CheckRange reports whether a numeric value lies outside the entry's range.
// Non-numeric values and entries without a range always pass.
func (e Entry) CheckRange(v any) error {
	if !e.HasRange || v == nil {
		return nil
	}
	f, ok := toFloat(reflect.ValueOf(v))
	if !ok {
		return nil
	}
	if f < e.Min || f > e.Max {
		return rangeError(e.Key, v, e.Min, e.Max)
	}
	return nil
}

// Parse converts command-line text into a normalized value.
// Enum names are matched case-insensitively.
func (e Entry) Parse(s string) (any, error) {
	s = strings.TrimSpace(s)
	var (
		v   any
		err error
	)
	switch e.Kind {
	case KindInt:
		v, err = strconv.Atoi(s)
	case KindFloat:
		v, err = strconv.ParseFloat(s, 64)
	case KindBool:
		v, err = strconv.ParseBool(s)
	default:
		v = strings.ToUpper(s)
	}
	if err != nil {
		return nil, &ValueError{Key: e.Key, Value: s, Reason: err.Error()}
	}
	return e.Normalize(v)
}

func toFloat(rv reflect.Value) (float64, bool) {
	switch {
	case rv.CanInt():
		return float64(rv.Int()), true
	case rv.CanUint():
		return float64(rv.Uint()), true
	case rv.CanFloat():
		return rv.Float(), true
	}
	return 0, false
}
