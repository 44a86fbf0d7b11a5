package zoomify

import (
	"errors"
	"fmt"
)

// Setting keys.
const (
	KeyInitialZoom               = "/initialZoom"
	KeyZoomInTime                = "/zoomInTime"
	KeyZoomOutTime               = "/zoomOutTime"
	KeyZoomInTransition          = "/zoomInTransition"
	KeyZoomOutTransition         = "/zoomOutTransition"
	KeyAffectHandFov             = "/affectHandFov"
	KeyRetainZoomSteps           = "/retainZoomSteps"
	KeyLinearLikeSteps           = "/linearLikeSteps"
	KeyScrollZoom                = "/scrollZoom"
	KeyScrollZoomAmount          = "/scrollZoomAmount"
	KeyScrollZoomSmoothness      = "/scrollZoomSmoothness"
	KeyZoomKeyBehaviour          = "/zoomKeyBehaviour"
	KeyKeybindScrolling          = "/keybindScrolling"
	KeyRelativeSensitivity       = "/relativeSensitivity"
	KeyRelativeViewBobbing       = "/relativeViewBobbing"
	KeyCinematicCamera           = "/cinematicCamera"
	KeySpyglassBehaviour         = "/spyglassBehaviour"
	KeySpyglassOverlayVisibility = "/spyglassOverlayVisibility"
	KeySpyglassSoundBehaviour    = "/spyglassSoundBehaviour"
	KeySecondaryZoomAmount       = "/secondaryZoomAmount"
	KeySecondaryZoomInTime       = "/secondaryZoomInTime"
	KeySecondaryZoomOutTime      = "/secondaryZoomOutTime"
	KeySecondaryHideHUDOnZoom    = "/secondaryHideHUDOnZoom"
)

// MaxScrollTiers is the number of scroll steps available above the initial
// zoom level.
const MaxScrollTiers = 10

// TransitionType is the easing curve used when zooming in or out.
type TransitionType string

const (
	TransitionInstant        TransitionType = "INSTANT"
	TransitionLinear         TransitionType = "LINEAR"
	TransitionEaseInSine     TransitionType = "EASE_IN_SINE"
	TransitionEaseOutSine    TransitionType = "EASE_OUT_SINE"
	TransitionEaseInOutSine  TransitionType = "EASE_IN_OUT_SINE"
	TransitionEaseInQuad     TransitionType = "EASE_IN_QUAD"
	TransitionEaseOutQuad    TransitionType = "EASE_OUT_QUAD"
	TransitionEaseInOutQuad  TransitionType = "EASE_IN_OUT_QUAD"
	TransitionEaseInCubic    TransitionType = "EASE_IN_CUBIC"
	TransitionEaseOutCubic   TransitionType = "EASE_OUT_CUBIC"
	TransitionEaseInOutCubic TransitionType = "EASE_IN_OUT_CUBIC"
	TransitionEaseInExp      TransitionType = "EASE_IN_EXP"
	TransitionEaseOutExp     TransitionType = "EASE_OUT_EXP"
	TransitionEaseInOutExp   TransitionType = "EASE_IN_OUT_EXP"
)

// TransitionTypes lists every transition in declaration order.
var TransitionTypes = []TransitionType{
	TransitionInstant, TransitionLinear,
	TransitionEaseInSine, TransitionEaseOutSine, TransitionEaseInOutSine,
	TransitionEaseInQuad, TransitionEaseOutQuad, TransitionEaseInOutQuad,
	TransitionEaseInCubic, TransitionEaseOutCubic, TransitionEaseInOutCubic,
	TransitionEaseInExp, TransitionEaseOutExp, TransitionEaseInOutExp,
}

// ZoomKeyBehaviour decides whether the zoom key must be held.
type ZoomKeyBehaviour string

const (
	ZoomKeyHold   ZoomKeyBehaviour = "HOLD"
	ZoomKeyToggle ZoomKeyBehaviour = "TOGGLE"
)

// SpyglassBehaviour decides how zooming interacts with the spyglass item.
type SpyglassBehaviour string

const (
	SpyglassCombine               SpyglassBehaviour = "COMBINE"
	SpyglassOverride              SpyglassBehaviour = "OVERRIDE"
	SpyglassOnlyZoomWhileHolding  SpyglassBehaviour = "ONLY_ZOOM_WHILE_HOLDING"
	SpyglassOnlyZoomWhileCarrying SpyglassBehaviour = "ONLY_ZOOM_WHILE_CARRYING"
)

// OverlayVisibility decides when the spyglass overlay is drawn.
type OverlayVisibility string

const (
	OverlayNever    OverlayVisibility = "NEVER"
	OverlayAlways   OverlayVisibility = "ALWAYS"
	OverlayHolding  OverlayVisibility = "HOLDING"
	OverlayCarrying OverlayVisibility = "CARRYING"
)

// SoundBehaviour decides when spyglass sounds play.
type SoundBehaviour string

const (
	SoundNever        SoundBehaviour = "NEVER"
	SoundAlways       SoundBehaviour = "ALWAYS"
	SoundWithOverlay  SoundBehaviour = "WITH_OVERLAY"
	SoundOnlySpyglass SoundBehaviour = "ONLY_SPYGLASS"
)

// Settings is the decoded view of every setting.
type Settings struct {
	InitialZoom       int            `mapstructure:"initialZoom"`
	ZoomInTime        float64        `mapstructure:"zoomInTime"`
	ZoomOutTime       float64        `mapstructure:"zoomOutTime"`
	ZoomInTransition  TransitionType `mapstructure:"zoomInTransition"`
	ZoomOutTransition TransitionType `mapstructure:"zoomOutTransition"`
	AffectHandFov     bool           `mapstructure:"affectHandFov"`

	RetainZoomSteps      bool `mapstructure:"retainZoomSteps"`
	LinearLikeSteps      bool `mapstructure:"linearLikeSteps"`
	ScrollZoom           bool `mapstructure:"scrollZoom"`
	ScrollZoomAmount     int  `mapstructure:"scrollZoomAmount"`
	ScrollZoomSmoothness int  `mapstructure:"scrollZoomSmoothness"`

	ZoomKeyBehaviour ZoomKeyBehaviour `mapstructure:"zoomKeyBehaviour"`
	KeybindScrolling bool             `mapstructure:"keybindScrolling"`

	RelativeSensitivity int  `mapstructure:"relativeSensitivity"`
	RelativeViewBobbing bool `mapstructure:"relativeViewBobbing"`
	CinematicCamera     int  `mapstructure:"cinematicCamera"`

	SpyglassBehaviour         SpyglassBehaviour `mapstructure:"spyglassBehaviour"`
	SpyglassOverlayVisibility OverlayVisibility `mapstructure:"spyglassOverlayVisibility"`
	SpyglassSoundBehaviour    SoundBehaviour    `mapstructure:"spyglassSoundBehaviour"`

	SecondaryZoomAmount    int     `mapstructure:"secondaryZoomAmount"`
	SecondaryZoomInTime    float64 `mapstructure:"secondaryZoomInTime"`
	SecondaryZoomOutTime   float64 `mapstructure:"secondaryZoomOutTime"`
	SecondaryHideHUDOnZoom bool    `mapstructure:"secondaryHideHUDOnZoom"`
}

// DefaultSettings returns the settings a fresh install starts with.
func DefaultSettings() Settings {
	var s Settings
	// The defaults map only holds registered values, so decoding cannot fail.
	if err := decodeSettings(DefaultValues(), &s); err != nil {
		panic(err)
	}
	return s
}

// Validate reports values outside the ranges the settings screen offers and
// enum values that are not recognized. Out-of-range values are still usable;
// callers decide whether to surface them.
func (s Settings) Validate() error {
	values := map[string]any{
		KeyInitialZoom:               s.InitialZoom,
		KeyZoomInTime:                s.ZoomInTime,
		KeyZoomOutTime:               s.ZoomOutTime,
		KeyZoomInTransition:          string(s.ZoomInTransition),
		KeyZoomOutTransition:         string(s.ZoomOutTransition),
		KeyScrollZoomAmount:          s.ScrollZoomAmount,
		KeyScrollZoomSmoothness:      s.ScrollZoomSmoothness,
		KeyZoomKeyBehaviour:          string(s.ZoomKeyBehaviour),
		KeyRelativeSensitivity:       s.RelativeSensitivity,
		KeyCinematicCamera:           s.CinematicCamera,
		KeySpyglassBehaviour:         string(s.SpyglassBehaviour),
		KeySpyglassOverlayVisibility: string(s.SpyglassOverlayVisibility),
		KeySpyglassSoundBehaviour:    string(s.SpyglassSoundBehaviour),
		KeySecondaryZoomAmount:       s.SecondaryZoomAmount,
		KeySecondaryZoomInTime:       s.SecondaryZoomInTime,
		KeySecondaryZoomOutTime:      s.SecondaryZoomOutTime,
	}

	var errs []error
	for _, e := range Entries() {
		v, ok := values[e.Key]
		if !ok {
			continue
		}
		if _, err := e.Normalize(v); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := e.CheckRange(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// String renders a transition the way the settings file stores it.
func (t TransitionType) String() string { return string(t) }

// Valid reports whether t is a known transition.
func (t TransitionType) Valid() bool {
	for _, v := range TransitionTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (b ZoomKeyBehaviour) Valid() bool {
	return b == ZoomKeyHold || b == ZoomKeyToggle
}

func (b SpyglassBehaviour) Valid() bool {
	switch b {
	case SpyglassCombine, SpyglassOverride, SpyglassOnlyZoomWhileHolding, SpyglassOnlyZoomWhileCarrying:
		return true
	}
	return false
}

func (v OverlayVisibility) Valid() bool {
	switch v {
	case OverlayNever, OverlayAlways, OverlayHolding, OverlayCarrying:
		return true
	}
	return false
}

func (b SoundBehaviour) Valid() bool {
	switch b {
	case SoundNever, SoundAlways, SoundWithOverlay, SoundOnlySpyglass:
		return true
	}
	return false
}

func enumStrings[T ~string](values ...T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func rangeError(key string, v any, lo, hi float64) error {
	return &ValueError{Key: key, Value: v, Reason: fmt.Sprintf("outside range %g..%g", lo, hi)}
}
