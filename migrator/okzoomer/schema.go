package okzoomer

// CinematicCameraState is features.cinematic_camera.
type CinematicCameraState string

const (
	CinematicOff        CinematicCameraState = "OFF"
	CinematicVanilla    CinematicCameraState = "VANILLA"
	CinematicMultiplied CinematicCameraState = "MULTIPLIED"
)

// TransitionMode is features.zoom_transition.
type TransitionMode string

const (
	TransitionOff    TransitionMode = "OFF"
	TransitionSmooth TransitionMode = "SMOOTH"
	TransitionLinear TransitionMode = "LINEAR"
)

// ZoomMode is features.zoom_mode.
type ZoomMode string

const (
	ZoomHold       ZoomMode = "HOLD"
	ZoomToggle     ZoomMode = "TOGGLE"
	ZoomPersistent ZoomMode = "PERSISTENT"
)

// Overlay is features.zoom_overlay.
type Overlay string

const (
	OverlayOff      Overlay = "OFF"
	OverlayVignette Overlay = "VIGNETTE"
	OverlaySpyglass Overlay = "SPYGLASS"
)

// SpyglassDependency is features.spyglass_dependency.
type SpyglassDependency string

const (
	SpyglassOff         SpyglassDependency = "OFF"
	SpyglassRequireItem SpyglassDependency = "REQUIRE_ITEM"
	SpyglassReplaceZoom SpyglassDependency = "REPLACE_ZOOM"
	SpyglassBoth        SpyglassDependency = "BOTH"
)

var (
	cinematicCameraStates = []CinematicCameraState{CinematicOff, CinematicVanilla, CinematicMultiplied}
	transitionModes       = []TransitionMode{TransitionOff, TransitionSmooth, TransitionLinear}
	zoomModes             = []ZoomMode{ZoomHold, ZoomToggle, ZoomPersistent}
	overlays              = []Overlay{OverlayOff, OverlayVignette, OverlaySpyglass}
	spyglassDependencies  = []SpyglassDependency{SpyglassOff, SpyglassRequireItem, SpyglassReplaceZoom, SpyglassBoth}
)

// Config is a decoded ok_zoomer/config.toml. It is not modified after
// Decode returns.
type Config struct {
	Features Features
	Values   Values
	Tweaks   Tweaks
}

// Features is the [features] table.
type Features struct {
	CinematicCamera    CinematicCameraState
	ReduceSensitivity  bool
	ZoomTransition     TransitionMode
	ZoomMode           ZoomMode
	ZoomScrolling      bool
	ExtraKeyBinds      bool
	ZoomOverlay        Overlay
	SpyglassDependency SpyglassDependency
}

// Values is the [values] table.
type Values struct {
	ZoomDivisor         float64
	MinimumZoomDivisor  float64
	MaximumZoomDivisor  float64
	UpperScrollSteps    int64
	LowerScrollSteps    int64
	SmoothMultiplier    float64
	CinematicMultiplier float64
	MinimumLinearStep   float64
	MaximumLinearStep   float64
}

// Tweaks is the [tweaks] table.
type Tweaks struct {
	ResetZoomWithMouse   bool
	ForgetZoomDivisor    bool
	UnbindConflictingKey bool
	UseSpyglassTexture   bool
	UseSpyglassSounds    bool
}
