package okzoomer

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/yacchi/zoomify"
	"github.com/yacchi/zoomify/migrator"
)

// run is the state shared by the pipeline steps of one migration.
type run struct {
	cfg    Config
	stage  *migrator.Stage
	report *migrator.Report
	unbind func()
	dryRun bool
	log    zerolog.Logger
}

// step is one translation rule. reads and writes list the zoomify keys the
// rule touches; a step may only read keys written by earlier steps.
type step struct {
	name   string
	reads  []string
	writes []string
	apply  func(r *run)
}

// pipeline is applied in order.
var pipeline = []step{
	{
		name:   "cinematic camera",
		writes: []string{zoomify.KeyCinematicCamera},
		apply:  migrateCinematicCamera,
	},
	{
		name:   "reduce sensitivity",
		writes: []string{zoomify.KeyRelativeSensitivity},
		apply:  migrateSensitivity,
	},
	{
		name:   "zoom mode",
		writes: []string{zoomify.KeyZoomKeyBehaviour},
		apply:  migrateZoomMode,
	},
	{
		name:   "extra key binds",
		writes: []string{zoomify.KeyKeybindScrolling},
		apply:  migrateExtraKeyBinds,
	},
	{
		name:   "zoom overlay",
		writes: []string{zoomify.KeySpyglassOverlayVisibility},
		apply:  migrateOverlay,
	},
	{
		name:   "spyglass dependency",
		writes: []string{zoomify.KeySpyglassBehaviour},
		apply:  migrateSpyglassDependency,
	},
	{
		name:   "spyglass sounds",
		writes: []string{zoomify.KeySpyglassSoundBehaviour},
		apply:  migrateSpyglassSounds,
	},
	{
		name:   "zoom divisor",
		writes: []string{zoomify.KeyInitialZoom},
		apply:  migrateZoomDivisor,
	},
	{
		name:   "scroll steps",
		reads:  []string{zoomify.KeyInitialZoom},
		writes: []string{zoomify.KeyScrollZoomAmount},
		apply:  migrateScrollSteps,
	},
	{
		name:  "zoom transition",
		reads: []string{zoomify.KeyInitialZoom},
		writes: []string{
			zoomify.KeyZoomInTransition, zoomify.KeyZoomOutTransition,
			zoomify.KeyZoomInTime, zoomify.KeyZoomOutTime,
		},
		apply: migrateTransition,
	},
	{
		name:   "forget zoom divisor",
		writes: []string{zoomify.KeyRetainZoomSteps},
		apply:  migrateForgetZoomDivisor,
	},
	{
		name:  "unbind conflicting key",
		apply: migrateUnbindConflicting,
	},
}

func (r *run) set(key string, value any) {
	// Stage.Set only buffers; it cannot fail.
	_ = r.stage.Set(key, value)
	r.log.Debug().Str("key", key).Interface("value", value).Msg("staged setting")
}

func (r *run) warn(m migrator.Message) {
	r.report.Warn(m)
	r.log.Warn().Str("message", m.Key).Msg(m.Text)
}

func (r *run) fail(m migrator.Message) {
	r.report.Error(m)
	r.log.Warn().Str("message", m.Key).Msg(m.Text)
}

// initialZoom reads back the migrated initial zoom.
func (r *run) initialZoom() int {
	v, ok := r.stage.GetAt(zoomify.KeyInitialZoom)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func migrateCinematicCamera(r *run) {
	switch r.cfg.Features.CinematicCamera {
	case CinematicOff:
		r.set(zoomify.KeyCinematicCamera, 0)
	case CinematicVanilla:
		r.set(zoomify.KeyCinematicCamera, 100)
	case CinematicMultiplied:
		m := r.cfg.Values.CinematicMultiplier
		if !(m > 0) || !finite(m) {
			r.fail(msgCinematicMultiplier)
			return
		}
		r.set(zoomify.KeyCinematicCamera, int(1/m*100))
	}
}

func migrateSensitivity(r *run) {
	// Ok Zoomer either scales sensitivity with zoom or not at all.
	if r.cfg.Features.ReduceSensitivity {
		r.set(zoomify.KeyRelativeSensitivity, 100)
	} else {
		r.set(zoomify.KeyRelativeSensitivity, 0)
	}
}

func migrateZoomMode(r *run) {
	b, ok := zoomKeyBehaviour[r.cfg.Features.ZoomMode]
	if !ok {
		r.fail(msgPersistent)
		return
	}
	r.set(zoomify.KeyZoomKeyBehaviour, string(b))
}

func migrateExtraKeyBinds(r *run) {
	r.set(zoomify.KeyKeybindScrolling, r.cfg.Features.ExtraKeyBinds)
	r.report.RequireRestart()
}

func migrateOverlay(r *run) {
	key := overlayKey{r.cfg.Features.ZoomOverlay, r.cfg.Features.SpyglassDependency}
	v, ok := overlayVisibility[key]
	if !ok {
		r.fail(msgVignette)
		return
	}
	r.set(zoomify.KeySpyglassOverlayVisibility, string(v))
}

func migrateSpyglassDependency(r *run) {
	r.set(zoomify.KeySpyglassBehaviour, string(spyglassBehaviour[r.cfg.Features.SpyglassDependency]))
}

func migrateSpyglassSounds(r *run) {
	if r.cfg.Tweaks.UseSpyglassSounds {
		r.set(zoomify.KeySpyglassSoundBehaviour, string(zoomify.SoundAlways))
	} else {
		r.set(zoomify.KeySpyglassSoundBehaviour, string(zoomify.SoundNever))
	}
}

// roundHalfUp rounds ties toward positive infinity, as Ok Zoomer's own
// rounding does.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func migrateZoomDivisor(r *run) {
	d := r.cfg.Values.ZoomDivisor
	if !finite(d) {
		r.fail(msgZoomDivisorNotFinite)
		return
	}
	r.set(zoomify.KeyInitialZoom, roundHalfUp(d))
	r.warn(msgMinZoomDiv)
}

func migrateScrollSteps(r *run) {
	maxDivisor := r.cfg.Values.MaximumZoomDivisor
	if !finite(maxDivisor) {
		r.fail(msgMaxZoomDivisorNotFinite)
		return
	}
	span := maxDivisor - float64(r.initialZoom())
	r.set(zoomify.KeyScrollZoomAmount, roundHalfUp(span/zoomify.MaxScrollTiers))
	r.warn(msgStepAmt)
}

func migrateTransition(r *run) {
	switch r.cfg.Features.ZoomTransition {
	case TransitionLinear:
		r.fail(msgLinearNotSupported)
		setTransition(r, zoomify.TransitionLinear, 0)
	case TransitionSmooth:
		seconds, ok := smoothTransitionSeconds(r.initialZoom(), r.cfg.Values.SmoothMultiplier)
		if !ok {
			r.warn(msgSmoothApproximate)
		}
		setTransition(r, zoomify.TransitionEaseInExp, seconds)
	case TransitionOff:
		setTransition(r, zoomify.TransitionInstant, 0)
	}
}

func setTransition(r *run, t zoomify.TransitionType, seconds float64) {
	r.set(zoomify.KeyZoomInTransition, string(t))
	r.set(zoomify.KeyZoomOutTransition, string(t))
	r.set(zoomify.KeyZoomInTime, seconds)
	r.set(zoomify.KeyZoomOutTime, seconds)
}

func migrateForgetZoomDivisor(r *run) {
	r.set(zoomify.KeyRetainZoomSteps, !r.cfg.Tweaks.ForgetZoomDivisor)
}

func migrateUnbindConflicting(r *run) {
	if !r.cfg.Tweaks.UnbindConflictingKey || r.unbind == nil {
		return
	}
	if r.dryRun {
		r.log.Info().Msg("would unbind the key conflicting with zoom")
		return
	}
	r.unbind()
}
