package okzoomer

import "github.com/yacchi/zoomify"

type overlayKey struct {
	overlay    Overlay
	dependency SpyglassDependency
}

// overlayVisibility maps the overlay together with the spyglass dependency.
// VIGNETTE has no equivalent and is absent.
var overlayVisibility = map[overlayKey]zoomify.OverlayVisibility{
	{OverlayOff, SpyglassOff}:         zoomify.OverlayNever,
	{OverlayOff, SpyglassRequireItem}: zoomify.OverlayNever,
	{OverlayOff, SpyglassReplaceZoom}: zoomify.OverlayNever,
	{OverlayOff, SpyglassBoth}:        zoomify.OverlayNever,

	{OverlaySpyglass, SpyglassOff}:         zoomify.OverlayAlways,
	{OverlaySpyglass, SpyglassReplaceZoom}: zoomify.OverlayAlways,
	{OverlaySpyglass, SpyglassRequireItem}: zoomify.OverlayHolding,
	{OverlaySpyglass, SpyglassBoth}:        zoomify.OverlayHolding,
}

// spyglassBehaviour maps the spyglass dependency alone.
// BOTH -> ONLY_ZOOM_WHILE_CARRYING is kept as the mod has always done it,
// even though the two are not obviously equivalent.
var spyglassBehaviour = map[SpyglassDependency]zoomify.SpyglassBehaviour{
	SpyglassOff:         zoomify.SpyglassCombine,
	SpyglassReplaceZoom: zoomify.SpyglassOverride,
	SpyglassRequireItem: zoomify.SpyglassOnlyZoomWhileHolding,
	SpyglassBoth:        zoomify.SpyglassOnlyZoomWhileCarrying,
}

var zoomKeyBehaviour = map[ZoomMode]zoomify.ZoomKeyBehaviour{
	ZoomHold:   zoomify.ZoomKeyHold,
	ZoomToggle: zoomify.ZoomKeyToggle,
}
