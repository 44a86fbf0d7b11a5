package okzoomer

import "github.com/yacchi/zoomify/migrator"

var (
	msgDecode = migrator.Message{
		Key:  "zoomify.migrate.okz.decode",
		Text: "The Ok Zoomer config could not be read; nothing was migrated.",
	}
	msgPersistent = migrator.Message{
		Key:  "zoomify.migrate.okz.persistent",
		Text: "Persistent zoom mode is not supported; the zoom key behaviour was left unchanged.",
	}
	msgVignette = migrator.Message{
		Key:  "zoomify.migrate.okz.vignette",
		Text: "The vignette overlay is not supported; the overlay setting was left unchanged.",
	}
	msgMinZoomDiv = migrator.Message{
		Key:  "zoomify.migrate.okz.minZoomDiv",
		Text: "The zoom divisor was rounded to a whole zoom level.",
	}
	msgStepAmt = migrator.Message{
		Key:  "zoomify.migrate.okz.stepAmt",
		Text: "Scroll steps were converted to an even step size and may feel different.",
	}
	msgLinearNotSupported = migrator.Message{
		Key:  "zoomify.migrate.okz.linearNotSupported",
		Text: "Linear zoom transitions are not supported; a linear curve with no duration was used instead.",
	}
	msgSmoothApproximate = migrator.Message{
		Key:  "zoomify.migrate.okz.smoothApproximate",
		Text: "The smooth transition never settles with this smooth multiplier; the longest transition time was used.",
	}
	msgZoomDivisorNotFinite = migrator.Message{
		Key:  "zoomify.migrate.okz.zoomDivisorNotFinite",
		Text: "The zoom divisor is not a finite number; the initial zoom was left unchanged.",
	}
	msgMaxZoomDivisorNotFinite = migrator.Message{
		Key:  "zoomify.migrate.okz.maxZoomDivisorNotFinite",
		Text: "The maximum zoom divisor is not a finite number; the scroll zoom amount was left unchanged.",
	}
	msgCinematicMultiplier = migrator.Message{
		Key:  "zoomify.migrate.okz.cinematicMultiplier",
		Text: "The cinematic multiplier must be positive; the cinematic camera setting was left unchanged.",
	}
)
