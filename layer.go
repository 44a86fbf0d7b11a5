package zoomify

import (
	"github.com/yacchi/zoomify/layer"
)

// LayerPriority is an alias for layer.Priority.
type LayerPriority = layer.Priority

// LayerName is an alias for layer.Name.
type LayerName = layer.Name

// Priority constants for the store's layers. Higher values take precedence.
const (
	// PriorityDefaults is used for the built-in defaults layer.
	PriorityDefaults LayerPriority = 0

	// PriorityUser is used for the user's settings file.
	PriorityUser LayerPriority = 100

	// PriorityEnv is used for environment overrides, which win over the file.
	PriorityEnv LayerPriority = 200
)

// Layer names used by New and Open.
const (
	LayerDefaults LayerName = "defaults"
	LayerUser     LayerName = "user"
	LayerEnv      LayerName = "env"
)
