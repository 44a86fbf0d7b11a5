package zoomify

import (
	"strings"

	"github.com/yacchi/zoomify/layer/env"
)

// EnvOverridePrefix is the prefix the CLI uses for environment overrides.
const EnvOverridePrefix = "ZOOMIFY_OVERRIDE_"

// NewEnvLayer returns a read-only layer of settings overridden through
// environment variables. Names match setting keys ignoring case and
// underscores, so both ZOOMIFY_OVERRIDE_INITIAL_ZOOM and
// ZOOMIFY_OVERRIDE_INITIALZOOM set /initialZoom. Values are parsed like
// command-line input; unknown names are ignored.
func NewEnvLayer(prefix string) *env.Layer {
	return env.New(LayerEnv, prefix,
		env.WithKeyMapper(envKey),
		env.WithValueParser(func(pointer, raw string) (any, error) {
			e, err := LookupEntry(pointer)
			if err != nil {
				return nil, err
			}
			return e.Parse(raw)
		}),
	)
}

func envKey(name string) (string, bool) {
	folded := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	for _, e := range registry {
		if strings.ToLower(strings.TrimPrefix(e.Key, "/")) == folded {
			return e.Key, true
		}
	}
	return "", false
}
