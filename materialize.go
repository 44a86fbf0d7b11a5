package zoomify

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/yacchi/zoomify/layer"
)

// materializeLocked merges all loaded layers, lowest priority first, and
// decodes the result into Settings. Subscribers are returned so the caller
// can notify them after releasing the lock.
// Caller must hold the write lock.
func (s *Store) materializeLocked() (Settings, []subscriber, error) {
	merged := make(map[string]any)
	for _, entry := range s.layers {
		if entry.data == nil {
			continue
		}
		deepMerge(merged, entry.data)
	}

	var result Settings
	if err := s.decoder(merged, &result); err != nil {
		return Settings{}, nil, fmt.Errorf("failed to decode merged settings: %w", err)
	}

	s.merged = merged
	s.resolved.Store(&result)
	subscribers := append([]subscriber(nil), s.subscribers...)
	return result, subscribers, nil
}

// decodeSettings decodes with weak typing so numbers read from JSON
// (float64) or TOML (int64) land in int and float64 fields alike.
func decodeSettings(data map[string]any, target *Settings) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

// deepMerge merges src into dst. Nested maps merge key by key; any other
// value in src replaces the one in dst.
func deepMerge(dst, src map[string]any) {
	for key, srcValue := range src {
		dstMap, dstIsMap := dst[key].(map[string]any)
		srcMap, srcIsMap := srcValue.(map[string]any)
		if dstIsMap && srcIsMap {
			deepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = layer.CloneValue(srcValue)
	}
}
