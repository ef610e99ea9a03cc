package lint

import (
	"github.com/go-viper/mapstructure/v2"
)

// DecodeOptions decodes raw rule options into out. Values are weakly typed, so
// "800" from a YAML string decodes into an int field. Keys the target does not
// declare are ignored.
func DecodeOptions(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Options returns defaults overlaid with raw. Options that do not decode leave the
// defaults untouched, so a rule always runs with usable thresholds.
func Options[T any](raw map[string]any, defaults T) T {
	if len(raw) == 0 {
		return defaults
	}
	out := defaults
	if err := DecodeOptions(raw, &out); err != nil {
		return defaults
	}
	return out
}
