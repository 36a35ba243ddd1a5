package configutil

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/opengeos/geoagent/pkg/errorsx"
)

// DecodeSettings decodes a free-form settings map into a typed struct.
// Input is weakly typed so YAML scalars and model-produced values decode
// into the declared field types without ceremony.
func DecodeSettings(input map[string]any, out any) error {
	if len(input) == 0 {
		return nil
	}
	cfg := &mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           out,
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// RequireString ensures a value is present for a required config field.
func RequireString(value, path string) error {
	if strings.TrimSpace(value) == "" {
		return errorsx.Wrap(fmt.Errorf("%s is required", path), errorsx.ReasonConfigInvalid)
	}
	return nil
}

func normalizeKey(value string) string {
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}
