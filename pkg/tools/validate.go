package tools

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/opengeos/geoagent/pkg/errorsx"
)

// ValidateArgs checks an incoming argument map against a tool's declared
// params before invocation: required params must be present and every
// supplied value must match its declared type. This replaces spreading raw
// model output into handlers, so a bad payload becomes one well-defined
// error instead of a failure deep inside a handler.
func ValidateArgs(def Definition, args map[string]any) error {
	params := make(map[string]Param, len(def.Params))
	for _, p := range def.Params {
		params[p.Name] = p
	}

	var missing, unknown, mistyped []string
	for name, value := range args {
		p, ok := params[name]
		if !ok {
			if !def.AllowUnknown {
				unknown = append(unknown, name)
			}
			continue
		}
		if value == nil {
			continue
		}
		if !matchesType(p.Type, value) {
			mistyped = append(mistyped, fmt.Sprintf("%s (want %s)", name, p.Type))
		}
	}
	for _, p := range def.Params {
		if !p.Required {
			continue
		}
		if v, ok := args[p.Name]; !ok || v == nil {
			missing = append(missing, p.Name)
		}
	}

	if len(missing) == 0 && len(unknown) == 0 && len(mistyped) == 0 {
		return nil
	}
	sort.Strings(missing)
	sort.Strings(unknown)
	sort.Strings(mistyped)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(unknown) > 0 {
		parts = append(parts, "unknown: "+strings.Join(unknown, ", "))
	}
	if len(mistyped) > 0 {
		parts = append(parts, "mistyped: "+strings.Join(mistyped, ", "))
	}
	err := fmt.Errorf("tool %q arguments invalid; %s", def.Name, strings.Join(parts, "; "))
	return errorsx.Wrap(err, errorsx.ReasonToolArgs)
}

func matchesType(declared string, value any) bool {
	switch declared {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return true
		}
		return false
	case TypeArray:
		return reflect.ValueOf(value).Kind() == reflect.Slice
	case TypeObject:
		return reflect.ValueOf(value).Kind() == reflect.Map
	}
	return false
}
