package rpc

import (
	"encoding/json"
	"fmt"
	"slices"

	"telemetryd/internal/protocol"
)

// Args holds bound call parameters. A named mapping binds directly and
// must only use declared names; a positional sequence is zipped against
// the method's declared parameter names; absent params bind to an empty
// set.
type Args struct {
	values map[string]json.RawMessage
}

// BindArgs binds raw params against the declared parameter names.
func BindArgs(params json.RawMessage, names []string) (Args, error) {
	args := Args{values: make(map[string]json.RawMessage)}
	if len(params) == 0 || string(params) == "null" {
		return args, nil
	}

	switch params[0] {
	case '{':
		if err := json.Unmarshal(params, &args.values); err != nil {
			return Args{}, protocol.NewInvalidParams("params object is malformed")
		}
		for key := range args.values {
			if !slices.Contains(names, key) {
				return Args{}, protocol.NewInvalidParams(fmt.Sprintf("unexpected param %q", key))
			}
		}
		return args, nil
	case '[':
		var pos []json.RawMessage
		if err := json.Unmarshal(params, &pos); err != nil {
			return Args{}, protocol.NewInvalidParams("params array is malformed")
		}
		if len(pos) > len(names) {
			return Args{}, protocol.NewInvalidParams(
				fmt.Sprintf("method takes at most %d params, got %d", len(names), len(pos)))
		}
		for i, v := range pos {
			args.values[names[i]] = v
		}
		return args, nil
	default:
		return Args{}, protocol.NewInvalidParams("params must be an object or array")
	}
}

// Int returns the named parameter as an int, or def when absent.
func (a Args) Int(name string, def int) (int, error) {
	raw, ok := a.values[name]
	if !ok || string(raw) == "null" {
		return def, nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, protocol.NewInvalidParams(fmt.Sprintf("param %q must be an integer", name))
	}
	return v, nil
}

// String returns the named parameter as a string, or def when absent.
func (a Args) String(name, def string) (string, error) {
	raw, ok := a.values[name]
	if !ok || string(raw) == "null" {
		return def, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", protocol.NewInvalidParams(fmt.Sprintf("param %q must be a string", name))
	}
	return v, nil
}
