package state

import (
	"math"
	"slices"
)

// KeyPolicy decides what happens to override keys that name no field.
type KeyPolicy int

const (
	// RejectUnknown fails the parse with an *OverrideError.
	RejectUnknown KeyPolicy = iota
	// IgnoreUnknown drops unknown keys silently.
	IgnoreUnknown
)

// String returns the policy name.
func (p KeyPolicy) String() string {
	switch p {
	case RejectUnknown:
		return "reject"
	case IgnoreUnknown:
		return "ignore"
	default:
		return "unknown"
	}
}

// PolicyFor maps the strict-overrides setting to a KeyPolicy.
func PolicyFor(strict bool) KeyPolicy {
	if strict {
		return RejectUnknown
	}
	return IgnoreUnknown
}

// Field names accepted in dynamic override maps.
const (
	FieldContent   = "content"
	FieldCursor    = "cursor"
	FieldDirty     = "dirty"
	FieldLevel     = "level"
	FieldHealth    = "health"
	FieldPosition  = "position"
	FieldInventory = "inventory"
)

// ParseEditorOverrides converts a dynamic field map, such as one decoded
// from JSON or a script, into typed editor overrides.
func ParseEditorOverrides(values map[string]any, policy KeyPolicy) (EditorOverrides, error) {
	var o EditorOverrides
	for _, key := range sortedKeys(values) {
		v := values[key]
		switch key {
		case FieldContent:
			s, err := asString(key, v)
			if err != nil {
				return EditorOverrides{}, err
			}
			o.Content = &s
		case FieldCursor:
			n, err := asInt(key, v)
			if err != nil {
				return EditorOverrides{}, err
			}
			o.Cursor = &n
		case FieldDirty:
			b, err := asBool(key, v)
			if err != nil {
				return EditorOverrides{}, err
			}
			o.Dirty = &b
		default:
			if policy == RejectUnknown {
				return EditorOverrides{}, unknownKey(key)
			}
		}
	}
	return o, nil
}

// ParseGameOverrides converts a dynamic field map into typed game overrides.
func ParseGameOverrides(values map[string]any, policy KeyPolicy) (GameOverrides, error) {
	var o GameOverrides
	for _, key := range sortedKeys(values) {
		v := values[key]
		switch key {
		case FieldLevel:
			n, err := asInt(key, v)
			if err != nil {
				return GameOverrides{}, err
			}
			o.Level = &n
		case FieldHealth:
			n, err := asInt(key, v)
			if err != nil {
				return GameOverrides{}, err
			}
			o.Health = &n
		case FieldPosition:
			s, err := asString(key, v)
			if err != nil {
				return GameOverrides{}, err
			}
			o.Position = &s
		case FieldInventory:
			items, err := asStrings(key, v)
			if err != nil {
				return GameOverrides{}, err
			}
			o.Inventory = items
		default:
			if policy == RejectUnknown {
				return GameOverrides{}, unknownKey(key)
			}
		}
	}
	return o, nil
}

// sortedKeys returns map keys in order so the first bad key is deterministic.
func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func asString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "a string", v)
	}
	return s, nil
}

func asBool(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(key, "a boolean", v)
	}
	return b, nil
}

// asInt accepts Go integers and integral floats (JSON and Lua numbers).
const maxExactFloat = 1 << 53

func asInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, &OverrideError{Key: key, Reason: "out of range"}
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, &OverrideError{Key: key, Reason: "must be a whole number"}
		}
		// Beyond 2^53 a float64 no longer holds every integer exactly.
		if math.Abs(n) > maxExactFloat {
			return 0, &OverrideError{Key: key, Reason: "out of range"}
		}
		return int(n), nil
	default:
		return 0, wrongType(key, "an integer", v)
	}
}

// asStrings accepts []string or []any holding only strings.
func asStrings(key string, v any) ([]string, error) {
	switch items := v.(type) {
	case []string:
		out := make([]string, len(items))
		copy(out, items)
		return out, nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, wrongType(key, "a list of strings", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, wrongType(key, "a list of strings", v)
	}
}
