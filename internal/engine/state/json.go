package state

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// EditorOverridesFromJSON parses a JSON object such as
// {"content":"x","cursor":1} into editor overrides.
func EditorOverridesFromJSON(data string, policy KeyPolicy) (EditorOverrides, error) {
	values, err := objectValues(data)
	if err != nil {
		return EditorOverrides{}, err
	}
	return ParseEditorOverrides(values, policy)
}

// GameOverridesFromJSON parses a JSON object into game overrides.
func GameOverridesFromJSON(data string, policy KeyPolicy) (GameOverrides, error) {
	values, err := objectValues(data)
	if err != nil {
		return GameOverrides{}, err
	}
	return ParseGameOverrides(values, policy)
}

// objectValues decodes the top-level members of a JSON object.
func objectValues(data string) (map[string]any, error) {
	if !gjson.Valid(data) {
		return nil, &OverrideError{Reason: "malformed JSON"}
	}

	result := gjson.Parse(data)
	if !result.IsObject() {
		return nil, &OverrideError{Reason: "expected a JSON object"}
	}

	values := make(map[string]any)
	var err error
	result.ForEach(func(key, value gjson.Result) bool {
		var v any
		if v, err = jsonValue(key.String(), value); err != nil {
			return false
		}
		values[key.String()] = v
		return true
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// jsonValue converts a member value. Integer literals decode as int64 so
// they are never rounded through float64.
func jsonValue(key string, value gjson.Result) (any, error) {
	if value.Type != gjson.Number || strings.ContainsAny(value.Raw, ".eE") {
		return value.Value(), nil
	}
	n, err := strconv.ParseInt(value.Raw, 10, 64)
	if err != nil {
		return nil, &OverrideError{Key: key, Reason: "out of range"}
	}
	return n, nil
}

// MarshalJSON renders the snapshot as a JSON object.
func (s EditorState) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	var err error
	if out, err = sjson.SetBytes(out, FieldContent, s.content); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, FieldCursor, s.cursor); err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, FieldDirty, s.dirty)
}

// MarshalJSON renders the snapshot as a JSON object.
// An empty inventory renders as [] rather than null.
func (s GameState) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	var err error
	if out, err = sjson.SetBytes(out, FieldLevel, s.level); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, FieldHealth, s.health); err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, FieldPosition, s.position); err != nil {
		return nil, err
	}
	inventory := s.inventory
	if inventory == nil {
		inventory = []string{}
	}
	return sjson.SetBytes(out, FieldInventory, inventory)
}
