package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rewind/internal/engine/state"
)

// overridesFromTable converts a Lua override table to the map form accepted
// by the state parsers. Non-string keys are rejected.
func overridesFromTable(L *lua.LState, t *lua.LTable) map[string]any {
	values := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			L.RaiseError("override keys must be strings, got %s", k.Type())
			return
		}
		values[string(key)] = toGoValue(v, make(map[*lua.LTable]bool))
	})
	return values
}

// toGoValue converts a Lua value to a Go value. Integral numbers become
// int64 and tables whose keys are 1..n (including empty tables) become []any.
func toGoValue(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	count := 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		if n, ok := k.(lua.LNumber); !ok || float64(n) != float64(int(n)) || n < 1 {
			isArray = false
		}
	})

	if isArray && t.MaxN() == count {
		arr := make([]any, count)
		for i := 1; i <= count; i++ {
			arr[i-1] = toGoValue(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = toGoValue(v, visited)
	})
	return m
}

func editorTable(L *lua.LState, s state.EditorState) *lua.LTable {
	t := L.NewTable()
	t.RawSetString(state.FieldContent, lua.LString(s.Content()))
	t.RawSetString(state.FieldCursor, lua.LNumber(s.Cursor()))
	t.RawSetString(state.FieldDirty, lua.LBool(s.Dirty()))
	return t
}

func gameTable(L *lua.LState, s state.GameState) *lua.LTable {
	inv := L.NewTable()
	for _, item := range s.Inventory() {
		inv.Append(lua.LString(item))
	}

	t := L.NewTable()
	t.RawSetString(state.FieldLevel, lua.LNumber(s.Level()))
	t.RawSetString(state.FieldHealth, lua.LNumber(s.Health()))
	t.RawSetString(state.FieldPosition, lua.LString(s.Position()))
	t.RawSetString(state.FieldInventory, inv)
	return t
}
