package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rewind/internal/app"
)

func registerEditor(L *lua.LState, s *app.EditorSession) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		// edit(overrides) -> state
		"edit": func(L *lua.LState) int {
			values := overridesFromTable(L, L.CheckTable(1))
			next, err := s.EditFromMap(values)
			if err != nil {
				L.RaiseError("%v", err)
				return 0
			}
			L.Push(editorTable(L, next))
			return 1
		},

		// undo() -> state | nil
		"undo": func(L *lua.LState) int {
			snap, ok := s.Undo()
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(editorTable(L, snap))
			return 1
		},

		// redo() -> state | nil
		"redo": func(L *lua.LState) int {
			snap, ok := s.Redo()
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(editorTable(L, snap))
			return 1
		},

		// commit() -> state
		"commit": func(L *lua.LState) int {
			L.Push(editorTable(L, s.Commit()))
			return 1
		},

		// current() -> state
		"current": func(L *lua.LState) int {
			L.Push(editorTable(L, s.Current()))
			return 1
		},

		// history() -> {pos, len, can_undo, can_redo}
		"history": func(L *lua.LState) int {
			h := s.History()
			t := L.NewTable()
			t.RawSetString("pos", lua.LNumber(h.Pos()))
			t.RawSetString("len", lua.LNumber(h.Len()))
			t.RawSetString("can_undo", lua.LBool(h.CanUndo()))
			t.RawSetString("can_redo", lua.LBool(h.CanRedo()))
			L.Push(t)
			return 1
		},
	})
	L.SetGlobal("editor", mod)
}

func registerGame(L *lua.LState, s *app.GameSession) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		// play(overrides) -> state
		"play": func(L *lua.LState) int {
			values := overridesFromTable(L, L.CheckTable(1))
			next, err := s.PlayFromMap(values)
			if err != nil {
				L.RaiseError("%v", err)
				return 0
			}
			L.Push(gameTable(L, next))
			return 1
		},

		// checkpoint() -> number
		"checkpoint": func(L *lua.LState) int {
			s.Checkpoint()
			L.Push(lua.LNumber(s.Checkpoints()))
			return 1
		},

		// rollback() -> state | nil
		"rollback": func(L *lua.LState) int {
			snap, ok := s.Rollback()
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(gameTable(L, snap))
			return 1
		},

		// current() -> state
		"current": func(L *lua.LState) int {
			L.Push(gameTable(L, s.Current()))
			return 1
		},

		// checkpoints() -> number
		"checkpoints": func(L *lua.LState) int {
			L.Push(lua.LNumber(s.Checkpoints()))
			return 1
		},
	})
	L.SetGlobal("game", mod)
}
