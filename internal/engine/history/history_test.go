package history

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rewind/internal/engine/state"
)

// Helper to build a timeline holding the given values, oldest first.
func newTestTimeline(values ...string) *Timeline[string] {
	tl := NewTimeline[string]()
	for _, v := range values {
		tl.Save(v)
	}
	return tl
}

func snapshots[T any](tl *Timeline[T]) []T {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	out := make([]T, 0, tl.seq.size())
	for i := 0; i < tl.seq.size(); i++ {
		out = append(out, tl.seq.at(i).Snapshot)
	}
	return out
}

// Timeline Tests

func TestNewTimelineIsEmpty(t *testing.T) {
	tl := NewTimeline[string]()

	assert.Equal(t, -1, tl.Pos())
	assert.Equal(t, 0, tl.Len())
	assert.False(t, tl.CanUndo())
	assert.False(t, tl.CanRedo())

	_, ok := tl.Current()
	assert.False(t, ok, "empty timeline has no current snapshot")
}

func TestTimelineUndoOnEmpty(t *testing.T) {
	tl := NewTimeline[string]()

	got, ok := tl.Undo()
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, -1, tl.Pos())
}

func TestTimelineRedoAfterFirstSave(t *testing.T) {
	tl := newTestTimeline("A")

	_, ok := tl.Redo()
	assert.False(t, ok, "nothing to redo after the first save")
	assert.Equal(t, 0, tl.Pos())
}

func TestTimelineFirstSaveNotUndoable(t *testing.T) {
	tl := newTestTimeline("A")

	_, ok := tl.Undo()
	assert.False(t, ok)

	cur, ok := tl.Current()
	require.True(t, ok)
	assert.Equal(t, "A", cur)
	assert.Equal(t, 0, tl.Pos())
}

func TestTimelineSaveAdvancesCursor(t *testing.T) {
	tl := NewTimeline[string]()
	for i, v := range []string{"A", "B", "C"} {
		entry := tl.Save(v)
		assert.Equal(t, v, entry.Snapshot)
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, i, tl.Pos())
		assert.Equal(t, i+1, tl.Len())
	}
}

func TestTimelineUndoRedo(t *testing.T) {
	tl := newTestTimeline("A", "B", "C")

	got, ok := tl.Undo()
	require.True(t, ok)
	assert.Equal(t, "B", got)
	assert.Equal(t, 1, tl.Pos())

	got, ok = tl.Undo()
	require.True(t, ok)
	assert.Equal(t, "A", got)
	assert.Equal(t, 0, tl.Pos())

	_, ok = tl.Undo()
	assert.False(t, ok, "cannot undo past the oldest entry")
	assert.Equal(t, 0, tl.Pos())

	got, ok = tl.Redo()
	require.True(t, ok)
	assert.Equal(t, "B", got)

	got, ok = tl.Redo()
	require.True(t, ok)
	assert.Equal(t, "C", got)

	_, ok = tl.Redo()
	assert.False(t, ok, "cannot redo past the newest entry")
	assert.Equal(t, 2, tl.Pos())
}

func TestTimelineSaveTruncatesFuture(t *testing.T) {
	tl := newTestTimeline("A", "B", "C")

	got, ok := tl.Undo()
	require.True(t, ok)
	require.Equal(t, "B", got)

	tl.Save("D")

	assert.Equal(t, []string{"A", "B", "D"}, snapshots(tl))
	assert.Equal(t, 2, tl.Pos())

	_, ok = tl.Redo()
	assert.False(t, ok, "C must be unreachable after saving D")
}

func TestTimelineSaveAfterFullUndo(t *testing.T) {
	tl := newTestTimeline("A", "B", "C")
	tl.Undo()
	tl.Undo()

	tl.Save("X")

	assert.Equal(t, []string{"A", "X"}, snapshots(tl))
	assert.Equal(t, 1, tl.Pos())
}

func TestTimelineTruncateReleasesSlots(t *testing.T) {
	tl := newTestTimeline("A", "B", "C")
	tl.Undo()
	tl.Undo()
	tl.Save("X")

	// The backing array still has capacity for the old entries; they must
	// not hold on to the discarded snapshots.
	tl.mu.Lock()
	backing := tl.seq.entries[:cap(tl.seq.entries)]
	tl.mu.Unlock()
	for i := 2; i < len(backing); i++ {
		assert.Empty(t, backing[i].Snapshot, "slot %d still references a snapshot", i)
	}
}

func TestTimelineUndoRedoInverse(t *testing.T) {
	for n := 1; n <= 5; n++ {
		values := make([]string, n)
		for i := range values {
			values[i] = string(rune('A' + i))
		}

		// Try every cursor position reachable by undo.
		for back := 0; back < n; back++ {
			tl := newTestTimeline(values...)
			for i := 0; i < back; i++ {
				tl.Undo()
			}

			beforePos := tl.Pos()
			before, _ := tl.Current()

			if _, ok := tl.Undo(); !ok {
				continue
			}
			_, ok := tl.Redo()
			require.True(t, ok)

			after, _ := tl.Current()
			assert.Equal(t, beforePos, tl.Pos(), "n=%d back=%d", n, back)
			assert.Equal(t, before, after, "n=%d back=%d", n, back)
		}
	}
}

func TestTimelineCounts(t *testing.T) {
	tl := newTestTimeline("A", "B", "C", "D")
	tl.Undo()

	assert.Equal(t, 2, tl.UndoCount())
	assert.Equal(t, 1, tl.RedoCount())
	assert.True(t, tl.CanUndo())
	assert.True(t, tl.CanRedo())

	empty := NewTimeline[string]()
	assert.Equal(t, 0, empty.UndoCount())
	assert.Equal(t, 0, empty.RedoCount())
}

func TestTimelineEntries(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	tl := NewTimeline[string](WithClock(clock))
	tl.Save("A")
	tl.Save("B")
	tl.Save("C")
	tl.Undo()

	infos := tl.Entries()
	require.Len(t, infos, 3)
	for i, info := range infos {
		assert.Equal(t, i, info.Index)
		assert.Equal(t, base.Add(time.Duration(i+1)*time.Second), info.Timestamp)
		assert.Equal(t, i == 1, info.Current)
	}
}

func TestTimelineCurrentEntry(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	next := 0
	gen := func() uuid.UUID {
		id := ids[next]
		next++
		return id
	}

	tl := NewTimeline[string](WithIDGenerator(gen))
	tl.Save("A")
	tl.Save("B")

	entry, ok := tl.CurrentEntry()
	require.True(t, ok)
	assert.Equal(t, ids[1], entry.ID)
	assert.Equal(t, "B", entry.Snapshot)

	tl.Undo()
	entry, _ = tl.CurrentEntry()
	assert.Equal(t, ids[0], entry.ID)
}

func TestTimelineClear(t *testing.T) {
	tl := newTestTimeline("A", "B")
	tl.Clear()

	assert.Equal(t, -1, tl.Pos())
	assert.Equal(t, 0, tl.Len())
	_, ok := tl.Undo()
	assert.False(t, ok)

	tl.Save("C")
	assert.Equal(t, 0, tl.Pos())
}

func TestTimelineListeners(t *testing.T) {
	tl := newTestTimeline("A", "B", "C")

	var changes []Change
	tl.OnChange(func(c Change) { changes = append(changes, c) })
	tl.OnChange(nil)

	tl.Undo()
	tl.Redo()
	tl.Redo() // no-op, no change
	tl.Undo()
	tl.Save("D")
	tl.Clear()

	kinds := make([]ChangeKind, len(changes))
	for i, c := range changes {
		kinds[i] = c.Kind
	}
	assert.Equal(t, []ChangeKind{
		ChangeUndo, ChangeRedo, ChangeUndo, ChangeTruncate, ChangeSave, ChangeClear,
	}, kinds)

	truncate := changes[3]
	assert.Equal(t, 1, truncate.Discarded)
	assert.Equal(t, 1, truncate.Pos)
	assert.Equal(t, 2, truncate.Len)

	save := changes[4]
	assert.Equal(t, 2, save.Pos)
	assert.Equal(t, 3, save.Len)

	cleared := changes[5]
	assert.Equal(t, 3, cleared.Discarded)
}

func TestTimelineListenerMayReenter(t *testing.T) {
	tl := NewTimeline[string]()
	var seen []int
	tl.OnChange(func(c Change) {
		// Reading state from a listener must not deadlock.
		seen = append(seen, tl.Pos())
	})

	tl.Save("A")
	tl.Save("B")
	assert.Equal(t, []int{0, 1}, seen)
}

func TestTimelineInvariantBreachPanics(t *testing.T) {
	tests := []struct {
		name string
		pos  int
		call func(tl *Timeline[string])
		msg  string
	}{
		{"undo past end", 3, func(tl *Timeline[string]) { tl.Undo() },
			"history: invariant violated in undo: cursor 3 outside [-1, 2]"},
		{"undo below start", -4, func(tl *Timeline[string]) { tl.Undo() },
			"history: invariant violated in undo: cursor -4 outside [-1, 2]"},
		{"redo past end", 5, func(tl *Timeline[string]) { tl.Redo() },
			"history: invariant violated in redo: cursor 5 outside [-1, 2]"},
		{"save", 7, func(tl *Timeline[string]) { tl.Save("D") },
			"history: invariant violated in save: cursor 7 outside [-1, 2]"},
		{"current", 3, func(tl *Timeline[string]) { tl.Current() },
			"history: invariant violated in current: cursor 3 outside [-1, 2]"},
		{"can redo", 5, func(tl *Timeline[string]) { tl.CanRedo() },
			"history: invariant violated in can redo: cursor 5 outside [-1, 2]"},
		{"redo count", 5, func(tl *Timeline[string]) { tl.RedoCount() },
			"history: invariant violated in redo count: cursor 5 outside [-1, 2]"},
		{"undo count", -2, func(tl *Timeline[string]) { tl.UndoCount() },
			"history: invariant violated in undo count: cursor -2 outside [-1, 2]"},
		{"entries", 4, func(tl *Timeline[string]) { tl.Entries() },
			"history: invariant violated in entries: cursor 4 outside [-1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := newTestTimeline("A", "B", "C")
			tl.pos = tt.pos // simulate corruption

			require.PanicsWithError(t, tt.msg, func() { tt.call(tl) })
		})
	}
}

func TestTimelineUsableAfterRecoveredPanic(t *testing.T) {
	tl := newTestTimeline("A", "B", "C")
	tl.pos = 5

	require.Panics(t, func() { tl.Redo() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		tl.Clear()
		tl.Save("X")
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeline lock still held after panic")
	}

	got, ok := tl.Current()
	require.True(t, ok)
	assert.Equal(t, "X", got)
	assert.Equal(t, 1, tl.Len())
}

func TestStackUsableAfterListenerPanic(t *testing.T) {
	s := NewStack[string]()
	s.OnChange(func(c Change) {
		if c.Kind == ChangePush {
			panic("listener failed")
		}
	})

	require.Panics(t, func() { s.Push("A") })

	done := make(chan int)
	go func() { done <- s.Len() }()

	select {
	case n := <-done:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("stack lock still held after panic")
	}

	got, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, "A", got)
}

func TestCheckCursor(t *testing.T) {
	tests := []struct {
		name  string
		pos   int
		n     int
		panic bool
	}{
		{"empty", -1, 0, false},
		{"first", 0, 1, false},
		{"last", 2, 3, false},
		{"below", -2, 3, true},
		{"past end", 3, 3, true},
		{"empty with cursor", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := func() { checkCursor("test", tt.pos, tt.n) }
			if tt.panic {
				assert.Panics(t, fn)
			} else {
				assert.NotPanics(t, fn)
			}
		})
	}
}

func TestTimelineConcurrentAccess(t *testing.T) {
	tl := NewTimeline[int]()
	tl.Save(0)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch i % 3 {
				case 0:
					tl.Save(g*1000 + i)
				case 1:
					tl.Undo()
				default:
					tl.Redo()
				}
			}
		}(g)
	}
	wg.Wait()

	pos := tl.Pos()
	assert.GreaterOrEqual(t, pos, 0)
	assert.Less(t, pos, tl.Len())
}

func TestTimelineEditorScenario(t *testing.T) {
	tl := NewTimeline[state.EditorState]()

	initial := state.NewEditorState("Initial", 0, false)
	tl.Save(initial)

	changed := initial.Derive(state.EditorOverrides{
		Content: state.Ptr("First change"),
		Cursor:  state.Ptr(12),
		Dirty:   state.Ptr(true),
	})
	tl.Save(changed)

	got, ok := tl.Undo()
	require.True(t, ok)
	assert.True(t, got.Equal(state.NewEditorState("Initial", 0, false)), "undo returned %s", got)

	got, ok = tl.Redo()
	require.True(t, ok)
	assert.True(t, got.Equal(state.NewEditorState("First change", 12, true)), "redo returned %s", got)

	// The stored snapshots were never touched.
	assert.Equal(t, "Initial", initial.Content())
	assert.Equal(t, "First change", changed.Content())
}

// Stack Tests

func TestStackPushPop(t *testing.T) {
	st := NewStack[string]()
	st.Push("X")
	st.Push("Y")

	assert.Equal(t, 2, st.Len())

	top, ok := st.Peek()
	require.True(t, ok)
	assert.Equal(t, "Y", top)

	got, ok := st.Pop()
	require.True(t, ok)
	assert.Equal(t, "Y", got)

	got, ok = st.Pop()
	require.True(t, ok)
	assert.Equal(t, "X", got)

	_, ok = st.Pop()
	assert.False(t, ok, "pop on empty stack")
	_, ok = st.Peek()
	assert.False(t, ok)
}

func TestStackNoRedoLeakage(t *testing.T) {
	st := NewStack[string]()
	st.Push("X")
	st.Push("Y")

	got, ok := st.Pop()
	require.True(t, ok)
	require.Equal(t, "Y", got)

	top, _ := st.Peek()
	assert.Equal(t, "X", top)
	for _, info := range st.Entries() {
		assert.NotEqual(t, 1, info.Index, "popped entry still listed")
	}

	// Only an explicit push brings Y back.
	st.Push(got)
	top, _ = st.Peek()
	assert.Equal(t, "Y", top)
}

func TestStackPopReleasesSlot(t *testing.T) {
	st := NewStack[string]()
	st.Push("X")
	st.Push("Y")
	st.Pop()

	st.mu.Lock()
	backing := st.seq.entries[:cap(st.seq.entries)]
	st.mu.Unlock()
	for i := 1; i < len(backing); i++ {
		assert.Empty(t, backing[i].Snapshot)
	}
}

func TestStackEntries(t *testing.T) {
	st := NewStack[string]()
	st.Push("A")
	st.Push("B")

	infos := st.Entries()
	require.Len(t, infos, 2)
	assert.False(t, infos[0].Current)
	assert.True(t, infos[1].Current)
}

func TestStackListeners(t *testing.T) {
	st := NewStack[string]()

	var changes []Change
	st.OnChange(func(c Change) { changes = append(changes, c) })

	pushed := st.Push("A")
	st.Push("B")
	st.Pop()
	st.Pop()
	st.Pop() // empty, no change
	st.Push("C")
	st.Clear()

	require.Len(t, changes, 6)
	assert.Equal(t, ChangePush, changes[0].Kind)
	assert.Equal(t, pushed.ID, changes[0].EntryID)
	assert.Equal(t, 0, changes[0].Pos)
	assert.Equal(t, ChangePop, changes[2].Kind)
	assert.Equal(t, 0, changes[2].Pos)
	assert.Equal(t, ChangePop, changes[3].Kind)
	assert.Equal(t, -1, changes[3].Pos)
	assert.Equal(t, ChangeClear, changes[5].Kind)
	assert.Equal(t, 1, changes[5].Discarded)
}

func TestStackGameScenario(t *testing.T) {
	st := NewStack[state.GameState]()

	st.Push(state.NewGameState(1, 100, "Start"))
	st.Push(state.NewGameState(2, 80, "Enchanted Forest"))
	st.Push(state.NewGameState(3, 50, "Dark Cave"))

	got, ok := st.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, got.Level())
	assert.Equal(t, 50, got.Health())
	assert.Equal(t, "Dark Cave", got.Position())
	assert.Equal(t, 2, st.Len())
}

func TestChangeKindString(t *testing.T) {
	tests := []struct {
		kind ChangeKind
		want string
	}{
		{ChangeSave, "save"},
		{ChangeTruncate, "truncate"},
		{ChangeUndo, "undo"},
		{ChangeRedo, "redo"},
		{ChangePush, "push"},
		{ChangePop, "pop"},
		{ChangeClear, "clear"},
		{ChangeKind(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
