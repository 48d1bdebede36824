package history

import "sync"

// Timeline is a linear undo/redo history of snapshots.
//
// The cursor points at the current entry and is -1 only while the timeline
// is empty. Saving after one or more undos discards the entries after the
// cursor before appending.
type Timeline[T any] struct {
	mu sync.Mutex

	seq sequence[T]
	pos int

	listeners []Listener
}

// NewTimeline creates an empty timeline.
func NewTimeline[T any](opts ...Option) *Timeline[T] {
	return &Timeline[T]{
		seq: newSequence[T](opts),
		pos: -1,
	}
}

// OnChange registers a listener for completed mutations.
func (t *Timeline[T]) OnChange(l Listener) {
	if l == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// lock acquires the mutex and validates the cursor for op.
// The caller must defer the returned unlock before anything else.
func (t *Timeline[T]) lock(op string) func() {
	t.mu.Lock()
	if pos, n := t.pos, t.seq.size(); pos < -1 || pos > n-1 {
		t.mu.Unlock()
		checkCursor(op, pos, n)
	}
	return t.mu.Unlock
}

// Save records snap as the new current entry.
// Entries after the cursor are discarded first.
func (t *Timeline[T]) Save(snap T) Entry[T] {
	entry, changes, listeners := t.save(snap)
	notify(listeners, changes...)
	return entry
}

func (t *Timeline[T]) save(snap T) (Entry[T], []Change, []Listener) {
	defer t.lock("save")()

	var changes []Change
	if t.pos < t.seq.size()-1 {
		dropped := t.seq.truncateAfter(t.pos)
		changes = append(changes, Change{
			Kind:      ChangeTruncate,
			Pos:       t.pos,
			Len:       t.seq.size(),
			Discarded: dropped,
		})
	}

	entry := t.seq.append(snap)
	t.pos = t.seq.size() - 1
	checkCursor("save", t.pos, t.seq.size())

	changes = append(changes, Change{
		Kind:    ChangeSave,
		Pos:     t.pos,
		Len:     t.seq.size(),
		EntryID: entry.ID,
	})
	return entry, changes, t.listeners
}

// Undo moves the cursor back one entry and returns that snapshot.
// Returns false when there is nothing to undo: the timeline is empty or
// the cursor is already at the oldest entry.
func (t *Timeline[T]) Undo() (T, bool) {
	return t.step("undo", ChangeUndo, -1)
}

// Redo moves the cursor forward one entry and returns that snapshot.
// Returns false when the cursor is already at the newest entry.
func (t *Timeline[T]) Redo() (T, bool) {
	return t.step("redo", ChangeRedo, 1)
}

func (t *Timeline[T]) step(op string, kind ChangeKind, delta int) (T, bool) {
	entry, change, listeners, ok := t.move(op, kind, delta)
	if !ok {
		var zero T
		return zero, false
	}
	notify(listeners, change)
	return entry.Snapshot, true
}

func (t *Timeline[T]) move(op string, kind ChangeKind, delta int) (Entry[T], Change, []Listener, bool) {
	defer t.lock(op)()

	next := t.pos + delta
	if next < 0 || next > t.seq.size()-1 {
		return Entry[T]{}, Change{}, nil, false
	}

	t.pos = next
	entry := t.seq.at(t.pos)
	change := Change{Kind: kind, Pos: t.pos, Len: t.seq.size(), EntryID: entry.ID}
	return entry, change, t.listeners, true
}

// Current returns the snapshot at the cursor.
// Returns false if the timeline is empty.
func (t *Timeline[T]) Current() (T, bool) {
	entry, ok := t.CurrentEntry()
	return entry.Snapshot, ok
}

// CurrentEntry returns the entry at the cursor.
func (t *Timeline[T]) CurrentEntry() (Entry[T], bool) {
	defer t.lock("current")()

	if t.pos < 0 {
		return Entry[T]{}, false
	}
	return t.seq.at(t.pos), true
}

// Pos returns the cursor, or -1 when empty.
func (t *Timeline[T]) Pos() int {
	defer t.lock("pos")()
	return t.pos
}

// Len returns the number of stored entries, including redo entries.
func (t *Timeline[T]) Len() int {
	defer t.lock("len")()
	return t.seq.size()
}

// CanUndo returns true if undo is available.
func (t *Timeline[T]) CanUndo() bool {
	defer t.lock("can undo")()
	return t.pos > 0
}

// CanRedo returns true if redo is available.
func (t *Timeline[T]) CanRedo() bool {
	defer t.lock("can redo")()
	return t.pos < t.seq.size()-1
}

// UndoCount returns how many undo steps are available.
func (t *Timeline[T]) UndoCount() int {
	defer t.lock("undo count")()
	if t.pos <= 0 {
		return 0
	}
	return t.pos
}

// RedoCount returns how many redo steps are available.
func (t *Timeline[T]) RedoCount() int {
	defer t.lock("redo count")()
	return t.seq.size() - 1 - t.pos
}

// Entries returns info about every entry, oldest first.
func (t *Timeline[T]) Entries() []EntryInfo {
	defer t.lock("entries")()
	return t.seq.infos(t.pos)
}

// Clear removes all entries and resets the cursor.
// A corrupt cursor is discarded along with the entries.
func (t *Timeline[T]) Clear() {
	t.mu.Lock()
	dropped := t.seq.reset()
	t.pos = -1
	listeners := t.listeners
	t.mu.Unlock()

	notify(listeners, Change{Kind: ChangeClear, Pos: -1, Discarded: dropped})
}
