// Package history provides snapshot-based undo/redo for arbitrary state.
//
// The history system stores full, immutable copies of caller state rather
// than reversible commands. The payload type is opaque to this package;
// callers own their working copy and hand finished snapshots over. Key
// concepts:
//
// # Entries
//
// Every stored snapshot is wrapped in an Entry carrying:
//   - A unique ID, stable for the lifetime of the entry
//   - The snapshot value itself
//   - The time it was recorded
//
// # Timeline
//
// Timeline keeps a cursor into the ordered entries and supports travel in
// both directions:
//
//	tl := NewTimeline[state.EditorState]()
//
//	tl.Save(initial)
//	tl.Save(edited)
//
//	prev, ok := tl.Undo() // ok is false when already at the oldest entry
//	next, ok := tl.Redo() // ok is false when already at the newest entry
//
// Saving after an undo discards every entry after the cursor. The abandoned
// future is gone; there is no branch tree.
//
// # Stack
//
// Stack is the checkpoint/rollback variant. Push records a snapshot and Pop
// removes and returns the newest one:
//
//	st := NewStack[state.GameState]()
//	st.Push(checkpoint)
//	last, ok := st.Pop() // ok is false when the stack is empty
//
// A popped snapshot is not retained anywhere; there is no redo.
//
// # Concurrency
//
// Each Timeline and Stack guards its entries and cursor with a single
// mutex. Change listeners are invoked after the lock is released.
package history
