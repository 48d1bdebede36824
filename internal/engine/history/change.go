package history

import (
	"fmt"

	"github.com/google/uuid"
)

// ChangeKind identifies what a history mutation did.
type ChangeKind int

const (
	// ChangeSave indicates a snapshot was saved to a timeline.
	ChangeSave ChangeKind = iota
	// ChangeTruncate indicates abandoned redo entries were discarded.
	ChangeTruncate
	// ChangeUndo indicates the timeline cursor moved back.
	ChangeUndo
	// ChangeRedo indicates the timeline cursor moved forward.
	ChangeRedo
	// ChangePush indicates a snapshot was pushed onto a stack.
	ChangePush
	// ChangePop indicates the top snapshot was popped from a stack.
	ChangePop
	// ChangeClear indicates all entries were removed.
	ChangeClear
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeSave:
		return "save"
	case ChangeTruncate:
		return "truncate"
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	case ChangePush:
		return "push"
	case ChangePop:
		return "pop"
	case ChangeClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Change describes a completed history mutation.
type Change struct {
	Kind ChangeKind

	// Pos is the cursor after the change. For stacks it is the top index.
	Pos int

	// Len is the number of entries after the change.
	Len int

	// Discarded counts entries released by the change (truncate, pop, clear).
	Discarded int

	// EntryID is the entry saved, pushed, popped, or moved to.
	// Zero for truncate and clear.
	EntryID uuid.UUID
}

// String returns a compact description for logs.
func (c Change) String() string {
	return fmt.Sprintf("%s pos=%d len=%d discarded=%d", c.Kind, c.Pos, c.Len, c.Discarded)
}

// Listener is called after a history mutation completes.
type Listener func(change Change)

// notify delivers changes to listeners in registration order.
func notify(listeners []Listener, changes ...Change) {
	for _, change := range changes {
		for _, l := range listeners {
			l(change)
		}
	}
}
