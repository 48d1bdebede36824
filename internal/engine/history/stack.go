package history

import "sync"

// Stack is a checkpoint/rollback history of snapshots.
// The newest entry is always current. There is no redo: a popped
// snapshot is gone unless the caller pushes it again.
type Stack[T any] struct {
	mu sync.Mutex

	seq sequence[T]

	listeners []Listener
}

// NewStack creates an empty stack.
func NewStack[T any](opts ...Option) *Stack[T] {
	return &Stack[T]{
		seq: newSequence[T](opts),
	}
}

// OnChange registers a listener for completed mutations.
func (s *Stack[T]) OnChange(l Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Push records snap as the new top.
func (s *Stack[T]) Push(snap T) Entry[T] {
	entry, change, listeners := s.push(snap)
	notify(listeners, change)
	return entry
}

func (s *Stack[T]) push(snap T) (Entry[T], Change, []Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.seq.append(snap)
	top := s.seq.size() - 1
	checkCursor("push", top, s.seq.size())
	return entry, Change{Kind: ChangePush, Pos: top, Len: s.seq.size(), EntryID: entry.ID}, s.listeners
}

// Pop removes and returns the top snapshot.
// Returns false if the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	entry, change, listeners, ok := s.pop()
	if !ok {
		var zero T
		return zero, false
	}
	notify(listeners, change)
	return entry.Snapshot, true
}

func (s *Stack[T]) pop() (Entry[T], Change, []Listener, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.seq.removeLast()
	if !ok {
		return Entry[T]{}, Change{}, nil, false
	}

	top := s.seq.size() - 1
	checkCursor("pop", top, s.seq.size())
	change := Change{Kind: ChangePop, Pos: top, Len: s.seq.size(), Discarded: 1, EntryID: entry.ID}
	return entry, change, s.listeners, true
}

// Peek returns the top snapshot without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq.size() == 0 {
		var zero T
		return zero, false
	}
	return s.seq.at(s.seq.size() - 1).Snapshot, true
}

// Len returns the number of stored snapshots.
func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.size()
}

// Entries returns info about every entry, bottom first.
func (s *Stack[T]) Entries() []EntryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.infos(s.seq.size() - 1)
}

// Clear removes all snapshots.
func (s *Stack[T]) Clear() {
	s.mu.Lock()
	dropped := s.seq.reset()
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, Change{Kind: ChangeClear, Pos: -1, Discarded: dropped})
}
