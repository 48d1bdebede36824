package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a stored snapshot with metadata.
type Entry[T any] struct {
	ID        uuid.UUID // Unique per stored snapshot
	Snapshot  T         // The snapshot value
	Timestamp time.Time // When the snapshot was recorded
}

// EntryInfo provides read-only info about an entry.
// Used for displaying history to users without exposing snapshots.
type EntryInfo struct {
	ID        uuid.UUID
	Index     int
	Timestamp time.Time
	Current   bool // True for the timeline cursor or the stack top
}

// Option configures a Timeline or Stack.
type Option func(*options)

type options struct {
	clock func() time.Time
	newID func() uuid.UUID
}

// WithClock sets the time source used to stamp entries.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithIDGenerator sets the function used to assign entry IDs.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		clock: time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// sequence is the ordered store shared by Timeline and Stack.
// It is not safe for concurrent use; owners hold their own lock.
type sequence[T any] struct {
	entries []Entry[T]
	opts    options
}

func newSequence[T any](opts []Option) sequence[T] {
	return sequence[T]{opts: buildOptions(opts)}
}

func (s *sequence[T]) size() int {
	return len(s.entries)
}

// append records snap as the newest entry.
func (s *sequence[T]) append(snap T) Entry[T] {
	entry := Entry[T]{
		ID:        s.opts.newID(),
		Snapshot:  snap,
		Timestamp: s.opts.clock(),
	}
	s.entries = append(s.entries, entry)
	return entry
}

// at returns the entry at index i. The caller checks bounds.
func (s *sequence[T]) at(i int) Entry[T] {
	return s.entries[i]
}

// truncateAfter drops every entry after index i and returns how many were
// dropped. Released slots are zeroed so their snapshots can be collected.
func (s *sequence[T]) truncateAfter(i int) int {
	keep := i + 1
	if keep < 0 {
		keep = 0
	}
	if keep >= len(s.entries) {
		return 0
	}

	dropped := len(s.entries) - keep
	clear(s.entries[keep:])
	s.entries = s.entries[:keep]
	return dropped
}

// removeLast pops the newest entry.
func (s *sequence[T]) removeLast() (Entry[T], bool) {
	if len(s.entries) == 0 {
		return Entry[T]{}, false
	}

	last := len(s.entries) - 1
	entry := s.entries[last]
	s.entries[last] = Entry[T]{}
	s.entries = s.entries[:last]
	return entry, true
}

// reset drops all entries.
func (s *sequence[T]) reset() int {
	n := len(s.entries)
	s.entries = nil
	return n
}

// infos describes every entry, marking current as the active index.
func (s *sequence[T]) infos(current int) []EntryInfo {
	result := make([]EntryInfo, len(s.entries))
	for i, entry := range s.entries {
		result[i] = EntryInfo{
			ID:        entry.ID,
			Index:     i,
			Timestamp: entry.Timestamp,
			Current:   i == current,
		}
	}
	return result
}
