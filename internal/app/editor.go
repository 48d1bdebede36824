package app

import (
	"sync"

	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/engine/state"
	"github.com/dshills/rewind/internal/logging"
)

// EditorSession pairs a working editor state with its undo/redo timeline.
//
// Every edit is saved to the timeline, so the working state always equals
// the timeline's current entry.
type EditorSession struct {
	mu sync.Mutex

	working state.EditorState
	history *history.Timeline[state.EditorState]
	policy  state.KeyPolicy

	log     *logging.Logger
	metrics *Metrics
}

// NewEditorSession creates a session whose timeline starts with initial.
func NewEditorSession(initial state.EditorState, opts ...Option) *EditorSession {
	o := buildOptions(opts)
	log := o.logger.WithComponent("editor")

	s := &EditorSession{
		working: initial,
		history: history.NewTimeline[state.EditorState](o.historyOpts...),
		policy:  o.policy,
		log:     log,
		metrics: NewMetrics(),
	}
	s.history.OnChange(historyLogger(log))
	s.history.OnChange(s.metrics.Record)
	s.history.Save(initial)

	log.Info("session started: %s", initial)
	return s
}

// Edit applies overrides to the working state and saves the result.
// The result is marked dirty unless the overrides set Dirty explicitly.
func (s *EditorSession) Edit(o state.EditorOverrides) state.EditorState {
	if o.Dirty == nil {
		o.Dirty = state.Ptr(true)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.working = s.working.Derive(o)
	s.history.Save(s.working)
	return s.working
}

// EditFromMap parses dynamic overrides with the session's key policy and
// applies them like Edit.
func (s *EditorSession) EditFromMap(values map[string]any) (state.EditorState, error) {
	o, err := state.ParseEditorOverrides(values, s.policy)
	if err != nil {
		return state.EditorState{}, NewOperationError("edit", "editor", err)
	}
	return s.editParsed(o)
}

// EditFromJSON parses a JSON object of overrides and applies them like Edit.
func (s *EditorSession) EditFromJSON(data string) (state.EditorState, error) {
	o, err := state.EditorOverridesFromJSON(data, s.policy)
	if err != nil {
		return state.EditorState{}, NewOperationError("edit", "editor", err)
	}
	return s.editParsed(o)
}

func (s *EditorSession) editParsed(o state.EditorOverrides) (state.EditorState, error) {
	if o.IsEmpty() {
		return state.EditorState{}, NewOperationError("edit", "editor", ErrEmptyOverrides)
	}
	return s.Edit(o), nil
}

// Commit saves a clean copy of the working state.
func (s *EditorSession) Commit() state.EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.working = s.working.Derive(state.EditorOverrides{Dirty: state.Ptr(false)})
	s.history.Save(s.working)
	s.log.Info("committed: %s", s.working)
	return s.working
}

// Undo restores the previous snapshot.
// Returns false, leaving the working state unchanged, if there is nothing to undo.
func (s *EditorSession) Undo() (state.EditorState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.history.Undo()
	if !ok {
		s.metrics.RecordExhausted()
		s.log.Debug("nothing to undo")
		return state.EditorState{}, false
	}
	s.working = snap
	return snap, true
}

// Redo restores the next snapshot.
// Returns false, leaving the working state unchanged, if there is nothing to redo.
func (s *EditorSession) Redo() (state.EditorState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.history.Redo()
	if !ok {
		s.metrics.RecordExhausted()
		s.log.Debug("nothing to redo")
		return state.EditorState{}, false
	}
	s.working = snap
	return snap, true
}

// Current returns the working state.
func (s *EditorSession) Current() state.EditorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working
}

// History returns the session timeline for inspection.
func (s *EditorSession) History() *history.Timeline[state.EditorState] {
	return s.history
}

// Metrics returns the session's history counters.
func (s *EditorSession) Metrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}
