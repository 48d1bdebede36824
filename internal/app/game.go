package app

import (
	"sync"

	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/engine/state"
	"github.com/dshills/rewind/internal/logging"
)

// GameSession pairs a working game state with a checkpoint stack.
//
// Play changes only the working state. Checkpoint saves it and Rollback
// restores the most recent checkpoint, consuming it.
type GameSession struct {
	mu sync.Mutex

	working     state.GameState
	checkpoints *history.Stack[state.GameState]
	policy      state.KeyPolicy

	log     *logging.Logger
	metrics *Metrics
}

// NewGameSession creates a session with no checkpoints.
func NewGameSession(initial state.GameState, opts ...Option) *GameSession {
	o := buildOptions(opts)
	log := o.logger.WithComponent("game")

	s := &GameSession{
		working:     initial,
		checkpoints: history.NewStack[state.GameState](o.historyOpts...),
		policy:      o.policy,
		log:         log,
		metrics:     NewMetrics(),
	}
	s.checkpoints.OnChange(historyLogger(log))
	s.checkpoints.OnChange(s.metrics.Record)

	log.Info("session started: %s", initial)
	return s
}

// Play applies overrides to the working state without recording them.
func (s *GameSession) Play(o state.GameOverrides) state.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.working = s.working.Derive(o)
	s.log.Debug("played: %s", s.working)
	return s.working
}

// PlayFromMap parses dynamic overrides with the session's key policy and
// applies them like Play.
func (s *GameSession) PlayFromMap(values map[string]any) (state.GameState, error) {
	o, err := state.ParseGameOverrides(values, s.policy)
	if err != nil {
		return state.GameState{}, NewOperationError("play", "game", err)
	}
	return s.playParsed(o)
}

// PlayFromJSON parses a JSON object of overrides and applies them like Play.
func (s *GameSession) PlayFromJSON(data string) (state.GameState, error) {
	o, err := state.GameOverridesFromJSON(data, s.policy)
	if err != nil {
		return state.GameState{}, NewOperationError("play", "game", err)
	}
	return s.playParsed(o)
}

func (s *GameSession) playParsed(o state.GameOverrides) (state.GameState, error) {
	if o.IsEmpty() {
		return state.GameState{}, NewOperationError("play", "game", ErrEmptyOverrides)
	}
	return s.Play(o), nil
}

// Checkpoint pushes a copy of the working state.
func (s *GameSession) Checkpoint() history.Entry[state.GameState] {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.checkpoints.Push(s.working.Derive(state.GameOverrides{}))
	s.log.Info("checkpoint %d: %s", s.checkpoints.Len(), s.working)
	return entry
}

// Rollback restores and removes the most recent checkpoint.
// Returns false, leaving the working state unchanged, if there is none.
func (s *GameSession) Rollback() (state.GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.checkpoints.Pop()
	if !ok {
		s.metrics.RecordExhausted()
		s.log.Warn("no checkpoint to roll back to")
		return state.GameState{}, false
	}
	s.working = snap
	s.log.Info("rolled back: %s", snap)
	return snap, true
}

// Current returns the working state.
func (s *GameSession) Current() state.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working
}

// Checkpoints returns the number of saved checkpoints.
func (s *GameSession) Checkpoints() int {
	return s.checkpoints.Len()
}

// History returns the checkpoint stack for inspection.
func (s *GameSession) History() *history.Stack[state.GameState] {
	return s.checkpoints
}

// Metrics returns the session's history counters.
func (s *GameSession) Metrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}
