package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dshills/rewind/internal/engine/history"
)

// Metrics counts history activity for a session.
type Metrics struct {
	saves     atomic.Uint64
	truncated atomic.Uint64
	undos     atomic.Uint64
	redos     atomic.Uint64
	pushes    atomic.Uint64
	pops      atomic.Uint64
	exhausted atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// Record counts a completed history change. It is a history.Listener.
func (m *Metrics) Record(change history.Change) {
	switch change.Kind {
	case history.ChangeSave:
		m.saves.Add(1)
	case history.ChangeTruncate:
		m.truncated.Add(uint64(change.Discarded))
	case history.ChangeUndo:
		m.undos.Add(1)
	case history.ChangeRedo:
		m.redos.Add(1)
	case history.ChangePush:
		m.pushes.Add(1)
	case history.ChangePop:
		m.pops.Add(1)
	}
}

// RecordExhausted counts a navigation that had nowhere to go.
func (m *Metrics) RecordExhausted() {
	m.exhausted.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Saves:     m.saves.Load(),
		Truncated: m.truncated.Load(),
		Undos:     m.undos.Load(),
		Redos:     m.redos.Load(),
		Pushes:    m.pushes.Load(),
		Pops:      m.pops.Load(),
		Exhausted: m.exhausted.Load(),
		Uptime:    time.Since(m.startTime),
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Saves     uint64
	Truncated uint64 // Entries discarded by saves after undo
	Undos     uint64
	Redos     uint64
	Pushes    uint64
	Pops      uint64
	Exhausted uint64 // Undo, redo, or rollback with nothing to restore
	Uptime    time.Duration
}

// String returns a one-line summary.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("saves=%d truncated=%d undos=%d redos=%d pushes=%d pops=%d exhausted=%d",
		s.Saves, s.Truncated, s.Undos, s.Redos, s.Pushes, s.Pops, s.Exhausted)
}
