package app

import (
	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/engine/state"
	"github.com/dshills/rewind/internal/logging"
)

// Option configures a session.
type Option func(*sessionOptions)

type sessionOptions struct {
	logger      *logging.Logger
	policy      state.KeyPolicy
	historyOpts []history.Option
}

// WithLogger sets the session logger. Defaults to a discarding logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *sessionOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithKeyPolicy sets how dynamic overrides treat unknown keys.
// Defaults to state.RejectUnknown.
func WithKeyPolicy(p state.KeyPolicy) Option {
	return func(o *sessionOptions) {
		o.policy = p
	}
}

// WithHistoryOptions passes options through to the underlying history.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(o *sessionOptions) {
		o.historyOpts = append(o.historyOpts, opts...)
	}
}

func buildOptions(opts []Option) sessionOptions {
	o := sessionOptions{
		logger: logging.Nop(),
		policy: state.RejectUnknown,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// historyLogger returns a listener that logs changes at debug level.
func historyLogger(log *logging.Logger) history.Listener {
	return func(change history.Change) {
		log.WithField("entry", change.EntryID).Debug("history %s", change)
	}
}
