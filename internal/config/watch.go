package config

import (
	"context"
	"time"

	"github.com/dshills/rewind/internal/config/watcher"
)

// ReloadFunc receives the result of a reload. On error, cfg is the zero
// Config and the previous configuration should stay in effect.
type ReloadFunc func(cfg Config, err error)

// Watch reloads the configuration whenever opts.Path changes and passes
// the result to fn. It returns once the watcher is running; call the
// returned stop function, or cancel ctx, to stop watching.
func Watch(ctx context.Context, opts Options, debounce time.Duration, fn ReloadFunc) (stop func() error, err error) {
	w, err := watcher.New(opts.Path,
		watcher.WithDebounce(debounce),
		watcher.WithErrorHandler(func(err error) { fn(Config{}, err) }),
	)
	if err != nil {
		return nil, err
	}

	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		fn(Load(opts))
	})

	if err := w.Start(ctx); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w.Close, nil
}
