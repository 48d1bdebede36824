// Package script runs sandboxed Lua scripts against editor and game sessions.
//
// Scripts see two global modules:
//
//	editor.edit{content = "x", cursor = 1, dirty = true}
//	editor.undo()      -- state table, or nil when there is nothing to undo
//	editor.redo()
//	editor.commit()
//	editor.current()
//	editor.history()   -- {pos = 1, len = 2, can_undo = true, can_redo = false}
//
//	game.play{level = 2, health = 80, position = "Forest", inventory = {"sword"}}
//	game.checkpoint()  -- number of checkpoints after the push
//	game.rollback()    -- state table, or nil when there is no checkpoint
//	game.current()
//	game.checkpoints()
//
// Rejected overrides raise a Lua error.
package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/logging"
)

// DefaultTimeout bounds a single script execution.
const DefaultTimeout = 5 * time.Second

// Runner wraps a gopher-lua state bound to a pair of sessions.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes Run
// calls from Go.
type Runner struct {
	L *lua.LState

	mu sync.Mutex

	editor *app.EditorSession
	game   *app.GameSession

	output  io.Writer
	timeout time.Duration
	log     *logging.Logger

	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput redirects print. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.output = w
		}
	}
}

// WithTimeout sets the execution timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger sets the runner logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a sandboxed runner driving the given sessions.
// Either session may be nil, in which case its module is not installed.
func New(editor *app.EditorSession, game *app.GameSession, opts ...Option) *Runner {
	r := &Runner{
		editor:  editor,
		game:    game,
		output:  os.Stdout,
		timeout: DefaultTimeout,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("script")

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	installSandbox(r.L, r.output)

	if editor != nil {
		registerEditor(r.L, editor)
	}
	if game != nil {
		registerGame(r.L, game)
	}
	return r
}

// Run executes Lua source. name labels the chunk in error messages.
func (r *Runner) Run(ctx context.Context, name, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	fn, err := r.L.Load(strings.NewReader(code), name)
	if err != nil {
		return &Error{Name: name, Err: err}
	}
	return r.call(ctx, name, fn)
}

// RunFile executes a Lua file.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return r.Run(ctx, path, string(code))
}

func (r *Runner) call(ctx context.Context, name string, fn *lua.LFunction) (err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()
	defer r.L.SetTop(0)

	defer func() {
		if p := recover(); p != nil {
			err = &Error{Name: name, Err: fmt.Errorf("lua panic: %v", p)}
		}
	}()

	start := time.Now()
	r.L.Push(fn)
	if err := r.L.PCall(0, lua.MultRet, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Name: name, Err: ctxErr}
		}
		return &Error{Name: name, Err: err}
	}

	r.log.Debug("ran %s in %s", name, time.Since(start))
	return nil
}

// Close releases the Lua state. It is safe to call more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}
