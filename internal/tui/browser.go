// Package tui provides an interactive terminal view of an editor session.
//
// Typed text is appended to the content and saved to the timeline. Keys:
//
//	Backspace      delete the last character
//	Ctrl-Z         undo
//	Ctrl-Y         redo
//	Ctrl-S         commit (mark clean)
//	Esc, Ctrl-C    quit
package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/engine/state"
	"github.com/dshills/rewind/internal/logging"
)

var (
	styleText    = tcell.StyleDefault
	styleStatus  = tcell.StyleDefault.Reverse(true)
	styleHeader  = tcell.StyleDefault.Bold(true)
	styleCurrent = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleEntry   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Browser renders an EditorSession and maps keys to session operations.
type Browser struct {
	screen  tcell.Screen
	session *app.EditorSession
	log     *logging.Logger

	mu      sync.Mutex
	message string
}

// notice carries a status message posted from another goroutine.
type notice struct{ text string }

// quitRequest stops Run when posted.
type quitRequest struct{}

// New creates a browser drawing to screen. The screen must not be
// initialized; Run initializes and finalizes it.
func New(screen tcell.Screen, session *app.EditorSession, log *logging.Logger) *Browser {
	if log == nil {
		log = logging.Nop()
	}
	return &Browser{
		screen:  screen,
		session: session,
		log:     log.WithComponent("tui"),
	}
}

// Run processes events until the user quits or ctx is cancelled.
func (b *Browser) Run(ctx context.Context) error {
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer b.screen.Fini()

	stop := context.AfterFunc(ctx, func() {
		_ = b.screen.PostEvent(tcell.NewEventInterrupt(quitRequest{}))
	})
	defer stop()

	b.draw()
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if b.handle(ev) {
			return nil
		}
		b.draw()
	}
}

// Notify shows text in the status line. It is safe to call from any goroutine.
func (b *Browser) Notify(text string) {
	_ = b.screen.PostEvent(tcell.NewEventInterrupt(notice{text: text}))
}

// handle applies one event and reports whether the browser should quit.
func (b *Browser) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return b.handleKey(ev)
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case quitRequest:
			return true
		case notice:
			b.setMessage(data.text)
		}
	case *tcell.EventResize:
		b.screen.Sync()
	}
	return false
}

func (b *Browser) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyCtrlZ:
		if _, ok := b.session.Undo(); !ok {
			b.setMessage("nothing to undo")
			return false
		}
		b.setMessage("undo")
	case tcell.KeyCtrlY:
		if _, ok := b.session.Redo(); !ok {
			b.setMessage("nothing to redo")
			return false
		}
		b.setMessage("redo")
	case tcell.KeyCtrlS:
		b.session.Commit()
		b.setMessage("committed")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		content := b.session.Current().Content()
		if content == "" {
			return false
		}
		b.setContent(dropLastGrapheme(content))
		b.setMessage("")
	case tcell.KeyEnter:
		b.setContent(b.session.Current().Content() + "\n")
		b.setMessage("")
	case tcell.KeyRune:
		b.setContent(b.session.Current().Content() + string(ev.Rune()))
		b.setMessage("")
	}
	return false
}

// setContent saves content with the cursor at its end.
func (b *Browser) setContent(content string) {
	b.session.Edit(state.EditorOverrides{
		Content: state.Ptr(content),
		Cursor:  state.Ptr(uniseg.GraphemeClusterCount(content)),
	})
}

func (b *Browser) setMessage(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = text
}

func (b *Browser) currentMessage() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

// dropLastGrapheme removes the final user-perceived character.
func dropLastGrapheme(s string) string {
	last := 0
	rest := s
	offset := 0
	gstate := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, gstate = uniseg.FirstGraphemeClusterInString(rest, gstate)
		last = offset
		offset += len(cluster)
	}
	return s[:last]
}
