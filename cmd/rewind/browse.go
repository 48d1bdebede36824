package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/tui"
)

// ErrNotTerminal is returned by browse when stdout is not a terminal.
var ErrNotTerminal = errors.New("browse needs an interactive terminal")

const reloadDebounce = 200 * time.Millisecond

func newBrowseCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Edit interactively and browse the undo timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return ErrNotTerminal
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			return c.browse(cmd.Context(), screen)
		},
	}
}

// browse runs the terminal browser, reloading configuration on change.
func (c *cli) browse(ctx context.Context, screen tcell.Screen) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The screen owns the terminal while the browser runs.
	c.log.SetOutput(io.Discard)
	defer c.log.SetOutput(c.errOut)

	session := c.newEditorSession()
	browser := tui.New(screen, session, c.log)

	if c.configPath != "" {
		stop, err := config.Watch(ctx, c.configOptions(), reloadDebounce, func(cfg config.Config, err error) {
			if err != nil {
				browser.Notify(fmt.Sprintf("config reload failed: %v", err))
				return
			}
			c.log.SetLevel(cfg.LogLevel())
			browser.Notify("config reloaded")
		})
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		defer func() { _ = stop() }()
	}

	return browser.Run(ctx)
}
