package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/script"
)

func newRunCmd(c *cli) *cobra.Command {
	var timeout = script.DefaultTimeout

	cmd := &cobra.Command{
		Use:   "run <script.lua>",
		Short: "Run a Lua script against fresh editor and game sessions",
		Long: `Runs a sandboxed Lua script. The script sees an "editor" module
(edit, undo, redo, commit, current, history) and a "game" module (play,
checkpoint, rollback, current, checkpoints).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := script.New(c.newEditorSession(), c.newGameSession(),
				script.WithOutput(c.out),
				script.WithTimeout(timeout),
				script.WithLogger(c.log),
			)
			defer runner.Close()

			return runner.RunFile(cmd.Context(), args[0])
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", timeout, "maximum script run time (0 disables)")
	return cmd
}
