package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/logging"
)

// cli holds state shared by all subcommands.
type cli struct {
	configPath string
	logLevel   string

	cfg config.Config
	log *logging.Logger

	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "rewind",
		Short: "Snapshot history for editor and game sessions",
		Long: `rewind records immutable snapshots of an editor document or a game
character and walks back and forth through them.

Configuration is read from a TOML or YAML file (--config or REWIND_CONFIG)
and REWIND_* environment variables.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", os.Getenv("REWIND_CONFIG"), "path to configuration file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newEditorCmd(c),
		newGameCmd(c),
		newRunCmd(c),
		newBrowseCmd(c),
		newVersionCmd(c),
	)
	return root
}

// setup loads configuration and builds the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configOptions())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.logLevel != "" {
		if _, ok := logging.ParseLogLevel(c.logLevel); !ok {
			return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", c.logLevel)
		}
		cfg.Logging.Level = c.logLevel
	}

	c.cfg = cfg
	c.log = logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: c.errOut,
		Prefix: "rewind",
	})
	c.log.Debug("configuration loaded from %q", c.configPath)
	return nil
}

func (c *cli) configOptions() config.Options {
	return config.Options{
		Path:     c.configPath,
		Required: c.configPath != "",
	}
}

func (c *cli) sessionOptions() []app.Option {
	return []app.Option{
		app.WithLogger(c.log),
		app.WithKeyPolicy(c.cfg.KeyPolicy()),
	}
}

func (c *cli) newEditorSession() *app.EditorSession {
	return app.NewEditorSession(c.cfg.InitialEditorState(), c.sessionOptions()...)
}

func (c *cli) newGameSession() *app.GameSession {
	return app.NewGameSession(c.cfg.InitialGameState(), c.sessionOptions()...)
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(c.out, "rewind %s\n", version)
			fmt.Fprintf(c.out, "Commit: %s\n", commit)
			fmt.Fprintf(c.out, "Built: %s\n", date)
		},
	}
}
