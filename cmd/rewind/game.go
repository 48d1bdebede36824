package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/engine/state"
)

// gameRound is one step of the checkpoint walkthrough.
type gameRound struct {
	level    int
	health   int
	position string
}

var gameRounds = []gameRound{
	{2, 80, "Enchanted Forest"},
	{3, 50, "Dark Cave"},
	{4, 30, "Dragon Castle"},
}

func newGameCmd(c *cli) *cobra.Command {
	var (
		plays  []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "game",
		Short: "Walk a game character through checkpoints and a rollback",
		Long: `Starts from the configured game state, checkpoints before each of three
rounds of play, then rolls back to the last checkpoint. Each --play adds a
further round given as a JSON object, for example --play '{"health":5}'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runGame(newReport(c.out, asJSON), plays)
		},
	}

	cmd.Flags().StringArrayVar(&plays, "play", nil, "checkpoint, then play a JSON object of overrides (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the walkthrough as JSON")
	return cmd
}

func (c *cli) runGame(r *report, plays []string) error {
	s := c.newGameSession()

	if err := r.step("Game started", s.Current()); err != nil {
		return err
	}

	for _, round := range gameRounds {
		s.Checkpoint()
		played := s.Play(state.GameOverrides{
			Level:    state.Ptr(round.level),
			Health:   state.Ptr(round.health),
			Position: state.Ptr(round.position),
		})
		if err := r.step("Playing", played); err != nil {
			return err
		}
	}

	for _, play := range plays {
		s.Checkpoint()
		played, err := s.PlayFromJSON(play)
		if err != nil {
			return err
		}
		if err := r.step("Playing", played); err != nil {
			return err
		}
	}

	if err := r.step("Before rollback", s.Current()); err != nil {
		return err
	}
	snap, ok := s.Rollback()
	if err := stepOrNote(r, "Restored", snap, ok, "no checkpoint"); err != nil {
		return err
	}

	if err := r.set("checkpoints", s.Checkpoints()); err != nil {
		return err
	}
	c.log.Debug("game metrics: %s", s.Metrics())
	return r.flush()
}
