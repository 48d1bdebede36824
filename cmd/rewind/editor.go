package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/engine/state"
)

func newEditorCmd(c *cli) *cobra.Command {
	var (
		edits  []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "editor",
		Short: "Walk an editor document through edit, undo, and redo",
		Long: `Starts from the configured editor state, makes one change, undoes it,
and redoes it. Each --set adds a further edit given as a JSON object, for
example --set '{"content":"Second change","cursor":13}'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runEditor(newReport(c.out, asJSON), edits)
		},
	}

	cmd.Flags().StringArrayVar(&edits, "set", nil, "apply a JSON object of overrides as an extra edit (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the walkthrough as JSON")
	return cmd
}

func (c *cli) runEditor(r *report, edits []string) error {
	s := c.newEditorSession()

	if err := r.step("Initial state", s.Current()); err != nil {
		return err
	}

	first := s.Edit(state.EditorOverrides{
		Content: state.Ptr("First change"),
		Cursor:  state.Ptr(12),
	})
	if err := r.step("After first change", first); err != nil {
		return err
	}

	snap, ok := s.Undo()
	if err := stepOrNote(r, "After undo", snap, ok, "nothing to undo"); err != nil {
		return err
	}
	snap, ok = s.Redo()
	if err := stepOrNote(r, "After redo", snap, ok, "nothing to redo"); err != nil {
		return err
	}

	for _, edit := range edits {
		next, err := s.EditFromJSON(edit)
		if err != nil {
			return err
		}
		if err := r.step("After edit", next); err != nil {
			return err
		}
	}

	tl := s.History()
	if err := r.set("position", tl.Pos()); err != nil {
		return err
	}
	if err := r.set("entries", tl.Len()); err != nil {
		return err
	}
	c.log.Debug("editor metrics: %s", s.Metrics())
	return r.flush()
}
