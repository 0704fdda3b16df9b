// Package cli — list.go implements the "lane list" command.
//
// The list command shows the main repository followed by every registered
// lane, marking the one the shell is currently in. With --interactive a
// selector opens and the chosen lane becomes the new working directory.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/picker"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	// interactive opens the lane selector instead of printing a table.
	interactive bool
}

func (a *app) newListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all lanes",
		Long: `List the main repository and all lanes.

Examples:
  lane list
  lane ls -i
  lane list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Show interactive selector")

	return cmd
}

func (a *app) runList(flags *listFlags) error {
	entries := a.lanes.ListAll(a.cwd)
	a.VerboseLog("Found %d lane(s)", len(entries))

	if a.jsonOutput {
		type resultJSON struct {
			Lanes []model.LaneEntry `json:"lanes"`
		}
		// An empty slice renders as [] instead of null.
		out := resultJSON{Lanes: make([]model.LaneEntry, 0, len(entries))}
		out.Lanes = append(out.Lanes, entries...)
		return a.printJSON(out)
	}

	if len(entries) == 0 {
		a.printf("No lanes found. Create one with: lane new <name>\n")
		return nil
	}

	if !flags.interactive {
		a.printf("%s", FormatLaneTable(entries))
		return nil
	}

	sel := picker.NewSelect(entries)
	if err := a.runPicker(sel, func() string { return renderSelect(sel) }); err != nil {
		return err
	}
	if out := sel.Outcome(); out.Action == picker.ActionSwitch {
		a.emit(model.ChangeDir{Path: out.Lanes[0].Path})
	}
	return nil
}
