package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current lane status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus()
		},
	}
}

func (a *app) runStatus() error {
	if _, err := a.lanes.MainRoot(a.cwd); err != nil {
		return err
	}

	current, ok := a.lanes.Status(a.cwd)
	if a.jsonOutput {
		return a.printJSON(map[string]interface{}{"current": current})
	}

	if !ok {
		a.printf("Not in a known lane\n")
		return nil
	}
	a.printf("Current lane: %s\n", current.Name)
	a.printf("  Branch: %s\n", current.Branch)
	a.printf("  Path: %s\n", current.Path)
	return nil
}
