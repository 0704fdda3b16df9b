package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lane/internal/model"
)

func (a *app) newSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <name>",
		Short: "Switch to a lane",
		Long: `Switch the shell to a lane's directory. "main" and "origin" always refer to
the main repository.

Examples:
  lane switch feature-auth
  lane switch main`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSwitch(args[0])
		},
	}
}

func (a *app) runSwitch(name string) error {
	target, ok := a.lanes.ResolveSwitchTarget(name, a.cwd)
	if !ok {
		return model.NewCLIError(model.ExitLaneNotFound, fmt.Sprintf("lane %q not found", name))
	}

	if a.jsonOutput {
		return a.printJSON(target)
	}
	a.emit(model.ChangeDir{Path: target.Path})
	return nil
}
