// Package cli — remove.go implements the "lane remove" command.
//
// The remove command deletes a lane's worktree directory and drops it from
// the registry. The branch is kept unless --delete-branch is given. When
// git refuses to remove the worktree (uncommitted changes, locks), --force
// deletes the directory outright.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lane/internal/lane"
	"github.com/shinji-kodama/lane/internal/model"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	// deleteBranch also deletes the lane's branch.
	deleteBranch bool

	// force falls back to deleting the directory and force-deletes the
	// branch.
	force bool
}

func (a *app) newRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a lane",
		Long: `Remove a lane's directory and registry entry. The branch is kept unless
--delete-branch is given.

Examples:
  lane remove feature-auth
  lane rm feature-auth -d
  lane rm feature-auth --force`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRemove(args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.deleteBranch, "delete-branch", "d", false, "Also delete the associated branch")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Force removal even if there are uncommitted changes")

	return cmd
}

func (a *app) runRemove(name string, flags *removeFlags) error {
	if model.IsReservedName(name) {
		return model.NewCLIError(model.ExitGeneralError, "cannot remove the main repository")
	}
	if !a.jsonOutput {
		a.printf("Removing lane %q...\n", name)
	}

	res, err := a.lanes.Remove(name, lane.RemoveOptions{
		DeleteBranch: flags.deleteBranch,
		Force:        flags.force,
		Cwd:          a.cwd,
	})
	if err != nil {
		return err
	}

	a.printRemoveResult(res)
	return nil
}

func (a *app) printRemoveResult(res *lane.RemoveResult) {
	if a.jsonOutput {
		warnings := res.Warnings
		if warnings == nil {
			warnings = []model.Warning{}
		}
		_ = a.printJSON(map[string]interface{}{
			"name":             res.Lane.Name,
			"path":             res.Lane.Path,
			"branch":           res.Lane.Branch,
			"worktreeRemoved":  res.WorktreeRemoved,
			"directoryDeleted": res.DirectoryDeleted,
			"branchDeleted":    res.BranchDeleted,
			"warnings":         warnings,
		})
		return
	}

	a.printf("Lane %q removed successfully!\n", res.Lane.Name)
	if res.BranchDeleted {
		a.printf("  Deleted branch %s\n", res.Lane.Branch)
	}
	for _, w := range res.Warnings {
		a.printf("  Warning: %s\n", w.Message)
	}
}

// removeLanes removes several lanes, reporting each one, and returns the
// combined errors.
func (a *app) removeLanes(entries []model.LaneEntry) error {
	var errs []error
	for _, e := range entries {
		res, err := a.lanes.Remove(e.Name, lane.RemoveOptions{Cwd: a.cwd})
		if err != nil {
			errs = append(errs, err)
			a.logger.Error("failed to remove lane", "lane", e.Name, "err", err)
			continue
		}
		a.printRemoveResult(res)
	}
	if len(errs) > 0 {
		return model.WrapCLIError(model.CodeOf(errs[0]),
			fmt.Sprintf("%d of %d lane(s) could not be removed", len(errs), len(entries)), errs[0])
	}
	return nil
}
