// Package cli — create.go implements the "lane new" command.
//
// The new command creates a lane next to the main repository:
//  1. A git worktree on the lane's branch (created when missing)
//  2. Untracked local files copied over from the main working tree
//  3. Dependencies installed when a lockfile is found
//  4. The lane recorded in the registry
//
// On success the last line of output asks the shell function to cd into
// the new lane.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lane/internal/lane"
	"github.com/shinji-kodama/lane/internal/model"
)

// createFlags holds the flag values for the new command.
type createFlags struct {
	// branch overrides the branch name, which defaults to the lane name.
	branch string

	// noInstall skips dependency installation.
	noInstall bool
}

func (a *app) newCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:     "new <name>",
		Aliases: []string{"create"},
		Short:   "Create a new lane",
		Long: `Create a new lane: a sibling working copy of the repository on its own
branch, with untracked local files (.env, configs) copied from the main
working tree and dependencies installed.

The lane is created at <parent>/<repo>-lane-<name>.

Examples:
  lane new feature-auth
  lane new hotfix -b fix/login-redirect
  lane new docs --no-install`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCreate(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.branch, "branch", "b", "", "Use a specific branch name (defaults to lane name)")
	cmd.Flags().BoolVar(&flags.noInstall, "no-install", false, "Skip automatic dependency installation")

	return cmd
}

func (a *app) runCreate(ctx context.Context, name string, flags *createFlags) error {
	if !a.jsonOutput {
		a.printf("Creating lane %q...\n", name)
	}

	res, err := a.lanes.Create(ctx, name, lane.CreateOptions{
		Branch:      flags.branch,
		SkipInstall: flags.noInstall,
		Cwd:         a.cwd,
	})
	if err != nil {
		return err
	}

	a.VerboseLog("Lane %q created at %s", name, res.Lane.Path)
	return a.printCreateResult(res)
}

// createResultJSON is the JSON output structure of the new command.
type createResultJSON struct {
	Name          string          `json:"name"`
	Path          string          `json:"path"`
	Branch        string          `json:"branch"`
	BranchCreated bool            `json:"branchCreated"`
	MainRoot      string          `json:"mainRoot"`
	Copied        []string        `json:"copied"`
	Installed     string          `json:"installed,omitempty"`
	Warnings      []model.Warning `json:"warnings"`
}

func (a *app) printCreateResult(res *lane.CreateResult) error {
	if a.jsonOutput {
		out := createResultJSON{
			Name:          res.Lane.Name,
			Path:          res.Lane.Path,
			Branch:        res.Lane.Branch,
			BranchCreated: res.BranchCreated,
			MainRoot:      res.MainRoot,
			Copied:        []string{},
			Warnings:      []model.Warning{},
		}
		if res.Replication != nil && res.Replication.Copied != nil {
			out.Copied = res.Replication.Copied
		}
		if res.Install.Ran && res.Install.Err == nil {
			out.Installed = res.Install.Manager.Name
		}
		if res.Warnings != nil {
			out.Warnings = res.Warnings
		}
		return a.printJSON(out)
	}

	suffix := ""
	if len(res.Warnings) > 0 {
		suffix = fmt.Sprintf(" with %d warning(s)", len(res.Warnings))
	}
	a.printf("\nLane %q created successfully%s!\n", res.Lane.Name, suffix)
	a.printf("  Path: %s\n", res.Lane.Path)
	a.printf("  Branch: %s\n", res.Lane.Branch)
	if res.Replication != nil && len(res.Replication.Copied) > 0 {
		a.printf("  Copied: %d untracked item(s)\n", len(res.Replication.Copied))
	}
	if res.Install.Ran && res.Install.Err == nil {
		a.printf("  Installed dependencies with %s\n", res.Install.Manager.Name)
	}

	a.emit(model.ChangeDir{Path: res.Lane.Path})
	return nil
}
