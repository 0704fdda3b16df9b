// Package cli — checkout.go implements the "lane checkout" command.
//
// The checkout command goes to wherever a branch lives:
//  1. If a lane (or the main repository) has the branch checked out, the
//     shell switches there.
//  2. Otherwise a selector offers a new lane for the branch, or checking the
//     branch out in one of the other existing lanes.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lane/internal/lane"
	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/picker"
)

// checkoutFlags holds the flag values for the checkout command.
type checkoutFlags struct {
	// create skips the selector and creates a new lane for the branch.
	create bool

	noInstall bool
}

func (a *app) newCheckoutCommand() *cobra.Command {
	flags := &checkoutFlags{}

	cmd := &cobra.Command{
		Use:     "checkout <branch>",
		Aliases: []string{"co"},
		Short:   "Switch to the lane that has a branch, or make one",
		Long: `Switch to the lane that has <branch> checked out. When no lane has it,
choose between creating a new lane for the branch and checking it out in
an existing lane.

Examples:
  lane checkout feature/auth
  lane checkout fix/login --create`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheckout(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.create, "create", "c", false, "Create a new lane without asking")
	cmd.Flags().BoolVar(&flags.noInstall, "no-install", false, "Skip automatic dependency installation")

	return cmd
}

func (a *app) runCheckout(ctx context.Context, branch string, flags *checkoutFlags) error {
	// Step 1: Already checked out somewhere?
	if entry, ok := a.lanes.FindByBranch(branch, a.cwd); ok {
		a.VerboseLog("Branch %s is checked out in %q", branch, entry.Name)
		if entry.IsCurrent {
			if !a.jsonOutput {
				a.printf("Already on %s in lane %q\n", branch, entry.Name)
			}
			return nil
		}
		return a.runSwitch(entry.Name)
	}

	branchExists, err := a.lanes.BranchExists(branch, a.cwd)
	if err != nil {
		return err
	}
	name := lane.NameForBranch(branch)

	// Step 2: Decide where the branch goes.
	choice := picker.CheckoutOption{Kind: picker.CheckoutCreate}
	if !flags.create {
		c := picker.NewCheckout(branch, branchExists, name, a.lanes.ListAll(a.cwd))
		if err := a.runPicker(c, func() string { return renderCheckout(c, branchExists) }); err != nil {
			return err
		}
		choice = c.Choice()
	}

	// Step 3: Act on the choice.
	switch choice.Kind {
	case picker.CheckoutCreate:
		return a.runCreate(ctx, name, &createFlags{branch: branch, noInstall: flags.noInstall})

	case picker.CheckoutInLane:
		updated, err := a.lanes.CheckoutInLane(choice.Lane.Name, branch, a.cwd)
		if err != nil {
			return err
		}
		if a.jsonOutput {
			return a.printJSON(updated)
		}
		a.printf("Checked out %s in lane %q\n", branch, updated.Name)
		a.emit(model.ChangeDir{Path: updated.Path})
		return nil
	}

	a.VerboseLog("checkout of %s cancelled", branch)
	return nil
}
