package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync <name>",
		Short: "Copy untracked files from the main repository into a lane again",
		Long: `Re-run the copy of untracked and ignored files (.env, local configs) from
the main working tree into an existing lane. Files already in the lane are
overwritten.

Examples:
  lane sync feature-auth`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSync(args[0])
		},
	}
}

func (a *app) runSync(name string) error {
	report, err := a.lanes.Sync(name, a.cwd)
	if err != nil {
		return err
	}

	if a.jsonOutput {
		copied := report.Copied
		if copied == nil {
			copied = []string{}
		}
		failed := make([]string, 0, len(report.Failed))
		for _, f := range report.Failed {
			failed = append(failed, f.Path)
		}
		return a.printJSON(map[string]interface{}{
			"name":   name,
			"copied": copied,
			"failed": failed,
		})
	}

	a.printf("Synced %d item(s) into lane %q\n", len(report.Copied), name)
	for _, f := range report.Failed {
		a.logger.Warn("could not copy", "path", f.Path, "err", f.Err)
	}
	return nil
}
