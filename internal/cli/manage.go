package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/picker"
)

func (a *app) newManageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "manage",
		Short: "Interactively switch, sync and delete lanes",
		Long: `Open the lane manager.

  ↑↓ / j k   move
  Enter      switch to the highlighted lane
  Space      mark the lane for bulk deletion
  d          delete the highlighted (or all marked) lanes after confirmation
  s          copy untracked files from main into the highlighted lane again
  q          quit`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runManage()
		},
	}
}

func (a *app) runManage() error {
	if _, err := a.lanes.MainRoot(a.cwd); err != nil {
		return err
	}

	m := picker.NewManage(a.lanes.ListAll(a.cwd))
	if err := a.runPicker(m, func() string { return renderManage(m) }); err != nil {
		return err
	}

	out := m.Outcome()
	a.VerboseLog("manage finished: action=%d lanes=%d", out.Action, len(out.Lanes))
	switch out.Action {
	case picker.ActionSwitch:
		a.emit(model.ChangeDir{Path: out.Lanes[0].Path})
	case picker.ActionDelete:
		return a.removeLanes(out.Lanes)
	case picker.ActionSync:
		return a.runSync(out.Lanes[0].Name)
	}
	return nil
}
