// Package cli — settings.go implements the "lane settings" command.
//
// Settings live in the registry next to the lanes. Without flags the
// current settings are printed; flags change individual values; -i opens
// the interactive editor. --yaml prints the settings in the .lanes.yaml
// format so they can be committed as project defaults.
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lane/internal/config"
	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/picker"
)

// settingsFlags holds the flag values for the settings command.
type settingsFlags struct {
	copyMode           string
	autoInstall        bool
	skipBuildArtifacts bool
	addSkip            []string
	removeSkip         []string
	yaml               bool
	interactive        bool
}

func (a *app) newSettingsCommand() *cobra.Command {
	flags := &settingsFlags{}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change lane settings",
		Long: `Show or change how lanes are created.

  copyMode            worktree: git worktree + copy untracked files
                      full: copy the entire working tree
  autoInstall         run the package manager after creating a lane
  skipBuildArtifacts  skip directories matching skipPatterns while copying
  skipPatterns        directory names never copied (node_modules, dist, ...)

Examples:
  lane settings
  lane settings --copy-mode full
  lane settings --auto-install=false --add-skip .cache
  lane settings --yaml > .lanes.yaml
  lane settings -i`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSettings(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.copyMode, "copy-mode", "", "Set copy mode: worktree or full")
	cmd.Flags().BoolVar(&flags.autoInstall, "auto-install", true, "Run package manager install after creating a lane")
	cmd.Flags().BoolVar(&flags.skipBuildArtifacts, "skip-build-artifacts", true, "Skip build artifact directories while copying")
	cmd.Flags().StringSliceVar(&flags.addSkip, "add-skip", nil, "Add skip pattern(s)")
	cmd.Flags().StringSliceVar(&flags.removeSkip, "remove-skip", nil, "Remove skip pattern(s)")
	cmd.Flags().BoolVar(&flags.yaml, "yaml", false, "Print settings in .lanes.yaml format")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Open the interactive settings editor")

	return cmd
}

func (a *app) runSettings(cmd *cobra.Command, flags *settingsFlags) error {
	changed := cmd.Flags().Changed
	mutating := changed("copy-mode") || changed("auto-install") || changed("skip-build-artifacts") ||
		changed("add-skip") || changed("remove-skip")

	var (
		settings model.Settings
		err      error
	)
	switch {
	case flags.interactive:
		settings, err = a.editSettings()
	case mutating:
		settings, err = a.lanes.UpdateSettings(a.cwd, func(s *model.Settings) error {
			return flags.apply(s, changed)
		})
	default:
		settings, err = a.lanes.Settings(a.cwd)
	}
	if err != nil {
		return err
	}

	return a.printSettings(settings, flags.yaml)
}

// apply changes s according to the flags the user set.
func (f *settingsFlags) apply(s *model.Settings, changed func(string) bool) error {
	if changed("copy-mode") {
		mode, err := model.ParseCopyMode(f.copyMode)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "invalid --copy-mode", err)
		}
		s.CopyMode = mode
	}
	if changed("auto-install") {
		s.AutoInstall = f.autoInstall
	}
	if changed("skip-build-artifacts") {
		s.SkipBuildArtifacts = f.skipBuildArtifacts
	}
	for _, p := range f.addSkip {
		if p = strings.TrimSpace(p); p != "" && !s.HasSkipPattern(p) {
			s.SkipPatterns = append(s.SkipPatterns, p)
		}
	}
	if len(f.removeSkip) > 0 {
		s.SkipPatterns = slices.DeleteFunc(s.SkipPatterns, func(p string) bool {
			return slices.Contains(f.removeSkip, p)
		})
	}
	return nil
}

// editSettings runs the interactive editor and saves the result unless the
// user cancelled.
func (a *app) editSettings() (model.Settings, error) {
	current, err := a.lanes.Settings(a.cwd)
	if err != nil {
		return model.Settings{}, err
	}

	editor := picker.NewSettingsEditor(current)
	if err := a.runPicker(editor, func() string { return renderSettings(editor) }); err != nil {
		return model.Settings{}, err
	}
	if editor.State() != picker.SettingsSaved {
		return current, nil
	}

	edited := editor.Settings()
	return a.lanes.UpdateSettings(a.cwd, func(s *model.Settings) error {
		*s = edited
		return nil
	})
}

func (a *app) printSettings(s model.Settings, asYAML bool) error {
	if asYAML {
		data, err := config.MarshalSettingsYAML(s)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to render settings", err)
		}
		a.printf("%s", data)
		return nil
	}

	if a.jsonOutput {
		return a.printJSON(s)
	}

	a.printf("Settings:\n")
	a.printf("  copyMode:           %s\n", s.CopyMode)
	a.printf("  autoInstall:        %t\n", s.AutoInstall)
	a.printf("  skipBuildArtifacts: %t\n", s.SkipBuildArtifacts)
	a.printf("  skipPatterns:       %s\n", formatPatterns(s.SkipPatterns))
	return nil
}

func formatPatterns(patterns []string) string {
	if len(patterns) == 0 {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", strings.Join(patterns, ", "), len(patterns))
}
