package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lane/internal/shell"
)

// initShellFlags selects the shell explicitly instead of detecting it from
// $SHELL.
type initShellFlags struct {
	bash bool
	zsh  bool
	fish bool
}

func (a *app) newInitShellCommand() *cobra.Command {
	flags := &initShellFlags{}

	cmd := &cobra.Command{
		Use:   "init-shell",
		Short: "Output shell function for automatic cd",
		Long: `Print the shell function that lets "lane new" and "lane switch" change the
current directory. Add it to your shell's startup file:

  lane init-shell >> ~/.zshrc
  lane init-shell --fish >> ~/.config/fish/config.fish`,

		Args: cobra.NoArgs,

		// No repository needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },

		RunE: func(cmd *cobra.Command, args []string) error {
			kind := flags.kind(os.Getenv("SHELL"))
			a.printf("%s", shell.Script(kind))
			// Comment lines keep the output safe to append to an rc file.
			a.printf("\n# Then restart your shell or run: source %s\n", kind.RCFile())
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.bash, "bash", false, "Output bash function")
	cmd.Flags().BoolVar(&flags.zsh, "zsh", false, "Output zsh function")
	cmd.Flags().BoolVar(&flags.fish, "fish", false, "Output fish function")
	cmd.MarkFlagsMutuallyExclusive("bash", "zsh", "fish")

	return cmd
}

func (f *initShellFlags) kind(shellEnv string) shell.Kind {
	switch {
	case f.fish:
		return shell.Fish
	case f.bash:
		return shell.Bash
	case f.zsh:
		return shell.Zsh
	default:
		return shell.Detect(shellEnv)
	}
}
