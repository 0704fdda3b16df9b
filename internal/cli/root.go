// Package cli implements the cobra-based CLI commands for lane.
//
// Each subcommand (new, switch, list, remove, ...) is defined in its own
// file within this package. This file defines the root command that serves
// as the parent for all subcommands and handles global flags, logging and
// error reporting.
//
// Everything meant for the user's eyes goes to stdout; the shell function
// installed by `lane init-shell` captures stdout and treats a final
// "__lane_cd:<path>" line as a directory change. Logs, installer output and
// the interactive pickers use stderr so they never end up in the captured
// output.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/lane/internal/lane"
	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/shell"
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// app carries the state shared by all subcommands of one invocation: the
// process streams, the global flag values and the services built from them.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose lowers the log level to debug.
	verbose bool

	// cwd overrides the working directory lane operations start from.
	cwd string

	logger *log.Logger
	lanes  *lane.Orchestrator
}

// rootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action; it only provides
// help text and global flags. Actual functionality is provided by
// subcommands.
func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lane",
		Short: "A simple alternative to git worktrees",
		Long: `lane creates sibling working copies ("lanes") of a git repository,
each on its own branch, with local untracked files such as .env copied over
and dependencies installed.

Run "lane init-shell" once to let "lane new" and "lane switch" change your
shell's directory.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&a.cwd, "cwd", "", "Run as if lane was started in this directory")

	rootCmd.AddCommand(
		a.newCreateCommand(),
		a.newSwitchCommand(),
		a.newListCommand(),
		a.newRemoveCommand(),
		a.newStatusCommand(),
		a.newSyncCommand(),
		a.newSettingsCommand(),
		a.newInitShellCommand(),
		a.newManageCommand(),
		a.newCheckoutCommand(),
	)

	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	return rootCmd
}

// setup builds the logger and the orchestrator once flags are parsed.
func (a *app) setup() error {
	a.logger = newLogger(a.stderr, a.verbose)

	if a.cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		a.cwd = wd
	}
	abs, err := filepath.Abs(a.cwd)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("invalid --cwd %q", a.cwd), err)
	}
	a.cwd = abs

	a.lanes = lane.NewDefault(a.stderr, lane.WithLogger(a.logger))
	a.VerboseLog("working directory %s", a.cwd)
	return nil
}

// newLogger returns the stderr logger: debug level with --verbose, warnings
// only otherwise.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "lane",
	})
}

// Run executes the CLI with args (args[0] is the program name) and returns
// the process exit code. CLIError types carry their own exit codes; other
// errors map to exit code 1.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	rootCmd := a.rootCommand()
	rootCmd.SetArgs(args[1:])

	// Ctrl-C cancels a running dependency install; git steps already done
	// are kept.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return int(model.ExitSuccess)
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		a.printError(cliErr.Message, cliErr.Err, cliErr.Kind())
		return int(cliErr.Code)
	}

	a.printError(err.Error(), nil, model.KindGeneral)
	return int(model.ExitGeneralError)
}

// Execute runs the CLI against the process streams and exits.
// This is the main entry point called from main.go.
func Execute() {
	os.Exit(Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// errorJSON is the --json error document: {"error": {...}}.
type errorJSON struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Kind    model.ErrorKind `json:"kind"`
	Message string          `json:"message"`
	Detail  string          `json:"detail,omitempty"`
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func (a *app) printError(message string, underlying error, kind model.ErrorKind) {
	if a.jsonOutput {
		body := errorBody{Kind: kind, Message: message}
		if underlying != nil {
			body.Detail = underlying.Error()
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errorJSON{Error: body}, "", "  ")
		fmt.Fprintln(a.stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(a.stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(a.stderr, "Error: %s\n", message)
	}
}

// VerboseLog emits a debug message. It is only visible with --verbose.
func (a *app) VerboseLog(format string, args ...interface{}) {
	if a.logger == nil {
		return
	}
	a.logger.Debugf(format, args...)
}

// printJSON writes v to stdout as indented JSON.
func (a *app) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode output", err)
	}
	fmt.Fprintln(a.stdout, string(data))
	return nil
}

// emit writes a directive for the shell function. JSON output never
// carries directives.
func (a *app) emit(d model.Directive) {
	if a.jsonOutput {
		return
	}
	_ = shell.Emit(a.stdout, d)
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.stdout, format, args...)
}
