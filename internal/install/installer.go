// Package install bootstraps a lane's dependencies by detecting the
// project's package manager from its lockfile and running its installer.
//
// Exactly one installer runs per lane. Detection follows a fixed priority
// order (see Managers); the first marker file present in the lane directory
// wins. An install failure is reported in the Result and never returned as
// an error, because a lane without dependencies is still a usable lane.
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Manager describes one supported package manager.
type Manager struct {
	// Name identifies the manager in messages ("npm", "pip").
	Name string

	// Marker is the file whose presence selects this manager.
	Marker string

	// Command is the executable followed by its arguments.
	Command []string
}

// String returns the full install command line.
func (m Manager) String() string {
	return strings.Join(m.Command, " ")
}

// Managers lists the supported package managers in detection priority order.
var Managers = []Manager{
	{Name: "npm", Marker: "package-lock.json", Command: []string{"npm", "install"}},
	{Name: "yarn", Marker: "yarn.lock", Command: []string{"yarn", "install"}},
	{Name: "pnpm", Marker: "pnpm-lock.yaml", Command: []string{"pnpm", "install"}},
	{Name: "bun", Marker: "bun.lockb", Command: []string{"bun", "install"}},
	{Name: "pip", Marker: "requirements.txt", Command: []string{"pip", "install", "-r", "requirements.txt"}},
	{Name: "pip", Marker: "pyproject.toml", Command: []string{"pip", "install", "-e", "."}},
}

// Result describes the outcome of an install attempt.
type Result struct {
	// Ran is true when a package manager was detected and started.
	Ran bool

	// Manager is the detected manager. Zero when Ran is false.
	Manager Manager

	// Err is the installer failure, if any. Only set when Ran is true.
	Err error
}

// RunFunc executes a command in dir, streaming its output to out.
type RunFunc func(ctx context.Context, dir string, out io.Writer, name string, args ...string) error

// Installer detects and runs package managers.
type Installer struct {
	out io.Writer
	run RunFunc
}

// New creates an Installer that streams installer output to out.
// A nil out discards it.
func New(out io.Writer) *Installer {
	return NewWithRunner(out, execRun)
}

// NewWithRunner creates an Installer with a custom command runner.
func NewWithRunner(out io.Writer, run RunFunc) *Installer {
	if out == nil {
		out = io.Discard
	}
	return &Installer{out: out, run: run}
}

// Detect returns the highest-priority manager whose marker exists in dir.
func (i *Installer) Detect(dir string) (Manager, bool) {
	for _, m := range Managers {
		if _, err := os.Stat(filepath.Join(dir, m.Marker)); err == nil {
			return m, true
		}
	}
	return Manager{}, false
}

// Run detects the package manager for dir and runs its installer there.
// It blocks until the installer exits or ctx is cancelled.
func (i *Installer) Run(ctx context.Context, dir string) Result {
	m, ok := i.Detect(dir)
	if !ok {
		return Result{}
	}

	err := i.run(ctx, dir, i.out, m.Command[0], m.Command[1:]...)
	if err != nil {
		err = fmt.Errorf("%s failed: %w", m, err)
	}
	return Result{Ran: true, Manager: m, Err: err}
}

func execRun(ctx context.Context, dir string, out io.Writer, name string, args ...string) error {
	// #nosec G204: command comes from the fixed Managers table
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}
