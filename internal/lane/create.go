package lane

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinji-kodama/lane/internal/install"
	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/replicate"
)

// maxListedFailures caps how many failed paths a replication warning names.
const maxListedFailures = 3

// CreateOptions controls lane creation.
type CreateOptions struct {
	// Branch to check out in the lane. Defaults to the lane name.
	Branch string

	// SkipInstall suppresses dependency installation even when the
	// registry's autoInstall setting is on.
	SkipInstall bool

	// Cwd is the caller's working directory.
	Cwd string
}

// CreateResult describes a created lane.
type CreateResult struct {
	// Lane is the registry entry, CreatedAt included.
	Lane model.Lane

	// MainRoot is the main repository the lane belongs to.
	MainRoot string

	// BranchCreated is true when a new branch was created for the lane.
	BranchCreated bool

	// Replication is nil when replication could not run at all.
	Replication *replicate.Report

	// Install is the dependency installer outcome. Install.Ran is false
	// when installation was disabled or no package manager was detected.
	Install install.Result

	// Warnings lists non-fatal problems ("created with warnings").
	Warnings []model.Warning
}

// Create creates the lane name. Errors are returned only for validation and
// worktree failures; everything after the worktree exists is best effort.
func (o *Orchestrator) Create(ctx context.Context, name string, opts CreateOptions) (*CreateResult, error) {
	// validate
	if err := model.ValidateName(name); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid lane name", err)
	}
	mainRoot, err := o.MainRoot(opts.Cwd)
	if err != nil {
		return nil, err
	}

	lanePath := LanePath(mainRoot, name)
	if exists(lanePath) {
		return nil, model.NewCLIError(model.ExitLaneAlreadyExists,
			fmt.Sprintf("lane directory already exists: %s", lanePath))
	}
	o.logger.Debug("validated", "lane", name, "path", lanePath)

	// resolve-branch
	branch := opts.Branch
	if branch == "" {
		branch = name
	}
	createBranch := !o.git.BranchExists(mainRoot, branch)
	o.logger.Debug("resolved branch", "branch", branch, "new", createBranch)

	// worktree
	if err := o.git.Add(mainRoot, lanePath, branch, createBranch); err != nil {
		return nil, model.WrapCLIError(model.ExitWorktreeCreationFailed,
			fmt.Sprintf("failed to create worktree for lane %q", name), err)
	}
	o.logger.Debug("worktree created", "path", lanePath)

	res := &CreateResult{MainRoot: mainRoot, BranchCreated: createBranch}
	settings := o.store.Load(mainRoot).Settings

	// replicate
	report, err := o.replicator.Replicate(mainRoot, lanePath, settings)
	if err != nil {
		res.warn(model.KindReplicationFailed, err.Error())
	} else {
		res.Replication = report
		if len(report.Failed) > 0 {
			res.warn(model.KindReplicationFailed, describeFailures(report.Failed))
		}
		o.logger.Debug("replicated", "copied", len(report.Copied), "skipped", len(report.Skipped), "failed", len(report.Failed))
	}

	// install
	if settings.AutoInstall && !opts.SkipInstall {
		res.Install = o.installer.Run(ctx, lanePath)
		if res.Install.Err != nil {
			res.warn(model.KindInstallFailed, res.Install.Err.Error())
		}
		o.logger.Debug("install finished", "ran", res.Install.Ran, "manager", res.Install.Manager.Name)
	}

	// register
	cfg, err := o.store.AddLane(mainRoot, model.Lane{Name: name, Path: lanePath, Branch: branch})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("worktree created at %s but the lane could not be registered", lanePath), err)
	}
	registered, _ := cfg.Find(name)
	res.Lane = *registered
	o.logger.Debug("registered", "lane", name)

	for _, w := range res.Warnings {
		o.logger.Warn(w.Message, "kind", w.Kind, "lane", name)
	}
	return res, nil
}

func (r *CreateResult) warn(kind model.ErrorKind, msg string) {
	r.Warnings = append(r.Warnings, model.Warning{Kind: kind, Message: msg})
}

func describeFailures(failures []replicate.Failure) string {
	paths := make([]string, 0, maxListedFailures)
	for i, f := range failures {
		if i == maxListedFailures {
			break
		}
		paths = append(paths, f.Path)
	}
	msg := fmt.Sprintf("%d path(s) could not be copied: %s", len(failures), strings.Join(paths, ", "))
	if len(failures) > maxListedFailures {
		msg += ", ..."
	}
	return msg
}
