package lane

import (
	"fmt"

	"github.com/shinji-kodama/lane/internal/model"
)

// RemoveOptions controls lane removal.
type RemoveOptions struct {
	// DeleteBranch also deletes the lane's branch.
	DeleteBranch bool

	// Force falls back to deleting the directory when git refuses to
	// remove the worktree, and deletes unmerged branches.
	Force bool

	// Cwd is the caller's working directory.
	Cwd string
}

// RemoveResult describes a removed lane.
type RemoveResult struct {
	// Lane is the registry entry that was removed.
	Lane model.Lane

	// WorktreeRemoved is true when git removed the worktree.
	WorktreeRemoved bool

	// DirectoryDeleted is true when the forced fallback deleted the
	// directory after git failed.
	DirectoryDeleted bool

	// BranchDeleted is true when the branch was deleted.
	BranchDeleted bool

	// Warnings lists non-fatal problems, such as a failed branch deletion.
	Warnings []model.Warning
}

// Remove removes the lane name. The registry entry is dropped only after
// the lane's directory is gone; if it cannot be removed the lane stays
// registered.
func (o *Orchestrator) Remove(name string, opts RemoveOptions) (*RemoveResult, error) {
	mainRoot, err := o.MainRoot(opts.Cwd)
	if err != nil {
		return nil, err
	}

	// resolve
	lane, ok := o.store.GetLane(mainRoot, name)
	if !ok {
		return nil, model.NewCLIError(model.ExitLaneNotFound, fmt.Sprintf("lane not found: %s", name))
	}
	res := &RemoveResult{Lane: *lane}
	o.logger.Debug("resolved", "lane", name, "path", lane.Path)

	// worktree-remove
	if exists(lane.Path) {
		if err := o.git.Remove(mainRoot, lane.Path); err != nil {
			if !opts.Force {
				return nil, model.WrapCLIError(model.ExitWorktreeRemovalFailed,
					fmt.Sprintf("failed to remove worktree at %s", lane.Path), err)
			}
			o.logger.Debug("git worktree remove failed, deleting directory", "path", lane.Path, "err", err)
			if rmErr := o.removeAll(lane.Path); rmErr != nil {
				return nil, model.WrapCLIError(model.ExitWorktreeRemovalFailed,
					fmt.Sprintf("failed to remove lane directory %s", lane.Path), rmErr)
			}
			res.DirectoryDeleted = true
			o.prune(mainRoot, lane.Path)
		} else {
			res.WorktreeRemoved = true
		}
	} else {
		// Deleted out-of-band: drop git's stale administrative entry.
		o.prune(mainRoot, lane.Path)
	}
	o.logger.Debug("worktree removed", "path", lane.Path)

	// branch-delete
	if opts.DeleteBranch && lane.Branch != "" {
		if err := o.git.DeleteBranch(mainRoot, lane.Branch, opts.Force); err != nil {
			res.Warnings = append(res.Warnings, model.Warning{
				Kind:    model.KindBranchDeletionFailed,
				Message: fmt.Sprintf("failed to delete branch %s: %v", lane.Branch, err),
			})
			o.logger.Warn("branch deletion failed", "branch", lane.Branch, "err", err)
		} else {
			res.BranchDeleted = true
		}
	}

	// deregister
	if _, err := o.store.RemoveLane(mainRoot, name); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("lane %q was removed from disk but the registry could not be updated", name), err)
	}
	o.logger.Debug("deregistered", "lane", name)

	return res, nil
}

// prune drops git's entry for a worktree whose directory is gone. A lock
// would keep the entry alive and block re-creating the lane at path.
func (o *Orchestrator) prune(mainRoot, path string) {
	if err := o.git.Unlock(mainRoot, path); err != nil {
		o.logger.Debug("git worktree unlock failed", "path", path, "err", err)
	}
	if err := o.git.Prune(mainRoot); err != nil {
		o.logger.Debug("git worktree prune failed", "err", err)
	}
}
