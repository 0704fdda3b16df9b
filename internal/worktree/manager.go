package worktree

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/lane/internal/model"
)

// DetachedBranch is the branch label reported for worktrees without a
// checked-out branch.
const DetachedBranch = "(detached)"

// WorktreeInfo holds metadata about a single Git worktree entry
// as parsed from `git worktree list --porcelain` output.
//
// Example porcelain output for a single worktree block:
//
//	worktree /path/to/feature-branch
//	HEAD abc123def456
//	branch refs/heads/feature-branch
type WorktreeInfo struct {
	// Path is the absolute filesystem path to the worktree directory.
	Path string

	// Branch is the short branch name (e.g., "main" rather than
	// "refs/heads/main"), or DetachedBranch when HEAD is detached.
	Branch string

	// HEAD is the commit SHA that the worktree currently points to.
	HEAD string

	// IsBare indicates whether this worktree entry represents a bare repository.
	IsBare bool

	// IsMain is set on the first listed entry, which git always reports
	// as the main working tree.
	IsMain bool
}

// Manager provides Git operations by invoking the git CLI.
type Manager struct{}

// NewManager creates a new worktree Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// FindRepo resolves the working tree that contains cwd.
//
// Root is the top-level directory of whichever working tree cwd lives in,
// so for a path inside a lane this is the lane's root, not the main
// repository. Use GetMainWorktree to resolve outward.
//
// CurrentBranch is empty when HEAD is detached; that is not an error.
func (m *Manager) FindRepo(cwd string) (*model.RepoInfo, error) {
	output, err := runGit(cwd, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}
	root := filepath.Clean(strings.TrimSpace(output))

	// `git branch --show-current` prints nothing (and exits 0) on a
	// detached HEAD, which is exactly the "absent" branch we want.
	branch, err := runGit(root, "branch", "--show-current")
	if err != nil {
		return nil, err
	}

	return &model.RepoInfo{
		Root:          root,
		Name:          filepath.Base(root),
		ParentDir:     filepath.Dir(root),
		CurrentBranch: strings.TrimSpace(branch),
	}, nil
}

// IsWorktree checks whether cwd is inside a linked worktree (as opposed
// to the main working tree).
//
// A linked worktree's per-worktree git directory lives under the
// `worktrees/` collection of the common git directory
// (e.g. `/repo/.git/worktrees/feature`), whereas the main working tree
// uses the primary `.git` directory itself. Asking git for --git-dir
// works from any subdirectory, unlike inspecting a `.git` file directly.
func (m *Manager) IsWorktree(cwd string) bool {
	output, err := runGit(cwd, "rev-parse", "--git-dir")
	if err != nil {
		return false
	}
	gitDir := filepath.ToSlash(strings.TrimSpace(output))
	return strings.Contains(gitDir, "/worktrees/")
}

// GetMainWorktree returns the path of the main working tree for the
// repository containing cwd. Git always lists the main worktree first.
func (m *Manager) GetMainWorktree(cwd string) (string, error) {
	worktrees, err := m.List(cwd)
	if err != nil {
		return "", err
	}
	if len(worktrees) == 0 {
		return "", model.NewCLIError(model.ExitGitError, "git worktree list returned no entries")
	}
	return worktrees[0].Path, nil
}

// List returns information about all worktrees associated with the given
// repository. The first entry is flagged IsMain.
//
// It runs `git worktree list --porcelain` which produces machine-parseable
// output. Each worktree block is separated by a blank line. Within a block,
// each line is a space-separated key-value pair:
//
//	worktree /path/to/dir
//	HEAD abc123
//	branch refs/heads/main
//
// Special markers like "bare" or "detached" appear as standalone keywords.
func (m *Manager) List(repoPath string) ([]WorktreeInfo, error) {
	output, err := runGit(repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	return parsePorcelainOutput(output), nil
}

// Add creates a new Git worktree at worktreePath.
//
// When createNewBranch is true a new branch is created from HEAD using
// `git worktree add -b <branch> <worktreePath>`. Otherwise the existing
// branch is checked out into the new worktree with
// `git worktree add <worktreePath> <branch>`. Deciding which form applies
// is the caller's job (see BranchExists).
func (m *Manager) Add(repoPath, worktreePath, branch string, createNewBranch bool) error {
	args := []string{"worktree", "add", worktreePath, branch}
	if createNewBranch {
		args = []string{"worktree", "add", "-b", branch, worktreePath}
	}

	_, err := runGit(repoPath, args...)
	return err
}

// Remove deletes a Git worktree at the specified path.
//
// The removal is always forced: worktrees carrying untracked files or
// uncommitted changes are removed anyway. Lanes are expected to contain
// untracked files (that is their purpose), so an unforced removal would
// practically never succeed.
func (m *Manager) Remove(repoPath, worktreePath string) error {
	_, err := runGit(repoPath, "worktree", "remove", "--force", worktreePath)
	return err
}

// Prune drops administrative entries for worktrees whose directories no
// longer exist (e.g. deleted out-of-band).
func (m *Manager) Prune(repoPath string) error {
	_, err := runGit(repoPath, "worktree", "prune")
	return err
}

// Unlock clears a `git worktree lock` on worktreePath. Prune never drops
// locked entries, so a locked worktree must be unlocked before its
// directory can be forgotten.
func (m *Manager) Unlock(repoPath, worktreePath string) error {
	_, err := runGit(repoPath, "worktree", "unlock", worktreePath)
	return err
}

// BranchExists checks whether a local branch with the given name exists.
//
// `git show-ref --verify --quiet refs/heads/<branch>` exits with code 0
// only for a local branch, so tags or remote refs with the same short
// name do not count.
func (m *Manager) BranchExists(repoPath, branch string) bool {
	_, err := runGit(repoPath, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// DeleteBranch deletes a local branch. Without force git refuses to delete
// a branch that is not fully merged (`-d`); with force it is deleted
// regardless (`-D`).
func (m *Manager) DeleteBranch(repoPath, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := runGit(repoPath, "branch", flag, branch)
	return err
}

// GetCurrentBranch returns the name of the currently checked-out branch
// at the given path. A detached HEAD is reported as an error.
func (m *Manager) GetCurrentBranch(path string) (string, error) {
	output, err := runGit(path, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	branch := strings.TrimSpace(output)
	if branch == "" {
		return "", model.NewCLIError(model.ExitGitError, fmt.Sprintf("HEAD is detached in %s", path))
	}
	return branch, nil
}

// Checkout switches the working tree at path to an existing branch.
func (m *Manager) Checkout(path, branch string) error {
	_, err := runGit(path, "checkout", branch)
	return err
}

// runGit executes a git command with the given arguments in the specified directory.
//
// It captures both stdout and stderr. On success (exit code 0), it returns
// the stdout output. On failure, it returns a model.CLIError with ExitGitError
// code, including the stderr output in the error message for debugging.
//
// The repoPath parameter is passed to git via the -C flag, which causes git
// to change to that directory before doing anything else.
func runGit(repoPath string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command("git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}

// parsePorcelainOutput parses the output of `git worktree list --porcelain`
// into a slice of WorktreeInfo structs.
//
// The porcelain format uses blank lines to separate worktree blocks.
// Each block contains key-value pairs (space-separated) and optional
// standalone markers like "bare" or "detached".
func parsePorcelainOutput(output string) []WorktreeInfo {
	var worktrees []WorktreeInfo

	flush := func(current *WorktreeInfo) {
		if current == nil {
			return
		}
		if current.Branch == "" && !current.IsBare {
			current.Branch = DetachedBranch
		}
		current.IsMain = len(worktrees) == 0
		worktrees = append(worktrees, *current)
	}

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	var current *WorktreeInfo
	for _, line := range lines {
		// A blank line signals the end of a worktree block.
		if line == "" {
			flush(current)
			current = nil
			continue
		}

		key, value, _ := strings.Cut(line, " ")

		switch key {
		case "worktree":
			// A new block can start without a separating blank line in
			// hand-crafted input; close the previous one first.
			flush(current)
			current = &WorktreeInfo{Path: value}
		case "HEAD":
			if current != nil {
				current.HEAD = value
			}
		case "branch":
			if current != nil {
				current.Branch = strings.TrimPrefix(value, "refs/heads/")
			}
		case "bare":
			if current != nil {
				current.IsBare = true
			}
		}
	}

	// Handle the last block if the output doesn't end with a blank line.
	flush(current)

	return worktrees
}
