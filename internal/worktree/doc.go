// Package worktree is the git gateway of the lane CLI.
//
// All Git operations are performed via os/exec calls to the git binary,
// rather than using a Git library like go-git. This approach:
//   - Avoids CGO dependencies (libgit2)
//   - Uses the exact same Git behavior the user sees in their terminal
//   - Requires Git >= 2.22 (for `git branch --show-current`)
//
// The Manager struct provides repository discovery (FindRepo, IsWorktree,
// GetMainWorktree), worktree mutation (Add, Remove, Prune), branch
// operations (BranchExists, DeleteBranch, Checkout, GetCurrentBranch) and
// untracked/ignored file enumeration (UntrackedFiles).
package worktree
