// Package lane implements the lane lifecycle: creating, removing, switching
// to and listing lanes.
//
// A lane is a git worktree created as a sibling of the main repository
// (`<parent>/<repo>-lane-<name>`) plus a replicated copy of the main tree's
// untracked and ignored files, optionally bootstrapped by the project's
// package manager. The Orchestrator composes the git gateway, the registry,
// the replicator and the installer, and owns the ordering and failure policy
// between them:
//
//	create: validate -> resolve-branch -> worktree -> replicate -> install -> register
//	remove: resolve -> worktree-remove -> branch-delete (optional) -> deregister
//
// Only validation and worktree mutation abort an operation. Replication and
// install failures are attached to the result as warnings. The registry is
// written only at the authoritative step of each sequence (after the worktree
// exists for create, after it is gone for remove), so a successful run never
// leaves the registry pointing at a missing worktree.
//
// No step is rolled back. An interrupted run can leave a worktree without a
// registry entry (or the reverse); re-running create or remove recovers.
package lane
