// Package replicate copies local-only files from the main working tree into
// a freshly created lane.
//
// A new git worktree only contains tracked files. Everything else (.env
// files, local editor settings, scratch notes, caches) is what makes the main
// tree usable, so the replicator carries it over:
//
//   - CopyUntracked copies the untracked and ignored entries reported by git.
//   - CopyAll copies every top-level entry except the git metadata, which
//     also brings locally modified tracked files along.
//
// Both honor skip patterns. A pattern is an exact path segment name
// ("node_modules", "target"); any path containing a matching segment at any
// depth is never copied. Skipped directories are not descended into.
//
// Copying is best effort: a file that cannot be copied is recorded in the
// Report and the rest of the tree is still processed.
package replicate
