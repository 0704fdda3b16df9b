package replicate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shinji-kodama/lane/internal/model"
)

// gitMetadata is never replicated: inside a lane `.git` is a pointer file
// owned by git, and overwriting it would detach the worktree.
const gitMetadata = ".git"

// Lister enumerates the untracked and ignored entries of a working tree,
// relative to its root with forward slashes. *worktree.Manager implements it.
type Lister interface {
	UntrackedFiles(repoPath string) ([]string, error)
}

// Failure records one path that could not be copied.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a replication run. Paths are relative to the source root.
type Report struct {
	// Copied lists the top-level entries that were replicated. A directory
	// counts as copied even if some files below it failed.
	Copied []string

	// Skipped lists entries excluded by a skip pattern.
	Skipped []string

	// Failed lists individual files or directories that could not be copied.
	Failed []Failure
}

// Replicator copies files between working trees.
type Replicator struct {
	lister Lister
}

// New creates a Replicator that uses lister for untracked-file enumeration.
func New(lister Lister) *Replicator {
	return &Replicator{lister: lister}
}

// Replicate copies srcRoot into destRoot according to the copy mode and skip
// settings of a lane registry.
func (r *Replicator) Replicate(srcRoot, destRoot string, settings model.Settings) (*Report, error) {
	skip := settings.EffectiveSkipPatterns()
	if settings.CopyMode == model.CopyModeFull {
		return r.CopyAll(srcRoot, destRoot, skip)
	}
	return r.CopyUntracked(srcRoot, destRoot, skip)
}

// CopyUntracked copies the untracked and ignored entries of srcRoot into
// destRoot. Only enumeration failure is returned as an error.
func (r *Replicator) CopyUntracked(srcRoot, destRoot string, skipPatterns []string) (*Report, error) {
	entries, err := r.lister.UntrackedFiles(srcRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files in %s: %w", srcRoot, err)
	}
	return copyEntries(srcRoot, destRoot, entries, skipPatterns), nil
}

// CopyAll copies every top-level entry of srcRoot except `.git` into
// destRoot, overwriting files that already exist there.
func (r *Replicator) CopyAll(srcRoot, destRoot string, skipPatterns []string) (*Report, error) {
	dirEntries, err := os.ReadDir(srcRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", srcRoot, err)
	}

	entries := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.Name() == gitMetadata {
			continue
		}
		entries = append(entries, e.Name())
	}
	return copyEntries(srcRoot, destRoot, entries, skipPatterns), nil
}

// Skipped reports whether any segment of the slash-separated relative path
// equals one of the patterns.
func Skipped(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(relPath), "/") {
		if slices.Contains(patterns, segment) {
			return true
		}
	}
	return false
}

func copyEntries(srcRoot, destRoot string, entries, skipPatterns []string) *Report {
	report := &Report{}

	for _, rel := range entries {
		if Skipped(rel, skipPatterns) {
			report.Skipped = append(report.Skipped, rel)
			continue
		}

		src := filepath.Join(srcRoot, filepath.FromSlash(rel))
		dst := filepath.Join(destRoot, filepath.FromSlash(rel))

		// The entry may have disappeared since git listed it.
		if _, err := os.Lstat(src); err != nil {
			continue
		}

		failures := copyTree(src, dst, skipPatterns)
		topFailed := slices.ContainsFunc(failures, func(f Failure) bool { return f.Path == src })
		report.Failed = append(report.Failed, relativize(srcRoot, failures)...)
		if !topFailed {
			report.Copied = append(report.Copied, rel)
		}
	}

	return report
}

// copyTree copies src to dst. Directories are walked manually so the skip
// test can be applied to each child name before descending into it.
func copyTree(src, dst string, skipPatterns []string) []Failure {
	info, err := os.Lstat(src)
	if err != nil {
		return []Failure{{Path: src, Err: err}}
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		if err := copySymlink(src, dst); err != nil {
			return []Failure{{Path: src, Err: err}}
		}
		return nil

	case info.IsDir():
		if err := os.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
			return []Failure{{Path: src, Err: err}}
		}
		children, err := os.ReadDir(src)
		if err != nil {
			return []Failure{{Path: src, Err: err}}
		}

		var failures []Failure
		for _, child := range children {
			if slices.Contains(skipPatterns, child.Name()) {
				continue
			}
			failures = append(failures, copyTree(
				filepath.Join(src, child.Name()),
				filepath.Join(dst, child.Name()),
				skipPatterns,
			)...)
		}
		return failures

	case info.Mode().IsRegular():
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return []Failure{{Path: src, Err: err}}
		}
		if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
			return []Failure{{Path: src, Err: err}}
		}
		return nil

	default:
		// Sockets, pipes and devices are local runtime state.
		return nil
	}
}

// copyFile copies a single file from src to dst, preserving the file mode.
//
// The function uses io.Copy for efficient streaming, so large caches and
// databases are not loaded into memory.
func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return dstFile.Close()
}

// copySymlink recreates the link at dst with the same target. Relative
// targets keep pointing inside the lane instead of back into the main tree.
func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return fmt.Errorf("failed to read symlink %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("failed to replace %s: %w", dst, err)
		}
	}
	if err := os.Symlink(target, dst); err != nil {
		return fmt.Errorf("failed to create symlink %s: %w", dst, err)
	}
	return nil
}

func relativize(root string, failures []Failure) []Failure {
	for i := range failures {
		if rel, err := filepath.Rel(root, failures[i].Path); err == nil {
			failures[i].Path = filepath.ToSlash(rel)
		}
	}
	return failures
}
