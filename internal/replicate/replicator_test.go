package replicate

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/lane/internal/model"
)

// staticLister returns a fixed enumeration, standing in for git.
type staticLister struct {
	entries []string
	err     error
	gotRoot string
}

func (l *staticLister) UntrackedFiles(repoPath string) ([]string, error) {
	l.gotRoot = repoPath
	return l.entries, l.err
}

// writeTree creates files (relative path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func assertFile(t *testing.T, path, content string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "%s should exist", path)
	assert.Equal(t, content, string(data))
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist", path)
}

func TestSkipped(t *testing.T) {
	patterns := []string{"node_modules", "target"}

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules", true},
		{"node_modules/lodash/index.js", true},
		{"packages/web/node_modules", true},
		{"crates/core/target/debug", true},
		{"notes.txt", false},
		{"my_node_modules", false}, // segment match only, no substrings
		{"targets/list", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Skipped(tt.path, patterns))
		})
	}

	assert.False(t, Skipped("node_modules", nil), "no patterns skips nothing")
}

// TestCopyUntracked verifies files and directories are copied, skip patterns
// are enforced at the top level and at nested levels, and the report lists
// top-level entries.
func TestCopyUntracked(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeTree(t, src, map[string]string{
		".env":                            "SECRET=1",
		"notes.txt":                       "todo",
		"node_modules/pkg/index.js":       "module.exports = 1",
		"web/node_modules/react/index.js": "react",
		"local/config.json":               "{}",
		"local/cache/node_modules/x.js":   "x",
		"local/cache/data.bin":            "data",
	})

	lister := &staticLister{entries: []string{".env", "local", "node_modules", "notes.txt", "web/node_modules"}}
	report, err := New(lister).CopyUntracked(src, dst, []string{"node_modules"})
	require.NoError(t, err)
	assert.Equal(t, src, lister.gotRoot)

	assert.Equal(t, []string{".env", "local", "notes.txt"}, report.Copied)
	assert.Equal(t, []string{"node_modules", "web/node_modules"}, report.Skipped)
	assert.Empty(t, report.Failed)

	assertFile(t, filepath.Join(dst, ".env"), "SECRET=1")
	assertFile(t, filepath.Join(dst, "notes.txt"), "todo")
	assertFile(t, filepath.Join(dst, "local", "config.json"), "{}")
	assertFile(t, filepath.Join(dst, "local", "cache", "data.bin"), "data")

	assertMissing(t, filepath.Join(dst, "node_modules"))
	assertMissing(t, filepath.Join(dst, "web"))
	assertMissing(t, filepath.Join(dst, "local", "cache", "node_modules"))
}

// TestCopyUntracked_NoPatterns copies everything when skipping is disabled.
func TestCopyUntracked_NoPatterns(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"node_modules/a.js": "a"})

	report, err := New(&staticLister{entries: []string{"node_modules"}}).CopyUntracked(src, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules"}, report.Copied)
	assertFile(t, filepath.Join(dst, "node_modules", "a.js"), "a")
}

// TestCopyUntracked_VanishedEntry ignores entries deleted after listing.
func TestCopyUntracked_VanishedEntry(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"kept.txt": "k"})

	report, err := New(&staticLister{entries: []string{"gone.txt", "kept.txt"}}).CopyUntracked(src, dst, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept.txt"}, report.Copied)
	assert.Empty(t, report.Failed)
}

// TestCopyUntracked_ListError surfaces enumeration failures.
func TestCopyUntracked_ListError(t *testing.T) {
	_, err := New(&staticLister{err: errors.New("git exploded")}).CopyUntracked(t.TempDir(), t.TempDir(), nil)
	assert.ErrorContains(t, err, "git exploded")
}

// TestCopyUntracked_UnreadableFile verifies per-item failures are recorded
// and do not stop the rest of the copy.
func TestCopyUntracked_UnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for this user")
	}

	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"secret.txt": "s", "ok.txt": "ok"})
	require.NoError(t, os.Chmod(filepath.Join(src, "secret.txt"), 0o000))

	report, err := New(&staticLister{entries: []string{"ok.txt", "secret.txt"}}).CopyUntracked(src, dst, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ok.txt"}, report.Copied)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "secret.txt", report.Failed[0].Path)
	assertFile(t, filepath.Join(dst, "ok.txt"), "ok")
}

// TestCopyUntracked_PreservesPermissions keeps executable bits.
func TestCopyUntracked_PreservesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no POSIX permissions on windows")
	}

	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "run.sh"), []byte("#!/bin/sh\n"), 0o755))

	_, err := New(&staticLister{entries: []string{"run.sh"}}).CopyUntracked(src, dst, nil)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "owner execute bit should be preserved")
}

// TestCopyUntracked_Symlink recreates links instead of following them.
func TestCopyUntracked_Symlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"real.env": "A=1"})
	require.NoError(t, os.Symlink("real.env", filepath.Join(src, ".env")))

	_, err := New(&staticLister{entries: []string{".env", "real.env"}}).CopyUntracked(src, dst, nil)
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(dst, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "real.env", target)
	assertFile(t, filepath.Join(dst, ".env"), "A=1")
}

// TestCopyAll copies tracked and untracked content but never .git, and
// overwrites what the checkout already put in place.
func TestCopyAll(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeTree(t, src, map[string]string{
		".git/HEAD":      "ref: refs/heads/main",
		"README.md":      "locally modified",
		"src/main.go":    "package main",
		"dist/bundle.js": "bundle",
		"notes.txt":      "n",
	})
	writeTree(t, dst, map[string]string{
		".git":      "gitdir: /somewhere",
		"README.md": "committed",
	})

	// The lister must not be consulted in full mode.
	lister := &staticLister{err: errors.New("should not be called")}
	report, err := New(lister).CopyAll(src, dst, []string{"dist"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"README.md", "notes.txt", "src"}, report.Copied)
	assert.Equal(t, []string{"dist"}, report.Skipped)

	assertFile(t, filepath.Join(dst, "README.md"), "locally modified")
	assertFile(t, filepath.Join(dst, "src", "main.go"), "package main")
	assertFile(t, filepath.Join(dst, ".git"), "gitdir: /somewhere")
	assertMissing(t, filepath.Join(dst, "dist"))
}

// TestReplicate_Settings verifies mode dispatch and the SkipBuildArtifacts gate.
func TestReplicate_Settings(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"notes.txt":         "n",
		"node_modules/a.js": "a",
		"tracked.go":        "package x",
	})
	lister := &staticLister{entries: []string{"node_modules", "notes.txt"}}
	r := New(lister)

	t.Run("worktree mode honors skip patterns", func(t *testing.T) {
		dst := t.TempDir()
		report, err := r.Replicate(src, dst, model.DefaultSettings())
		require.NoError(t, err)
		assert.Equal(t, []string{"notes.txt"}, report.Copied)
		assertMissing(t, filepath.Join(dst, "tracked.go"))
	})

	t.Run("skipBuildArtifacts off copies build directories", func(t *testing.T) {
		dst := t.TempDir()
		settings := model.DefaultSettings()
		settings.SkipBuildArtifacts = false
		report, err := r.Replicate(src, dst, settings)
		require.NoError(t, err)
		assert.Equal(t, []string{"node_modules", "notes.txt"}, report.Copied)
		assertFile(t, filepath.Join(dst, "node_modules", "a.js"), "a")
	})

	t.Run("full mode copies tracked files", func(t *testing.T) {
		dst := t.TempDir()
		settings := model.DefaultSettings()
		settings.CopyMode = model.CopyModeFull
		report, err := r.Replicate(src, dst, settings)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"notes.txt", "tracked.go"}, report.Copied)
		assertMissing(t, filepath.Join(dst, "node_modules"))
	})
}
