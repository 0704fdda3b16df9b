package worktree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "empty",
			output: "",
			want:   []string{},
		},
		{
			name:   "untracked and ignored",
			output: "?? notes.txt\x00!! .env\x00!! node_modules/\x00",
			want:   []string{".env", "node_modules", "notes.txt"},
		},
		{
			name:   "tracked changes are ignored",
			output: " M README.md\x00A  new.go\x00?? a.txt\x00",
			want:   []string{"a.txt"},
		},
		{
			name:   "rename source record is skipped",
			output: "R  new.txt\x00?? old-looking.txt\x00?? real.txt\x00",
			want:   []string{"real.txt"},
		},
		{
			name:   "paths with spaces are not quoted",
			output: "?? my notes.txt\x00?? dir with space/\x00",
			want:   []string{"dir with space", "my notes.txt"},
		},
		{
			name:   "duplicates collapse",
			output: "?? a\x00?? a/\x00",
			want:   []string{"a"},
		},
		{
			name:   "entries under a listed directory are dropped",
			output: "?? scratch/\x00!! scratch/pkg/node_modules/\x00!! scratch/pkg/\x00?? scratchpad.txt\x00!! a/b/c\x00?? a/\x00",
			want:   []string{"a", "scratch", "scratchpad.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseStatusOutput(tt.output))
		})
	}
}

func TestUntrackedFiles(t *testing.T) {
	repoPath := setupTestRepo(t)

	write := func(rel, content string) {
		p := filepath.Join(repoPath, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	write(".gitignore", ".env\nnode_modules/\n")
	runTestGit(t, repoPath, "add", ".gitignore")
	runTestGit(t, repoPath, "commit", "-m", "ignore")

	write(".env", "SECRET=1\n")
	write("node_modules/left-pad/index.js", "module.exports = 1\n")
	write("notes.txt", "todo\n")
	write("scratch/a.txt", "a\n")
	write("README.md", "# changed\n")

	m := NewManager()
	files, err := m.UntrackedFiles(repoPath)
	require.NoError(t, err)
	assert.Equal(t, []string{".env", "node_modules", "notes.txt", "scratch"}, files)
}

// TestUntrackedFilesNestedIgnored verifies that an ignored directory inside
// an untracked one is reported only through its parent.
func TestUntrackedFilesNestedIgnored(t *testing.T) {
	repoPath := setupTestRepo(t)

	write := func(rel, content string) {
		p := filepath.Join(repoPath, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	write(".gitignore", "node_modules/\n")
	runTestGit(t, repoPath, "add", ".gitignore")
	runTestGit(t, repoPath, "commit", "-m", "ignore")

	write("scratch/notes.txt", "n\n")
	write("scratch/pkg/node_modules/dep/index.js", "x\n")

	files, err := NewManager().UntrackedFiles(repoPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"scratch"}, files)
}

func TestUntrackedFilesClean(t *testing.T) {
	repoPath := setupTestRepo(t)

	files, err := NewManager().UntrackedFiles(repoPath)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUntrackedFilesNotARepo(t *testing.T) {
	_, err := NewManager().UntrackedFiles(t.TempDir())
	assert.Error(t, err)
}
