package worktree

import (
	"sort"
	"strings"
)

// UntrackedFiles returns the untracked and ignored entries of the working
// tree at repoPath, relative to its root, using forward slashes.
//
// Ignored entries (.env, local configs, caches) are included.
//
// Directories that are entirely untracked or ignored are reported once as
// a directory entry ("dir", without the trailing slash) rather than being
// expanded into their contents, and entries nested under a listed
// directory are dropped. The result is deduplicated and sorted.
//
// It runs `git status --porcelain=v1 --ignored -z`. The -z form separates
// records with NUL bytes and never quotes paths, so names containing
// spaces, quotes or non-ASCII characters round-trip unchanged.
func (m *Manager) UntrackedFiles(repoPath string) ([]string, error) {
	output, err := runGit(repoPath, "status", "--porcelain=v1", "--ignored", "--untracked-files=normal", "-z")
	if err != nil {
		return nil, err
	}
	return parseStatusOutput(output), nil
}

// parseStatusOutput extracts "??" (untracked) and "!!" (ignored) entries
// from NUL-separated porcelain v1 status output.
//
// Each record is "XY <path>". Renames and copies (X or Y is R/C) are
// followed by an extra record holding the original path, which must be
// skipped so it is not mistaken for a status line.
func parseStatusOutput(output string) []string {
	seen := make(map[string]struct{})

	records := strings.Split(output, "\x00")
	for i := 0; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			continue
		}

		status := record[:2]
		path := record[3:]

		if strings.ContainsAny(status, "RC") {
			i++ // skip the rename/copy source record
			continue
		}

		if status != "??" && status != "!!" {
			continue
		}

		path = strings.TrimSuffix(path, "/")
		if path == "" {
			continue
		}
		seen[path] = struct{}{}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		if !hasListedParent(p, seen) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// hasListedParent reports whether an ancestor directory of p is itself an
// entry. `git status --ignored` lists an ignored directory nested inside an
// untracked one next to its parent; copying the parent already covers it.
func hasListedParent(p string, seen map[string]struct{}) bool {
	for i := strings.LastIndex(p, "/"); i > 0; i = strings.LastIndex(p[:i], "/") {
		if _, ok := seen[p[:i]]; ok {
			return true
		}
	}
	return false
}
