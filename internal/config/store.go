package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moby/sys/atomicwriter"
	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/lane/internal/model"
)

const (
	// FileName is the name of the registry file inside the git directory.
	FileName = "lanes.json"

	// ProjectFileName is the optional, committed project defaults file at
	// the repository root.
	ProjectFileName = ".lanes.yaml"
)

// Store reads and writes the lane registry. The zero value is not usable;
// create one with NewStore.
type Store struct {
	// now stamps CreatedAt on registration. Replaced in tests.
	now func() time.Time
}

// NewStore creates a Store that stamps lanes with the current UTC time.
func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// Path returns the registry file path for the repository rooted at repoRoot.
//
// Normally this is `<repoRoot>/.git/lanes.json`. When `.git` is a file
// (a linked worktree or a submodule) the `gitdir:` pointer is followed,
// and for linked worktrees the shared `commondir` is used, so every
// working tree of a repository resolves to the same registry.
func (s *Store) Path(repoRoot string) string {
	return filepath.Join(gitDir(repoRoot), FileName)
}

// Load reads the registry for repoRoot. It never fails: a missing or corrupt
// document yields defaults (see package documentation).
func (s *Store) Load(repoRoot string) *model.LanesConfig {
	cfg := model.DefaultConfig()
	applyProjectDefaults(repoRoot, &cfg.Settings)

	data, err := os.ReadFile(s.Path(repoRoot))
	if err != nil {
		return cfg
	}

	var patch configPatch
	if err := json.Unmarshal(jsonc.ToJSON(data), &patch); err != nil {
		// Corrupt registry: start over. The next Save overwrites it.
		return cfg
	}

	patch.apply(cfg)
	return cfg
}

// Save writes cfg as indented JSON, atomically replacing the previous file.
func (s *Store) Save(repoRoot string, cfg *model.LanesConfig) error {
	if cfg.Lanes == nil {
		cfg.Lanes = []model.Lane{}
	}
	if cfg.Version == 0 {
		cfg.Version = model.CurrentVersion
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode lane registry: %w", err)
	}
	data = append(data, '\n')

	path := s.Path(repoRoot)
	if err := atomicwriter.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lane registry %s: %w", path, err)
	}
	return nil
}

// AddLane registers lane, replacing any lane with the same name, stamps a
// fresh creation time, and persists the registry. The supplied CreatedAt is
// ignored.
func (s *Store) AddLane(repoRoot string, lane model.Lane) (*model.LanesConfig, error) {
	cfg := s.Load(repoRoot)

	lane.CreatedAt = s.now()
	cfg.Upsert(lane)

	if err := s.Save(repoRoot, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RemoveLane deregisters the lane named name and persists the registry.
// Removing an unknown name is not an error; the file is rewritten anyway.
func (s *Store) RemoveLane(repoRoot, name string) (*model.LanesConfig, error) {
	cfg := s.Load(repoRoot)
	cfg.Delete(name)

	if err := s.Save(repoRoot, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetLane looks up a registered lane by name.
func (s *Store) GetLane(repoRoot, name string) (*model.Lane, bool) {
	return s.Load(repoRoot).Find(name)
}

// GetAllLanes returns every registered lane in registration order.
func (s *Store) GetAllLanes(repoRoot string) []model.Lane {
	return s.Load(repoRoot).Lanes
}

// gitDir resolves the common git directory of the working tree at repoRoot
// without invoking git.
func gitDir(repoRoot string) string {
	dotGit := filepath.Join(repoRoot, ".git")

	info, err := os.Stat(dotGit)
	if err != nil || info.IsDir() {
		return dotGit
	}

	// `.git` is a file of the form "gitdir: <path>".
	data, err := os.ReadFile(dotGit)
	if err != nil {
		return dotGit
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return dotGit
	}
	dir := strings.TrimSpace(target)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoRoot, dir)
	}

	// Linked worktrees keep per-worktree state in <common>/worktrees/<id>
	// and point back to the shared directory through a commondir file.
	if common, err := os.ReadFile(filepath.Join(dir, "commondir")); err == nil {
		c := strings.TrimSpace(string(common))
		if !filepath.IsAbs(c) {
			c = filepath.Join(dir, c)
		}
		return filepath.Clean(c)
	}
	return filepath.Clean(dir)
}
