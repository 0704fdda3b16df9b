package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CurrentVersion is the schema version written into every registry file.
// It is bumped whenever the on-disk layout of LanesConfig changes.
const CurrentVersion = 1

// Reserved lane names. Both resolve to the main repository and can
// never be registered as lanes.
const (
	MainLaneName   = "main"
	OriginLaneName = "origin"
)

// CopyMode selects how the main working tree is replicated into a new lane.
type CopyMode string

const (
	// CopyModeWorktree replicates only untracked and ignored entries on top
	// of the freshly checked-out worktree. This is the default.
	CopyModeWorktree CopyMode = "worktree"

	// CopyModeFull replicates every top-level entry of the main working
	// tree except the .git metadata, so locally modified tracked files
	// come along as well.
	CopyModeFull CopyMode = "full"
)

// String returns the string representation of CopyMode.
func (m CopyMode) String() string {
	return string(m)
}

// IsValid checks whether the CopyMode value is one of the predefined modes.
func (m CopyMode) IsValid() bool {
	switch m {
	case CopyModeWorktree, CopyModeFull:
		return true
	default:
		return false
	}
}

// ParseCopyMode converts a string to a CopyMode.
// Returns an error if the string does not match any valid mode.
func ParseCopyMode(s string) (CopyMode, error) {
	mode := CopyMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid copy mode: %q (valid: worktree, full)", s)
	}
	return mode, nil
}

// Lane is a named, isolated workspace: a git worktree plus a replicated
// snapshot of the main repository's untracked and ignored files.
//
// Lanes are only ever mutated by full replacement. Re-registering a lane
// under the same name replaces the whole record, CreatedAt included.
type Lane struct {
	// Name is the unique key of the lane within the registry.
	Name string `json:"name"`

	// Path is the absolute path to the lane's working directory.
	// It is 1:1 with a git worktree of the main repository.
	Path string `json:"path"`

	// Branch is the git branch checked out in the lane's worktree.
	Branch string `json:"branch"`

	// CreatedAt is stamped by the registry when the lane is added.
	CreatedAt time.Time `json:"createdAt"`
}

// Settings holds the per-repository behavior knobs stored alongside the
// lane registry.
type Settings struct {
	// SkipPatterns are path segment names that are never replicated into a
	// lane (dependency and build-output directories). Matching is exact and
	// applies to every segment of a path.
	SkipPatterns []string `json:"skipPatterns"`

	// AutoInstall runs the detected dependency installer after creation.
	AutoInstall bool `json:"autoInstall"`

	// CopyMode selects what gets replicated (see CopyMode).
	CopyMode CopyMode `json:"copyMode"`

	// SkipBuildArtifacts gates SkipPatterns. When false, nothing is skipped
	// and build artifacts are copied along with everything else.
	SkipBuildArtifacts bool `json:"skipBuildArtifacts"`
}

// EffectiveSkipPatterns returns the skip patterns that replication should
// honor, taking SkipBuildArtifacts into account.
func (s Settings) EffectiveSkipPatterns() []string {
	if !s.SkipBuildArtifacts {
		return nil
	}
	return s.SkipPatterns
}

// HasSkipPattern reports whether pattern is already configured.
func (s Settings) HasSkipPattern(pattern string) bool {
	for _, p := range s.SkipPatterns {
		if p == pattern {
			return true
		}
	}
	return false
}

// DefaultSkipPatterns lists common dependency and build-output directory
// names across ecosystems.
func DefaultSkipPatterns() []string {
	return []string{
		"node_modules",
		".venv",
		"venv",
		"__pycache__",
		".pytest_cache",
		".mypy_cache",
		"target",  // Rust
		"build",   // various
		"dist",    // various
		".next",   // Next.js
		".nuxt",   // Nuxt
		".turbo",  // Turborepo
		"vendor",  // Go/PHP
		".gradle", // Gradle
		".m2",     // Maven
		"Pods",    // CocoaPods
	}
}

// DefaultSettings returns a fresh copy of the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		SkipPatterns:       DefaultSkipPatterns(),
		AutoInstall:        true,
		CopyMode:           CopyModeWorktree,
		SkipBuildArtifacts: true,
	}
}

// LanesConfig is the persisted lane registry, one per main repository.
type LanesConfig struct {
	// Version is the schema version, kept for future migrations.
	Version int `json:"version"`

	// Lanes is ordered by creation. Order is only meaningful for display.
	Lanes []Lane `json:"lanes"`

	// Settings are the repository-wide behavior knobs.
	Settings Settings `json:"settings"`
}

// DefaultConfig returns a fresh, empty registry. Every call returns
// independent slices so callers can mutate the result freely.
func DefaultConfig() *LanesConfig {
	return &LanesConfig{
		Version:  CurrentVersion,
		Lanes:    []Lane{},
		Settings: DefaultSettings(),
	}
}

// Find returns the lane registered under name.
func (c *LanesConfig) Find(name string) (*Lane, bool) {
	for i := range c.Lanes {
		if c.Lanes[i].Name == name {
			l := c.Lanes[i]
			return &l, true
		}
	}
	return nil, false
}

// Upsert removes every lane named lane.Name and appends lane at the end.
// Names stay unique: a re-added lane replaces its predecessor.
func (c *LanesConfig) Upsert(lane Lane) {
	c.Delete(lane.Name)
	c.Lanes = append(c.Lanes, lane)
}

// Delete removes every lane named name and reports whether one existed.
func (c *LanesConfig) Delete(name string) bool {
	kept := make([]Lane, 0, len(c.Lanes))
	for _, l := range c.Lanes {
		if l.Name != name {
			kept = append(kept, l)
		}
	}
	removed := len(kept) != len(c.Lanes)
	c.Lanes = kept
	return removed
}

// nameRegex validates lane names: a single path segment made of
// alphanumerics, dots, underscores and hyphens, starting with an
// alphanumeric. The name ends up in a directory name and a branch name.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// IsReservedName reports whether name refers to the main repository.
func IsReservedName(name string) bool {
	return name == MainLaneName || name == OriginLaneName
}

// ValidateName checks if the given name can be used for a new lane.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("lane name must not be empty")
	}
	if IsReservedName(name) {
		return fmt.Errorf("lane name %q is reserved for the main repository", name)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid lane name %q: use letters, digits, '.', '_' and '-', starting with a letter or digit", name)
	}
	if strings.HasSuffix(name, ".lock") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid lane name %q: not usable as a git branch name", name)
	}
	return nil
}

// RepoInfo describes the repository that contains a given directory.
type RepoInfo struct {
	// Root is the top-level directory of the working tree.
	Root string

	// Name is the base name of Root.
	Name string

	// ParentDir is the directory containing Root.
	ParentDir string

	// CurrentBranch is the branch checked out at Root.
	// Empty when HEAD is detached.
	CurrentBranch string
}

// LaneEntry is one row of the lane listing. The main repository is
// synthesized as an entry named "main" with IsMain set.
type LaneEntry struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Branch    string `json:"branch"`
	IsMain    bool   `json:"isMain"`
	IsCurrent bool   `json:"isCurrent"`
}

// SwitchTarget is where a switch to a lane should take the user.
type SwitchTarget struct {
	Path   string `json:"path"`
	Branch string `json:"branch"`
}

// Directive is the structured outcome handed to the shell adapter:
// either change the parent shell's directory, or show a message.
type Directive interface {
	isDirective()
}

// ChangeDir asks the shell integration to cd into Path.
type ChangeDir struct {
	Path string
}

// Message asks the shell integration to print Text unchanged.
type Message struct {
	Text string
}

func (ChangeDir) isDirective() {}
func (Message) isDirective()   {}

// Warning is a non-fatal problem attached to a successful lifecycle
// operation ("succeeded with warnings").
type Warning struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// String formats the warning for human-readable output.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
