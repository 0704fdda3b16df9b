package lane

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/shinji-kodama/lane/internal/config"
	"github.com/shinji-kodama/lane/internal/install"
	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/replicate"
	"github.com/shinji-kodama/lane/internal/worktree"
)

// laneDirInfix separates the repository name from the lane name in the
// lane directory name.
const laneDirInfix = "-lane-"

// Git is the subset of the git gateway the orchestrator needs.
// *worktree.Manager implements it.
type Git interface {
	FindRepo(cwd string) (*model.RepoInfo, error)
	IsWorktree(cwd string) bool
	GetMainWorktree(cwd string) (string, error)
	BranchExists(repoPath, branch string) bool
	Add(repoPath, worktreePath, branch string, createNewBranch bool) error
	Remove(repoPath, worktreePath string) error
	Prune(repoPath string) error
	Unlock(repoPath, worktreePath string) error
	DeleteBranch(repoPath, branch string, force bool) error
	Checkout(path, branch string) error
}

// Store persists the lane registry. *config.Store implements it.
type Store interface {
	Load(repoRoot string) *model.LanesConfig
	Save(repoRoot string, cfg *model.LanesConfig) error
	AddLane(repoRoot string, lane model.Lane) (*model.LanesConfig, error)
	RemoveLane(repoRoot, name string) (*model.LanesConfig, error)
	GetLane(repoRoot, name string) (*model.Lane, bool)
	GetAllLanes(repoRoot string) []model.Lane
}

// Replicator copies local files into a lane. *replicate.Replicator
// implements it.
type Replicator interface {
	Replicate(srcRoot, destRoot string, settings model.Settings) (*replicate.Report, error)
}

// Installer bootstraps dependencies in a lane. *install.Installer
// implements it.
type Installer interface {
	Run(ctx context.Context, dir string) install.Result
}

// Orchestrator runs lane lifecycle operations. Every operation resolves the
// main repository from the caller's working directory and loads the
// registry fresh; nothing is cached between calls.
type Orchestrator struct {
	git        Git
	store      Store
	replicator Replicator
	installer  Installer
	logger     *log.Logger

	// removeAll is the forced-removal fallback. Replaced in tests.
	removeAll func(path string) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for step tracing. Steps are logged at
// debug level; warnings at warn level.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRemoveAll replaces the recursive delete used when a forced removal
// falls back to deleting the lane directory.
func WithRemoveAll(fn func(path string) error) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.removeAll = fn
		}
	}
}

// New creates an Orchestrator from its collaborators.
func New(git Git, store Store, replicator Replicator, installer Installer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		git:        git,
		store:      store,
		replicator: replicator,
		installer:  installer,
		logger:     log.New(io.Discard),
		removeAll:  os.RemoveAll,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewDefault creates an Orchestrator backed by the git CLI, the on-disk
// registry and the real package managers. Installer output goes to
// installOut.
func NewDefault(installOut io.Writer, opts ...Option) *Orchestrator {
	wm := worktree.NewManager()
	return New(wm, config.NewStore(), replicate.New(wm), install.New(installOut), opts...)
}

// MainRoot resolves the main repository root from any directory inside the
// main working tree or one of its lanes.
func (o *Orchestrator) MainRoot(cwd string) (string, error) {
	if o.git.IsWorktree(cwd) {
		root, err := o.git.GetMainWorktree(cwd)
		if err != nil {
			return "", model.WrapCLIError(model.ExitNotGitRepository, "failed to resolve the main repository", err)
		}
		return root, nil
	}

	repo, err := o.git.FindRepo(cwd)
	if err != nil {
		return "", model.WrapCLIError(model.ExitNotGitRepository, "not in a git repository", err)
	}
	return repo.Root, nil
}

// LanePath returns the directory a lane named name lives in: a sibling of
// the main repository, never nested inside it.
func LanePath(mainRoot, name string) string {
	return filepath.Join(filepath.Dir(mainRoot), filepath.Base(mainRoot)+laneDirInfix+name)
}

// exists reports whether path is present on disk. Broken symlinks count.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
