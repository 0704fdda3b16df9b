package lane

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shinji-kodama/lane/internal/install"
	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/replicate"
)

var errFake = errors.New("fake failure")

// callLog is shared by all fakes so tests can assert cross-component order.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

// fakeGit is an in-memory git gateway rooted at mainRoot.
type fakeGit struct {
	log      *callLog
	mainRoot string
	branch   string
	branches map[string]bool

	// worktreeOf maps a linked worktree path to itself for IsWorktree.
	worktreeOf map[string]bool

	addErr, removeErr, deleteErr, checkoutErr error
}

func newFakeGit(log *callLog, mainRoot string) *fakeGit {
	return &fakeGit{
		log:        log,
		mainRoot:   mainRoot,
		branch:     "main",
		branches:   map[string]bool{"main": true},
		worktreeOf: map[string]bool{},
	}
}

func (g *fakeGit) FindRepo(cwd string) (*model.RepoInfo, error) {
	if cwd == g.mainRoot {
		return &model.RepoInfo{Root: g.mainRoot, CurrentBranch: g.branch}, nil
	}
	if g.worktreeOf[cwd] {
		return &model.RepoInfo{Root: cwd}, nil
	}
	return nil, errFake
}

func (g *fakeGit) IsWorktree(cwd string) bool { return g.worktreeOf[cwd] }

func (g *fakeGit) GetMainWorktree(string) (string, error) { return g.mainRoot, nil }

func (g *fakeGit) BranchExists(_, branch string) bool { return g.branches[branch] }

func (g *fakeGit) Add(_, path, branch string, createNew bool) error {
	g.log.add("git.add %s %s new=%v", path, branch, createNew)
	if g.addErr != nil {
		return g.addErr
	}
	g.branches[branch] = true
	g.worktreeOf[path] = true
	return nil
}

func (g *fakeGit) Remove(_, path string) error {
	g.log.add("git.remove %s", path)
	return g.removeErr
}

func (g *fakeGit) Prune(string) error {
	g.log.add("git.prune")
	return nil
}

func (g *fakeGit) Unlock(_, path string) error {
	g.log.add("git.unlock %s", path)
	return errors.New("not locked")
}

func (g *fakeGit) DeleteBranch(_, branch string, force bool) error {
	g.log.add("git.deleteBranch %s force=%v", branch, force)
	return g.deleteErr
}

func (g *fakeGit) Checkout(path, branch string) error {
	g.log.add("git.checkout %s %s", path, branch)
	return g.checkoutErr
}

// fakeStore keeps the registry in memory.
type fakeStore struct {
	log     *callLog
	cfg     *model.LanesConfig
	saveErr error
}

func newFakeStore(log *callLog) *fakeStore {
	return &fakeStore{log: log, cfg: model.DefaultConfig()}
}

func (s *fakeStore) clone() *model.LanesConfig {
	c := *s.cfg
	c.Lanes = append([]model.Lane{}, s.cfg.Lanes...)
	c.Settings.SkipPatterns = append([]string{}, s.cfg.Settings.SkipPatterns...)
	return &c
}

func (s *fakeStore) Load(string) *model.LanesConfig { return s.clone() }

func (s *fakeStore) Save(_ string, cfg *model.LanesConfig) error {
	s.log.add("store.save")
	if s.saveErr != nil {
		return s.saveErr
	}
	s.cfg = cfg
	return nil
}

func (s *fakeStore) AddLane(root string, lane model.Lane) (*model.LanesConfig, error) {
	s.log.add("store.add %s", lane.Name)
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	lane.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.cfg.Upsert(lane)
	return s.clone(), nil
}

func (s *fakeStore) RemoveLane(_, name string) (*model.LanesConfig, error) {
	s.log.add("store.remove %s", name)
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.cfg.Delete(name)
	return s.clone(), nil
}

func (s *fakeStore) GetLane(_, name string) (*model.Lane, bool) { return s.cfg.Find(name) }

func (s *fakeStore) GetAllLanes(string) []model.Lane { return s.clone().Lanes }

// fakeReplicator records the settings it was called with.
type fakeReplicator struct {
	log    *callLog
	report *replicate.Report
	err    error
}

func (r *fakeReplicator) Replicate(src, dst string, settings model.Settings) (*replicate.Report, error) {
	r.log.add("replicate %s -> %s mode=%s", src, dst, settings.CopyMode)
	if r.err != nil {
		return nil, r.err
	}
	if r.report != nil {
		return r.report, nil
	}
	return &replicate.Report{}, nil
}

// fakeInstaller returns a canned result.
type fakeInstaller struct {
	log    *callLog
	result install.Result
}

func (i *fakeInstaller) Run(_ context.Context, dir string) install.Result {
	i.log.add("install %s", dir)
	return i.result
}
