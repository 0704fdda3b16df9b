package lane

import (
	"github.com/shinji-kodama/lane/internal/model"
)

// ResolveSwitchTarget resolves name to the directory and branch a switch
// should land on.
//
// The reserved names "main" and "origin" always resolve to the main
// repository and its live branch, without consulting the registry. A
// registered lane whose directory no longer exists resolves to absent.
func (o *Orchestrator) ResolveSwitchTarget(name, cwd string) (*model.SwitchTarget, bool) {
	mainRoot, err := o.MainRoot(cwd)
	if err != nil {
		return nil, false
	}

	if model.IsReservedName(name) {
		repo, err := o.git.FindRepo(mainRoot)
		if err != nil {
			return nil, false
		}
		return &model.SwitchTarget{Path: mainRoot, Branch: repo.CurrentBranch}, true
	}

	lane, ok := o.store.GetLane(mainRoot, name)
	if !ok || !exists(lane.Path) {
		return nil, false
	}
	return &model.SwitchTarget{Path: lane.Path, Branch: lane.Branch}, true
}

// ListAll lists the main repository first, then every registered lane in
// registry order. IsCurrent marks the entry whose path is the working tree
// cwd belongs to. Outside a repository the list is empty.
func (o *Orchestrator) ListAll(cwd string) []model.LaneEntry {
	mainRoot, err := o.MainRoot(cwd)
	if err != nil {
		return nil
	}

	current := cwd
	if repo, err := o.git.FindRepo(cwd); err == nil {
		current = repo.Root
	}

	var entries []model.LaneEntry
	if repo, err := o.git.FindRepo(mainRoot); err == nil {
		entries = append(entries, model.LaneEntry{
			Name:      model.MainLaneName,
			Path:      mainRoot,
			Branch:    repo.CurrentBranch,
			IsMain:    true,
			IsCurrent: current == mainRoot,
		})
	}

	for _, l := range o.store.GetAllLanes(mainRoot) {
		entries = append(entries, model.LaneEntry{
			Name:      l.Name,
			Path:      l.Path,
			Branch:    l.Branch,
			IsCurrent: current == l.Path,
		})
	}
	return entries
}

// Status returns the entry for the lane cwd is in.
func (o *Orchestrator) Status(cwd string) (*model.LaneEntry, bool) {
	for _, e := range o.ListAll(cwd) {
		if e.IsCurrent {
			return &e, true
		}
	}
	return nil, false
}

// FindByBranch returns the first entry (main included) that has branch
// checked out.
func (o *Orchestrator) FindByBranch(branch, cwd string) (*model.LaneEntry, bool) {
	for _, e := range o.ListAll(cwd) {
		if e.Branch == branch {
			return &e, true
		}
	}
	return nil, false
}

// BranchExists reports whether a local branch exists in the repository
// containing cwd.
func (o *Orchestrator) BranchExists(branch, cwd string) (bool, error) {
	mainRoot, err := o.MainRoot(cwd)
	if err != nil {
		return false, err
	}
	return o.git.BranchExists(mainRoot, branch), nil
}
