package lane

import (
	"fmt"
	"strings"

	"github.com/shinji-kodama/lane/internal/model"
	"github.com/shinji-kodama/lane/internal/replicate"
)

// Sync re-runs replication from the main working tree into the existing
// lane name, bringing over local files added since the lane was created.
// Files already present in the lane are overwritten.
func (o *Orchestrator) Sync(name, cwd string) (*replicate.Report, error) {
	if model.IsReservedName(name) {
		return nil, model.NewCLIError(model.ExitGeneralError, "cannot sync the main repository into itself")
	}
	mainRoot, err := o.MainRoot(cwd)
	if err != nil {
		return nil, err
	}

	lane, ok := o.store.GetLane(mainRoot, name)
	if !ok || !exists(lane.Path) {
		return nil, model.NewCLIError(model.ExitLaneNotFound, fmt.Sprintf("lane not found: %s", name))
	}

	report, err := o.replicator.Replicate(mainRoot, lane.Path, o.store.Load(mainRoot).Settings)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("failed to sync lane %q", name), err)
	}
	o.logger.Debug("synced", "lane", name, "copied", len(report.Copied), "failed", len(report.Failed))
	return report, nil
}

// CheckoutInLane checks out branch inside the existing lane name and records
// the new branch in the registry.
func (o *Orchestrator) CheckoutInLane(name, branch, cwd string) (*model.Lane, error) {
	mainRoot, err := o.MainRoot(cwd)
	if err != nil {
		return nil, err
	}

	lane, ok := o.store.GetLane(mainRoot, name)
	if !ok || !exists(lane.Path) {
		return nil, model.NewCLIError(model.ExitLaneNotFound, fmt.Sprintf("lane not found: %s", name))
	}

	if err := o.git.Checkout(lane.Path, branch); err != nil {
		return nil, model.WrapCLIError(model.ExitGitError,
			fmt.Sprintf("failed to check out %s in lane %q", branch, name), err)
	}

	// Re-load: the checkout may have taken a while.
	cfg := o.store.Load(mainRoot)
	updated, ok := cfg.Find(name)
	if !ok {
		updated = lane
	}
	updated.Branch = branch
	cfg.Upsert(*updated)
	if err := o.store.Save(mainRoot, cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to update the lane registry", err)
	}
	o.logger.Debug("checked out", "lane", name, "branch", branch)
	return updated, nil
}

// Settings returns the effective settings of the repository containing cwd.
func (o *Orchestrator) Settings(cwd string) (model.Settings, error) {
	mainRoot, err := o.MainRoot(cwd)
	if err != nil {
		return model.Settings{}, err
	}
	return o.store.Load(mainRoot).Settings, nil
}

// UpdateSettings applies mutate to the stored settings and saves them.
// Nothing is written when mutate fails.
func (o *Orchestrator) UpdateSettings(cwd string, mutate func(*model.Settings) error) (model.Settings, error) {
	mainRoot, err := o.MainRoot(cwd)
	if err != nil {
		return model.Settings{}, err
	}

	cfg := o.store.Load(mainRoot)
	if err := mutate(&cfg.Settings); err != nil {
		return model.Settings{}, err
	}
	if err := o.store.Save(mainRoot, cfg); err != nil {
		return model.Settings{}, model.WrapCLIError(model.ExitGeneralError, "failed to save settings", err)
	}
	return cfg.Settings, nil
}

// NameForBranch derives a valid lane name from a branch name: slashes and
// other separators become hyphens and unsupported characters are dropped.
func NameForBranch(branch string) string {
	name := strings.ReplaceAll(branch, "/", "-")

	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			result.WriteRune(r)
		}
	}
	name = result.String()

	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	name = strings.TrimSuffix(name, ".lock")
	name = strings.Trim(name, "-._")

	if name == "" || model.IsReservedName(name) {
		name = "lane-" + name
		name = strings.TrimSuffix(name, "-")
	}
	return name
}
