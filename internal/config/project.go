package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/lane/internal/model"
)

// projectFile is the on-disk shape of `.lanes.yaml`. It uses the same keys
// as the registry's settings object:
//
//	copyMode: worktree
//	autoInstall: false
//	skipBuildArtifacts: true
//	skipPatterns:
//	  - node_modules
//	  - .cache
type projectFile struct {
	SkipPatterns       []string `yaml:"skipPatterns"`
	AutoInstall        bool     `yaml:"autoInstall"`
	CopyMode           string   `yaml:"copyMode"`
	SkipBuildArtifacts bool     `yaml:"skipBuildArtifacts"`
}

// applyProjectDefaults overlays `.lanes.yaml` from repoRoot onto s.
// A missing or malformed file leaves s unchanged.
func applyProjectDefaults(repoRoot string, s *model.Settings) {
	data, err := os.ReadFile(filepath.Join(repoRoot, ProjectFileName))
	if err != nil {
		return
	}

	var patch settingsPatch
	if err := yaml.Unmarshal(data, &patch); err != nil {
		return
	}
	patch.apply(s)
}

// LoadProjectDefaults returns the built-in settings with `.lanes.yaml`
// applied, i.e. the values a fresh registry would start from.
func LoadProjectDefaults(repoRoot string) model.Settings {
	s := model.DefaultSettings()
	applyProjectDefaults(repoRoot, &s)
	return s
}

// MarshalSettingsYAML renders s in the `.lanes.yaml` format, so the output
// of `lane settings --yaml` can be committed as project defaults.
func MarshalSettingsYAML(s model.Settings) ([]byte, error) {
	out, err := yaml.Marshal(projectFile{
		SkipPatterns:       s.SkipPatterns,
		AutoInstall:        s.AutoInstall,
		CopyMode:           s.CopyMode.String(),
		SkipBuildArtifacts: s.SkipBuildArtifacts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings as YAML: %w", err)
	}
	return out, nil
}
