package config

import (
	"encoding/json"
	"time"

	"github.com/shinji-kodama/lane/internal/model"
)

// configPatch mirrors LanesConfig with every field optional, so that a
// partially populated document can be told apart from explicit zero values.
// Lanes and settings stay raw until apply: a malformed lane is dropped on
// its own and a malformed settings block falls back to defaults, while the
// rest of the document still loads.
type configPatch struct {
	Version  *int              `json:"version"`
	Lanes    []json.RawMessage `json:"lanes"`
	Settings json.RawMessage   `json:"settings"`
}

// lanePatch decodes a stored lane. A createdAt that is not an RFC 3339
// string becomes the zero time.
type lanePatch struct {
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Branch    string          `json:"branch"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

// settingsPatch is the key-by-key overlay for Settings. It is shared by the
// JSON registry and the YAML project file.
type settingsPatch struct {
	SkipPatterns       *[]string `json:"skipPatterns" yaml:"skipPatterns"`
	AutoInstall        *bool     `json:"autoInstall" yaml:"autoInstall"`
	CopyMode           *string   `json:"copyMode" yaml:"copyMode"`
	SkipBuildArtifacts *bool     `json:"skipBuildArtifacts" yaml:"skipBuildArtifacts"`
}

// apply overlays the stored document onto cfg, which already holds defaults.
func (p *configPatch) apply(cfg *model.LanesConfig) {
	if p.Version != nil && *p.Version > 0 {
		cfg.Version = *p.Version
	}

	for _, raw := range p.Lanes {
		var lp lanePatch
		if err := json.Unmarshal(raw, &lp); err != nil {
			continue
		}
		// An entry without a name cannot be addressed by any command.
		if lp.Name == "" {
			continue
		}
		cfg.Lanes = append(cfg.Lanes, model.Lane{
			Name:      lp.Name,
			Path:      lp.Path,
			Branch:    lp.Branch,
			CreatedAt: parseTimestamp(lp.CreatedAt),
		})
	}

	if len(p.Settings) > 0 {
		var sp settingsPatch
		if err := json.Unmarshal(p.Settings, &sp); err == nil {
			sp.apply(&cfg.Settings)
		}
	}
}

// apply overlays the keys present in p onto s. An unknown copy mode is
// ignored and the previous value kept.
func (p *settingsPatch) apply(s *model.Settings) {
	if p.SkipPatterns != nil {
		s.SkipPatterns = append([]string{}, (*p.SkipPatterns)...)
	}
	if p.AutoInstall != nil {
		s.AutoInstall = *p.AutoInstall
	}
	if p.CopyMode != nil {
		if mode, err := model.ParseCopyMode(*p.CopyMode); err == nil {
			s.CopyMode = mode
		}
	}
	if p.SkipBuildArtifacts != nil {
		s.SkipBuildArtifacts = *p.SkipBuildArtifacts
	}
}

// parseTimestamp accepts an RFC 3339 string with or without fractional
// seconds, which covers both Go's encoding and the common JavaScript ISO
// form. Anything else, including non-string JSON, yields the zero time.
func parseTimestamp(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
