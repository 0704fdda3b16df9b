package picker

import (
	"github.com/shinji-kodama/lane/internal/model"
)

// SettingsState enumerates the states of the settings editor.
type SettingsState int

const (
	SettingsEditing SettingsState = iota
	SettingsSaved
	SettingsCancelled
)

// Field is one editable setting: a label and a fixed list of choices.
type Field struct {
	Key     string
	Label   string
	Choices []string

	// Descriptions explains each choice.
	Descriptions map[string]string
}

const (
	yes = "yes"
	no  = "no"
)

// SettingsFields lists the editable settings in display order.
var SettingsFields = []Field{
	{
		Key:     "copyMode",
		Label:   "Copy Mode",
		Choices: []string{string(model.CopyModeWorktree), string(model.CopyModeFull)},
		Descriptions: map[string]string{
			string(model.CopyModeWorktree): "Fast: git worktree + copy untracked files",
			string(model.CopyModeFull):     "Full copy: copies the entire working tree",
		},
	},
	{
		Key:     "skipBuildArtifacts",
		Label:   "Skip Build Artifacts",
		Choices: []string{no, yes},
		Descriptions: map[string]string{
			yes: "Skip node_modules, dist, .next, etc (run install instead)",
			no:  "Copy everything including build artifacts",
		},
	},
	{
		Key:     "autoInstall",
		Label:   "Auto Install",
		Choices: []string{yes, no},
		Descriptions: map[string]string{
			yes: "Run package manager install after creating lane",
			no:  "Skip automatic dependency installation",
		},
	},
}

var settingsTransitions = map[SettingsState]map[Event]func(*SettingsEditor) SettingsState{
	SettingsEditing: {
		EventUp:      func(e *SettingsEditor) SettingsState { e.cursor = clamp(e.cursor-1, len(SettingsFields)); return SettingsEditing },
		EventDown:    func(e *SettingsEditor) SettingsState { e.cursor = clamp(e.cursor+1, len(SettingsFields)); return SettingsEditing },
		EventLeft:    func(e *SettingsEditor) SettingsState { e.step(-1); return SettingsEditing },
		EventRight:   func(e *SettingsEditor) SettingsState { e.step(1); return SettingsEditing },
		EventConfirm: func(*SettingsEditor) SettingsState { return SettingsSaved },
		EventSync:    func(*SettingsEditor) SettingsState { return SettingsSaved }, // "s" saves here
		EventCancel:  func(*SettingsEditor) SettingsState { return SettingsCancelled },
	},
}

// SettingsEditor edits copy mode, artifact skipping and auto install.
// Skip patterns are edited through flags, not here.
type SettingsEditor struct {
	settings model.Settings
	cursor   int
	state    SettingsState
}

// NewSettingsEditor starts editing a copy of s.
func NewSettingsEditor(s model.Settings) *SettingsEditor {
	s.SkipPatterns = append([]string{}, s.SkipPatterns...)
	return &SettingsEditor{settings: s}
}

// Handle applies ev and reports whether the editor is finished.
func (e *SettingsEditor) Handle(ev Event) bool {
	if h, ok := settingsTransitions[e.state][ev]; ok {
		e.state = h(e)
	}
	return e.Done()
}

func (e *SettingsEditor) Done() bool           { return e.state != SettingsEditing }
func (e *SettingsEditor) State() SettingsState { return e.state }
func (e *SettingsEditor) Cursor() int          { return e.cursor }

// Settings returns the edited settings.
func (e *SettingsEditor) Settings() model.Settings { return e.settings }

// Value returns the current choice for field.
func (e *SettingsEditor) Value(f Field) string {
	switch f.Key {
	case "copyMode":
		return string(e.settings.CopyMode)
	case "skipBuildArtifacts":
		return yesNo(e.settings.SkipBuildArtifacts)
	case "autoInstall":
		return yesNo(e.settings.AutoInstall)
	}
	return ""
}

// step moves the highlighted field's value through its choices without
// wrapping.
func (e *SettingsEditor) step(delta int) {
	f := SettingsFields[e.cursor]
	idx := 0
	for i, c := range f.Choices {
		if c == e.Value(f) {
			idx = i
		}
	}
	v := f.Choices[clamp(idx+delta, len(f.Choices))]

	switch f.Key {
	case "copyMode":
		e.settings.CopyMode = model.CopyMode(v)
	case "skipBuildArtifacts":
		e.settings.SkipBuildArtifacts = v == yes
	case "autoInstall":
		e.settings.AutoInstall = v == yes
	}
}

func yesNo(b bool) string {
	if b {
		return yes
	}
	return no
}
