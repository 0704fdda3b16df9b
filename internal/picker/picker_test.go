package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/lane/internal/model"
)

// sampleEntries: main, the current lane "a", and two other lanes.
func sampleEntries() []model.LaneEntry {
	return []model.LaneEntry{
		{Name: "main", Path: "/r", Branch: "main", IsMain: true},
		{Name: "a", Path: "/r-lane-a", Branch: "a", IsCurrent: true},
		{Name: "b", Path: "/r-lane-b", Branch: "b"},
		{Name: "c", Path: "/r-lane-c", Branch: "c"},
	}
}

func feed(h interface{ Handle(Event) bool }, events ...Event) bool {
	done := false
	for _, ev := range events {
		done = h.Handle(ev)
	}
	return done
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		input string
		want  Event
	}{
		{"\x1b[A", EventUp},
		{"k", EventUp},
		{"\x1b[B", EventDown},
		{"j", EventDown},
		{"\x1b[D", EventLeft},
		{"\x1b[C", EventRight},
		{" ", EventToggle},
		{"\r", EventConfirm},
		{"q", EventCancel},
		{"\x1b", EventCancel},
		{"\x03", EventCancel},
		{"d", EventDelete},
		{"x", EventDelete},
		{"s", EventSync},
		{"Y", EventYes},
		{"n", EventNo},
		{"z", EventNone},
		{"", EventNone},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, KeyEvent([]byte(tt.input)))
		})
	}
}

func TestManage_StartsOnCurrent(t *testing.T) {
	m := NewManage(sampleEntries())
	assert.Equal(t, 1, m.Cursor())
	assert.Equal(t, ManageBrowsing, m.State())
}

func TestManage_NavigationClamps(t *testing.T) {
	m := NewManage(sampleEntries())
	feed(m, EventUp, EventUp, EventUp)
	assert.Equal(t, 0, m.Cursor())
	feed(m, EventDown, EventDown, EventDown, EventDown, EventDown)
	assert.Equal(t, 3, m.Cursor())
}

func TestManage_Switch(t *testing.T) {
	m := NewManage(sampleEntries())

	assert.False(t, m.Handle(EventConfirm), "cannot switch to the current lane")
	assert.True(t, feed(m, EventDown, EventConfirm))

	out := m.Outcome()
	assert.Equal(t, ActionSwitch, out.Action)
	require.Len(t, out.Lanes, 1)
	assert.Equal(t, "b", out.Lanes[0].Name)
}

func TestManage_DeleteConfirm(t *testing.T) {
	m := NewManage(sampleEntries())
	feed(m, EventDown, EventDelete)

	assert.Equal(t, ManageConfirmDelete, m.State())
	assert.Equal(t, "b", m.Pending()[0].Name)

	assert.True(t, m.Handle(EventYes))
	assert.Equal(t, ActionDelete, m.Outcome().Action)
	assert.Equal(t, "b", m.Outcome().Lanes[0].Name)
}

// TestManage_DeleteDeclined verifies that any key other than yes returns
// to browsing without deleting.
func TestManage_DeleteDeclined(t *testing.T) {
	for _, ev := range []Event{EventNo, EventCancel, EventDown, EventNone} {
		t.Run(ev.String(), func(t *testing.T) {
			m := NewManage(sampleEntries())
			feed(m, EventDown, EventDelete, ev)
			assert.Equal(t, ManageBrowsing, m.State())
			assert.Empty(t, m.Pending())
			assert.False(t, m.Done())
		})
	}
}

func TestManage_ProtectedEntries(t *testing.T) {
	m := NewManage(sampleEntries())

	// Current lane: no delete, no mark.
	feed(m, EventDelete, EventToggle)
	assert.Equal(t, ManageBrowsing, m.State())
	assert.False(t, m.Marked(1))

	// Main: no delete, no sync.
	feed(m, EventUp, EventDelete, EventSync)
	assert.Equal(t, ManageBrowsing, m.State())
	assert.False(t, m.Done())
}

func TestManage_MultiSelectDelete(t *testing.T) {
	m := NewManage(sampleEntries())
	feed(m, EventDown, EventToggle, EventDown, EventToggle)
	assert.True(t, m.Marked(2))
	assert.True(t, m.Marked(3))

	// Unmark and re-mark.
	feed(m, EventToggle, EventToggle)
	assert.True(t, m.Marked(3))

	// With marks, delete targets the marked set regardless of cursor.
	feed(m, EventUp, EventUp, EventUp, EventDelete)
	require.Equal(t, ManageConfirmDelete, m.State())
	assert.Len(t, m.Pending(), 2)

	assert.True(t, m.Handle(EventYes))
	names := []string{m.Outcome().Lanes[0].Name, m.Outcome().Lanes[1].Name}
	assert.Equal(t, []string{"b", "c"}, names)
}

func TestManage_SyncAndCancel(t *testing.T) {
	m := NewManage(sampleEntries())
	assert.True(t, m.Handle(EventSync), "current lane can be synced")
	assert.Equal(t, ActionSync, m.Outcome().Action)
	assert.Equal(t, "a", m.Outcome().Lanes[0].Name)

	m = NewManage(sampleEntries())
	assert.True(t, m.Handle(EventCancel))
	assert.Equal(t, ActionCancel, m.Outcome().Action)

	// Finished pickers ignore further input.
	assert.True(t, m.Handle(EventDown))
	assert.Equal(t, ActionCancel, m.Outcome().Action)
}

func TestManage_Empty(t *testing.T) {
	m := NewManage(nil)
	assert.False(t, feed(m, EventDown, EventToggle, EventConfirm, EventDelete, EventSync))
	assert.True(t, m.Handle(EventCancel))
}

func TestSelect(t *testing.T) {
	s := NewSelect(sampleEntries())
	assert.Equal(t, 1, s.Cursor())

	assert.False(t, s.Handle(EventConfirm), "current lane is not selectable")
	assert.False(t, s.Handle(EventDelete), "unrelated events are ignored")
	assert.True(t, feed(s, EventUp, EventConfirm))
	assert.Equal(t, ActionSwitch, s.Outcome().Action)
	assert.Equal(t, "main", s.Outcome().Lanes[0].Name)

	s = NewSelect(sampleEntries())
	assert.True(t, s.Handle(EventCancel))
	assert.Equal(t, ActionCancel, s.Outcome().Action)
}

func TestSettingsEditor(t *testing.T) {
	e := NewSettingsEditor(model.DefaultSettings())

	// copyMode: worktree -> full, and stays at the end of the list.
	feed(e, EventRight, EventRight)
	assert.Equal(t, model.CopyModeFull, e.Settings().CopyMode)
	feed(e, EventLeft)
	assert.Equal(t, model.CopyModeWorktree, e.Settings().CopyMode)

	// skipBuildArtifacts: choices are [no, yes]; left turns it off.
	feed(e, EventDown, EventLeft)
	assert.False(t, e.Settings().SkipBuildArtifacts)

	// autoInstall: choices are [yes, no]; right turns it off.
	feed(e, EventDown, EventDown, EventRight)
	assert.Equal(t, 2, e.Cursor())
	assert.False(t, e.Settings().AutoInstall)
	assert.Equal(t, "no", e.Value(SettingsFields[2]))

	assert.True(t, e.Handle(EventConfirm))
	assert.Equal(t, SettingsSaved, e.State())
}

func TestSettingsEditor_Cancel(t *testing.T) {
	orig := model.DefaultSettings()
	e := NewSettingsEditor(orig)
	feed(e, EventRight)
	assert.True(t, e.Handle(EventCancel))
	assert.Equal(t, SettingsCancelled, e.State())
	assert.Equal(t, model.CopyModeWorktree, orig.CopyMode, "original settings are untouched")

	e = NewSettingsEditor(orig)
	assert.True(t, e.Handle(EventSync), "s saves")
	assert.Equal(t, SettingsSaved, e.State())
}

func TestCheckout(t *testing.T) {
	c := NewCheckout("feat/x", false, "feat-x", sampleEntries())

	opts := c.Options()
	require.Len(t, opts, 3, "create + lanes other than main and current")
	assert.Equal(t, CheckoutCreate, opts[0].Kind)
	assert.Equal(t, `Create new lane "feat-x"`, opts[0].Label)
	assert.Equal(t, "Create a new lane with a new branch", opts[0].Description)
	assert.Equal(t, "b", opts[1].Lane.Name)
	assert.Equal(t, "c", opts[2].Lane.Name)

	assert.True(t, feed(c, EventDown, EventDown, EventDown, EventConfirm))
	assert.Equal(t, CheckoutInLane, c.Choice().Kind)
	assert.Equal(t, "c", c.Choice().Lane.Name)
}

func TestCheckout_ExistingBranchAndCancel(t *testing.T) {
	c := NewCheckout("dev", true, "dev", nil)
	require.Len(t, c.Options(), 1)
	assert.Contains(t, c.Options()[0].Description, "existing branch")

	assert.True(t, c.Handle(EventCancel))
	assert.Equal(t, CheckoutCancel, c.Choice().Kind)
}
