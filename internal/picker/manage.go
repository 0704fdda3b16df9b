package picker

import (
	"github.com/shinji-kodama/lane/internal/model"
)

// ManageState enumerates the states of the lane manager.
type ManageState int

const (
	// ManageBrowsing: moving the cursor, toggling marks.
	ManageBrowsing ManageState = iota
	// ManageConfirmDelete: waiting for a yes/no on the pending deletion.
	ManageConfirmDelete
	// ManageDone: finished; see Outcome.
	ManageDone
)

// Action is what the user chose to do with the selected lanes.
type Action int

const (
	ActionNone Action = iota
	ActionSwitch
	ActionDelete
	ActionSync
	ActionCancel
)

// Outcome is the result of a finished picker.
type Outcome struct {
	Action Action

	// Lanes are the targets of Action, in list order.
	Lanes []model.LaneEntry
}

type manageHandler func(*Manage) ManageState

// manageTransitions is the transition table of the lane manager. Events
// missing from a state's row leave the state unchanged, except in
// ManageConfirmDelete where any unlisted event returns to browsing.
var manageTransitions = map[ManageState]map[Event]manageHandler{
	ManageBrowsing: {
		EventUp:      func(m *Manage) ManageState { m.move(-1); return ManageBrowsing },
		EventDown:    func(m *Manage) ManageState { m.move(1); return ManageBrowsing },
		EventToggle:  (*Manage).toggle,
		EventConfirm: (*Manage).switchTo,
		EventDelete:  (*Manage).requestDelete,
		EventSync:    (*Manage).sync,
		EventCancel:  func(m *Manage) ManageState { return m.finish(ActionCancel, nil) },
	},
	ManageConfirmDelete: {
		EventYes: func(m *Manage) ManageState { return m.finish(ActionDelete, m.pending) },
	},
}

// Manage is the lane manager: navigate, switch, sync, and delete one lane
// or several marked lanes after confirmation.
type Manage struct {
	entries []model.LaneEntry
	cursor  int
	marked  map[int]bool
	pending []model.LaneEntry
	state   ManageState
	outcome Outcome
}

// NewManage starts the manager with the cursor on the current lane.
func NewManage(entries []model.LaneEntry) *Manage {
	return &Manage{
		entries: entries,
		cursor:  currentIndex(entries),
		marked:  map[int]bool{},
	}
}

// Handle applies ev and reports whether the picker is finished.
func (m *Manage) Handle(ev Event) bool {
	if m.state == ManageDone {
		return true
	}

	handler, ok := manageTransitions[m.state][ev]
	switch {
	case ok:
		m.state = handler(m)
	case m.state == ManageConfirmDelete:
		m.pending = nil
		m.state = ManageBrowsing
	}
	return m.state == ManageDone
}

// State returns the current state.
func (m *Manage) State() ManageState { return m.state }

// Done reports whether the picker is finished.
func (m *Manage) Done() bool { return m.state == ManageDone }

// Outcome returns the user's choice. Valid once Done.
func (m *Manage) Outcome() Outcome { return m.outcome }

// Cursor returns the index of the highlighted entry.
func (m *Manage) Cursor() int { return m.cursor }

// Entries returns the listed lanes.
func (m *Manage) Entries() []model.LaneEntry { return m.entries }

// Marked reports whether entry i is marked for bulk deletion.
func (m *Manage) Marked(i int) bool { return m.marked[i] }

// Pending returns the lanes awaiting delete confirmation.
func (m *Manage) Pending() []model.LaneEntry { return m.pending }

func (m *Manage) move(delta int) {
	m.cursor = clamp(m.cursor+delta, len(m.entries))
}

func (m *Manage) selected() (model.LaneEntry, bool) {
	if len(m.entries) == 0 {
		return model.LaneEntry{}, false
	}
	return m.entries[m.cursor], true
}

// toggle marks or unmarks the highlighted lane. Lanes that cannot be
// deleted cannot be marked.
func (m *Manage) toggle() ManageState {
	e, ok := m.selected()
	if !ok || !deletable(e) {
		return ManageBrowsing
	}
	if m.marked[m.cursor] {
		delete(m.marked, m.cursor)
	} else {
		m.marked[m.cursor] = true
	}
	return ManageBrowsing
}

func (m *Manage) switchTo() ManageState {
	e, ok := m.selected()
	if !ok || e.IsCurrent {
		return ManageBrowsing
	}
	return m.finish(ActionSwitch, []model.LaneEntry{e})
}

// requestDelete asks for confirmation for the marked lanes, or for the
// highlighted lane when nothing is marked.
func (m *Manage) requestDelete() ManageState {
	if len(m.marked) > 0 {
		m.pending = nil
		for i, e := range m.entries {
			if m.marked[i] {
				m.pending = append(m.pending, e)
			}
		}
		return ManageConfirmDelete
	}

	e, ok := m.selected()
	if !ok || !deletable(e) {
		return ManageBrowsing
	}
	m.pending = []model.LaneEntry{e}
	return ManageConfirmDelete
}

func (m *Manage) sync() ManageState {
	e, ok := m.selected()
	if !ok || e.IsMain {
		return ManageBrowsing
	}
	return m.finish(ActionSync, []model.LaneEntry{e})
}

func (m *Manage) finish(action Action, lanes []model.LaneEntry) ManageState {
	m.outcome = Outcome{Action: action, Lanes: lanes}
	return ManageDone
}

// deletable: the main repository and the lane the user is standing in are
// never deleted from the manager.
func deletable(e model.LaneEntry) bool {
	return !e.IsMain && !e.IsCurrent
}

func currentIndex(entries []model.LaneEntry) int {
	for i, e := range entries {
		if e.IsCurrent {
			return i
		}
	}
	return 0
}
