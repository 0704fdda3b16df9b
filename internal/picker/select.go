package picker

import (
	"github.com/shinji-kodama/lane/internal/model"
)

// SelectState enumerates the states of the lane selector.
type SelectState int

const (
	SelectBrowsing SelectState = iota
	SelectDone
)

var selectTransitions = map[SelectState]map[Event]func(*Select) SelectState{
	SelectBrowsing: {
		EventUp:   func(s *Select) SelectState { s.cursor = clamp(s.cursor-1, len(s.entries)); return SelectBrowsing },
		EventDown: func(s *Select) SelectState { s.cursor = clamp(s.cursor+1, len(s.entries)); return SelectBrowsing },
		EventConfirm: func(s *Select) SelectState {
			if len(s.entries) == 0 || s.entries[s.cursor].IsCurrent {
				return SelectBrowsing
			}
			s.outcome = Outcome{Action: ActionSwitch, Lanes: []model.LaneEntry{s.entries[s.cursor]}}
			return SelectDone
		},
		EventCancel: func(s *Select) SelectState {
			s.outcome = Outcome{Action: ActionCancel}
			return SelectDone
		},
	},
}

// Select picks one lane to switch to. The current lane cannot be picked.
type Select struct {
	entries []model.LaneEntry
	cursor  int
	state   SelectState
	outcome Outcome
}

// NewSelect starts the selector with the cursor on the current lane.
func NewSelect(entries []model.LaneEntry) *Select {
	return &Select{entries: entries, cursor: currentIndex(entries)}
}

// Handle applies ev and reports whether the picker is finished.
func (s *Select) Handle(ev Event) bool {
	if h, ok := selectTransitions[s.state][ev]; ok {
		s.state = h(s)
	}
	return s.state == SelectDone
}

func (s *Select) Done() bool                 { return s.state == SelectDone }
func (s *Select) Outcome() Outcome           { return s.outcome }
func (s *Select) Cursor() int                { return s.cursor }
func (s *Select) Entries() []model.LaneEntry { return s.entries }
