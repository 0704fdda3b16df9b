package picker

import (
	"fmt"

	"github.com/shinji-kodama/lane/internal/model"
)

// CheckoutState enumerates the states of the checkout selector.
type CheckoutState int

const (
	CheckoutChoosing CheckoutState = iota
	CheckoutDone
)

// CheckoutKind distinguishes the checkout options.
type CheckoutKind int

const (
	// CheckoutCreate creates a new lane for the branch.
	CheckoutCreate CheckoutKind = iota
	// CheckoutInLane checks the branch out in an existing lane.
	CheckoutInLane
	// CheckoutCancel aborts.
	CheckoutCancel
)

// CheckoutOption is one row of the checkout selector.
type CheckoutOption struct {
	Kind        CheckoutKind
	Label       string
	Description string

	// Lane is the target lane for CheckoutInLane.
	Lane model.LaneEntry
}

var checkoutTransitions = map[CheckoutState]map[Event]func(*Checkout) CheckoutState{
	CheckoutChoosing: {
		EventUp:   func(c *Checkout) CheckoutState { c.cursor = clamp(c.cursor-1, len(c.options)); return CheckoutChoosing },
		EventDown: func(c *Checkout) CheckoutState { c.cursor = clamp(c.cursor+1, len(c.options)); return CheckoutChoosing },
		EventConfirm: func(c *Checkout) CheckoutState {
			c.choice = c.options[c.cursor]
			return CheckoutDone
		},
		EventCancel: func(c *Checkout) CheckoutState {
			c.choice = CheckoutOption{Kind: CheckoutCancel}
			return CheckoutDone
		},
	},
}

// Checkout decides where a branch that no lane has checked out should go:
// a new lane, or one of the existing lanes other than main and the
// current one.
type Checkout struct {
	branch  string
	options []CheckoutOption
	cursor  int
	state   CheckoutState
	choice  CheckoutOption
}

// NewCheckout builds the options for branch.
func NewCheckout(branch string, branchExists bool, laneName string, entries []model.LaneEntry) *Checkout {
	desc := "Create a new lane with a new branch"
	if branchExists {
		desc = "Create a new lane and check out this existing branch"
	}
	options := []CheckoutOption{{
		Kind:        CheckoutCreate,
		Label:       fmt.Sprintf("Create new lane %q", laneName),
		Description: desc,
	}}

	for _, e := range entries {
		if e.IsMain || e.IsCurrent {
			continue
		}
		options = append(options, CheckoutOption{
			Kind:        CheckoutInLane,
			Label:       fmt.Sprintf("Checkout in %q", e.Name),
			Description: "Currently on branch: " + e.Branch,
			Lane:        e,
		})
	}

	return &Checkout{branch: branch, options: options}
}

// Handle applies ev and reports whether the selector is finished.
func (c *Checkout) Handle(ev Event) bool {
	if h, ok := checkoutTransitions[c.state][ev]; ok {
		c.state = h(c)
	}
	return c.Done()
}

func (c *Checkout) Done() bool                { return c.state == CheckoutDone }
func (c *Checkout) Choice() CheckoutOption    { return c.choice }
func (c *Checkout) Options() []CheckoutOption { return c.options }
func (c *Checkout) Cursor() int               { return c.cursor }
func (c *Checkout) Branch() string            { return c.branch }
