// Package conflict holds the decision machinery for duplicate bindings.
// Dialogs here never mutate a profile or binding set; they record the
// conflict, accept exactly one operator decision and expose the outcome.
// The caller performs whatever mutation the outcome calls for.
package conflict

import (
	"errors"
	"fmt"

	"github.com/dmolnar/joyremap/internal/profile"
)

var ErrDecided = errors.New("conflict already decided")

// LocalResolution answers a duplicate physical input inside one profile.
type LocalResolution int

const (
	// LocalCancel discards the captured input.
	LocalCancel LocalResolution = iota
	// LocalApply commits anyway; the input then drives two mappings,
	// which is deliberately allowed.
	LocalApply
	// LocalReplace removes the input from every other mapping before
	// the caller commits the new one.
	LocalReplace
)

func (r LocalResolution) String() string {
	switch r {
	case LocalCancel:
		return "cancel"
	case LocalApply:
		return "apply"
	case LocalReplace:
		return "replace"
	}
	return "unknown"
}

// ActionResolution answers a contested game-action binding.
type ActionResolution int

const (
	// ActionCancel leaves the binding set untouched.
	ActionCancel ActionResolution = iota
	// ActionShare keeps the existing binding and additionally routes the
	// new trigger to the same action, merging inputs.
	ActionShare
	// ActionReplace removes the old binding and installs the new one.
	ActionReplace
)

func (r ActionResolution) String() string {
	switch r {
	case ActionCancel:
		return "cancel"
	case ActionShare:
		return "share"
	case ActionReplace:
		return "replace"
	}
	return "unknown"
}

// State tracks a dialog through its lifecycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingDecision
	StateCancelled
	StateApplied
	StateReplaced
	StateShared
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingDecision:
		return "awaiting"
	case StateCancelled:
		return "cancelled"
	case StateApplied:
		return "applied"
	case StateReplaced:
		return "replaced"
	case StateShared:
		return "shared"
	}
	return "unknown"
}

// LocalConflict describes a freshly captured input that already drives
// other mappings.
type LocalConflict struct {
	Input   profile.InputSource
	InUseBy []string // names of the mappings already using the input
}

// LocalDialog is the duplicate-input decision machine:
// Idle -> AwaitingDecision -> {Cancelled, Applied, Replaced}.
type LocalDialog struct {
	conflict LocalConflict
	state    State
}

func NewLocalDialog(c LocalConflict) *LocalDialog {
	return &LocalDialog{conflict: c, state: StateAwaitingDecision}
}

func (d *LocalDialog) Conflict() LocalConflict { return d.conflict }
func (d *LocalDialog) State() State            { return d.state }

// Decide consumes the operator's choice. A dialog accepts exactly one
// decision; later calls fail.
func (d *LocalDialog) Decide(r LocalResolution) (State, error) {
	if d.state != StateAwaitingDecision {
		return d.state, ErrDecided
	}
	switch r {
	case LocalCancel:
		d.state = StateCancelled
	case LocalApply:
		d.state = StateApplied
	case LocalReplace:
		d.state = StateReplaced
	default:
		return d.state, fmt.Errorf("invalid local resolution %d", r)
	}
	return d.state, nil
}

// ActionConflict describes a contested exported binding: either the vJoy
// input is already claimed by different actions, or the action is already
// bound on another joystick device.
type ActionConflict struct {
	InputName string
	Existing  []profile.ActionBinding
	Incoming  profile.ActionBinding
}

// ActionNames lists every action contesting the input, existing claimants
// first.
func (c ActionConflict) ActionNames() []string {
	names := make([]string, 0, len(c.Existing)+1)
	for _, b := range c.Existing {
		names = append(names, b.ActionName)
	}
	return append(names, c.Incoming.ActionName)
}

// ActionDialog is the exported-binding decision machine:
// Idle -> AwaitingDecision -> {Cancelled, Shared, Replaced}.
type ActionDialog struct {
	conflict ActionConflict
	state    State
}

func NewActionDialog(c ActionConflict) *ActionDialog {
	return &ActionDialog{conflict: c, state: StateAwaitingDecision}
}

func (d *ActionDialog) Conflict() ActionConflict { return d.conflict }
func (d *ActionDialog) State() State             { return d.state }

func (d *ActionDialog) Decide(r ActionResolution) (State, error) {
	if d.state != StateAwaitingDecision {
		return d.state, ErrDecided
	}
	switch r {
	case ActionCancel:
		d.state = StateCancelled
	case ActionShare:
		d.state = StateShared
	case ActionReplace:
		d.state = StateReplaced
	default:
		return d.state, fmt.Errorf("invalid action resolution %d", r)
	}
	return d.state, nil
}
