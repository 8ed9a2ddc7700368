package conflict

import (
	"errors"
	"testing"

	"github.com/dmolnar/joyremap/internal/profile"
)

func TestLocalDialogLifecycle(t *testing.T) {
	in := profile.InputSource{DeviceID: "devA", Kind: profile.InputButton, Index: 3}
	d := NewLocalDialog(LocalConflict{Input: in, InUseBy: []string{"Button 1"}})

	if d.State() != StateAwaitingDecision {
		t.Fatalf("state = %v, want awaiting", d.State())
	}
	st, err := d.Decide(LocalReplace)
	if err != nil {
		t.Fatal(err)
	}
	if st != StateReplaced {
		t.Fatalf("state = %v, want replaced", st)
	}
	st, err = d.Decide(LocalCancel)
	if !errors.Is(err, ErrDecided) {
		t.Fatalf("second decision: err = %v, want ErrDecided", err)
	}
	if st != StateReplaced {
		t.Fatal("second decision changed the outcome")
	}
}

func TestLocalDialogStates(t *testing.T) {
	cases := []struct {
		res  LocalResolution
		want State
	}{
		{LocalCancel, StateCancelled},
		{LocalApply, StateApplied},
		{LocalReplace, StateReplaced},
	}
	for _, tc := range cases {
		d := NewLocalDialog(LocalConflict{})
		st, err := d.Decide(tc.res)
		if err != nil {
			t.Fatal(err)
		}
		if st != tc.want {
			t.Errorf("Decide(%v) = %v, want %v", tc.res, st, tc.want)
		}
	}
}

func TestLocalDialogRejectsInvalidResolution(t *testing.T) {
	d := NewLocalDialog(LocalConflict{})
	if _, err := d.Decide(LocalResolution(99)); err == nil {
		t.Fatal("invalid resolution accepted")
	}
	// An invalid choice must not consume the dialog.
	if d.State() != StateAwaitingDecision {
		t.Fatalf("state = %v, want awaiting", d.State())
	}
}

func TestActionDialogStates(t *testing.T) {
	cases := []struct {
		res  ActionResolution
		want State
	}{
		{ActionCancel, StateCancelled},
		{ActionShare, StateShared},
		{ActionReplace, StateReplaced},
	}
	for _, tc := range cases {
		d := NewActionDialog(ActionConflict{InputName: "js1_button4"})
		if d.State() != StateAwaitingDecision {
			t.Fatalf("state = %v, want awaiting", d.State())
		}
		st, err := d.Decide(tc.res)
		if err != nil {
			t.Fatal(err)
		}
		if st != tc.want {
			t.Errorf("Decide(%v) = %v, want %v", tc.res, st, tc.want)
		}
		if _, err := d.Decide(tc.res); !errors.Is(err, ErrDecided) {
			t.Errorf("second Decide: err = %v, want ErrDecided", err)
		}
	}
}

func TestActionNamesOrder(t *testing.T) {
	c := ActionConflict{
		InputName: "js1_button2",
		Existing: []profile.ActionBinding{
			{ActionMap: "spaceship_weapons", ActionName: "v_attack1"},
		},
		Incoming: profile.ActionBinding{ActionMap: "spaceship_targeting", ActionName: "v_target_cycle"},
	}
	names := c.ActionNames()
	if len(names) != 2 || names[0] != "v_attack1" || names[1] != "v_target_cycle" {
		t.Fatalf("ActionNames() = %v", names)
	}
}
