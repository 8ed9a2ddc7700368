// Package export maintains the in-memory set of game action bindings and
// validates it against the game's action schema. Writing the host game's
// file format is the schema collaborator's job; this package only
// produces the binding set.
package export

import (
	"fmt"
	"sort"

	"github.com/dmolnar/joyremap/internal/conflict"
	"github.com/dmolnar/joyremap/internal/profile"
)

// Key identifies an action binding.
type Key struct {
	ActionMap  string
	ActionName string
}

// Action is one bindable entry of the game's schema.
type Action struct {
	ActionMap    string
	ActionName   string
	DefaultInput string
}

// Schema supplies the bindable actions.
type Schema interface {
	Actions() ([]Action, error)
}

// Writer accepts a completed binding set and writes it in the host
// game's native format.
type Writer interface {
	Write(bindings []profile.ActionBinding) error
}

// BindingSet holds the current action bindings. An action may carry more
// than one binding after a Share resolution merged triggers.
type BindingSet struct {
	bindings map[Key][]profile.ActionBinding
}

func NewBindingSet() *BindingSet {
	return &BindingSet{bindings: make(map[Key][]profile.ActionBinding)}
}

// Get returns the bindings of one action.
func (s *BindingSet) Get(k Key) []profile.ActionBinding {
	return s.bindings[k]
}

// Remove deletes an action's bindings explicitly.
func (s *BindingSet) Remove(k Key) {
	delete(s.bindings, k)
}

// Len returns the total number of bindings across all actions.
func (s *BindingSet) Len() int {
	n := 0
	for _, bs := range s.bindings {
		n += len(bs)
	}
	return n
}

// All returns every binding ordered by action map then action name.
func (s *BindingSet) All() []profile.ActionBinding {
	keys := make([]Key, 0, len(s.bindings))
	for k := range s.bindings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ActionMap != keys[j].ActionMap {
			return keys[i].ActionMap < keys[j].ActionMap
		}
		return keys[i].ActionName < keys[j].ActionName
	})
	var out []profile.ActionBinding
	for _, k := range keys {
		out = append(out, s.bindings[k]...)
	}
	return out
}

// ClaimantsOfInput returns bindings of other actions already claiming the
// given physical trigger.
func (s *BindingSet) ClaimantsOfInput(except Key, vjoyDevice uint, inputName string) []profile.ActionBinding {
	var out []profile.ActionBinding
	for k, bs := range s.bindings {
		if k == except {
			continue
		}
		for _, b := range bs {
			if b.VJoyDevice == vjoyDevice && b.InputName == inputName {
				out = append(out, b)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActionName < out[j].ActionName })
	return out
}

// DetectConflict reports why installing b needs an operator decision:
// either its trigger is already claimed by different actions, or the
// action itself is already bound on another joystick device. A nil
// return means Put can proceed without a dialog.
func (s *BindingSet) DetectConflict(b profile.ActionBinding) *conflict.ActionConflict {
	k := Key{b.ActionMap, b.ActionName}

	existing := s.ClaimantsOfInput(k, b.VJoyDevice, b.InputName)
	for _, old := range s.bindings[k] {
		if old.VJoyDevice != b.VJoyDevice || old.InputName != b.InputName {
			existing = append(existing, old)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return &conflict.ActionConflict{
		InputName: b.InputName,
		Existing:  existing,
		Incoming:  b,
	}
}

// Put installs b under the given resolution. Without a conflict the
// binding simply replaces the action's previous entry. With one:
// Cancel leaves everything untouched, Share installs b while keeping
// every existing claimant, and Replace first removes the conflicting
// bindings, both other claimants of the trigger and the action's own
// bindings elsewhere.
func (s *BindingSet) Put(b profile.ActionBinding, res conflict.ActionResolution) {
	k := Key{b.ActionMap, b.ActionName}

	c := s.DetectConflict(b)
	if c == nil {
		s.bindings[k] = []profile.ActionBinding{b}
		return
	}

	switch res {
	case conflict.ActionCancel:
		return
	case conflict.ActionShare:
		s.bindings[k] = append(s.bindings[k], b)
	case conflict.ActionReplace:
		s.removeClaimants(k, b.VJoyDevice, b.InputName)
		s.bindings[k] = []profile.ActionBinding{b}
	}
}

func (s *BindingSet) removeClaimants(except Key, vjoyDevice uint, inputName string) {
	for k, bs := range s.bindings {
		if k == except {
			continue
		}
		kept := bs[:0]
		for _, b := range bs {
			if b.VJoyDevice == vjoyDevice && b.InputName == inputName {
				continue
			}
			kept = append(kept, b)
		}
		if len(kept) == 0 {
			delete(s.bindings, k)
		} else {
			s.bindings[k] = kept
		}
	}
}

// Validate checks every binding against the schema's action list.
func (s *BindingSet) Validate(actions []Action) error {
	known := make(map[Key]bool, len(actions))
	for _, a := range actions {
		known[Key{a.ActionMap, a.ActionName}] = true
	}
	for k := range s.bindings {
		if !known[k] {
			return fmt.Errorf("binding references unknown action %s.%s", k.ActionMap, k.ActionName)
		}
	}
	return nil
}
