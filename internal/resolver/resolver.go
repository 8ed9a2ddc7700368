// Package resolver answers "what drives this slot" and "what does this
// input drive" questions over a profile, and performs the add/remove
// mutations that keep the one-mapping-per-slot invariant intact. All
// functions take the profile explicitly; there is no ambient state.
package resolver

import (
	"fmt"

	"github.com/dmolnar/joyremap/internal/conflict"
	"github.com/dmolnar/joyremap/internal/curve"
	"github.com/dmolnar/joyremap/internal/deadzone"
	"github.com/dmolnar/joyremap/internal/profile"
)

// Ref points at one mapping of any kind inside a profile. Exactly one
// field is non-nil.
type Ref struct {
	Axis   *profile.AxisMapping
	Button *profile.ButtonMapping
	Hat    *profile.HatMapping
}

func (r Ref) Name() string {
	switch {
	case r.Axis != nil:
		return r.Axis.Name
	case r.Button != nil:
		return r.Button.Name
	case r.Hat != nil:
		return r.Hat.Name
	}
	return ""
}

func (r Ref) Inputs() []profile.InputSource {
	switch {
	case r.Axis != nil:
		return r.Axis.Inputs
	case r.Button != nil:
		return r.Button.Inputs
	case r.Hat != nil:
		return r.Hat.Inputs
	}
	return nil
}

// FindAxisForSlot returns the axis mapping owning the slot, or nil.
func FindAxisForSlot(p *profile.Profile, vjoyDevice, index uint) *profile.AxisMapping {
	for _, m := range p.AxisMappings {
		if m.Output.VJoyDevice == vjoyDevice && m.Output.Index == index {
			return m
		}
	}
	return nil
}

// FindButtonForSlot returns the button mapping owning the slot. The slot
// is shared between vJoy-button and keyboard outputs, so the current
// output kind does not matter.
func FindButtonForSlot(p *profile.Profile, vjoyDevice, index uint) *profile.ButtonMapping {
	for _, m := range p.ButtonMappings {
		if m.Output.VJoyDevice == vjoyDevice && m.Output.Index == index {
			return m
		}
	}
	return nil
}

// FindHatForSlot returns the hat mapping owning the POV slot, or nil.
func FindHatForSlot(p *profile.Profile, vjoyDevice, index uint) *profile.HatMapping {
	for _, m := range p.HatMappings {
		if m.Output.VJoyDevice == vjoyDevice && m.Output.Index == index {
			return m
		}
	}
	return nil
}

// FindMappingsUsingInput scans all three collections for mappings that
// reference the given physical input.
func FindMappingsUsingInput(p *profile.Profile, in profile.InputSource) []Ref {
	var refs []Ref
	for _, m := range p.AxisMappings {
		if usesInput(m.Inputs, in) {
			refs = append(refs, Ref{Axis: m})
		}
	}
	for _, m := range p.ButtonMappings {
		if usesInput(m.Inputs, in) {
			refs = append(refs, Ref{Button: m})
		}
	}
	for _, m := range p.HatMappings {
		if usesInput(m.Inputs, in) {
			refs = append(refs, Ref{Hat: m})
		}
	}
	return refs
}

func usesInput(list []profile.InputSource, in profile.InputSource) bool {
	for _, s := range list {
		if s.Same(in) {
			return true
		}
	}
	return false
}

// DetectDuplicateInput returns the mappings already driven by the input,
// excluding the mapping the input is about to be added to. A non-empty
// result means the caller must run the conflict dialog before binding.
func DetectDuplicateInput(p *profile.Profile, in profile.InputSource, target Ref) []Ref {
	var dups []Ref
	for _, r := range FindMappingsUsingInput(p, in) {
		if r.Axis != nil && r.Axis == target.Axis {
			continue
		}
		if r.Button != nil && r.Button == target.Button {
			continue
		}
		if r.Hat != nil && r.Hat == target.Hat {
			continue
		}
		dups = append(dups, r)
	}
	return dups
}

// MappingNames extracts the display names of the given refs, for conflict
// reporting.
func MappingNames(refs []Ref) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name()
	}
	return names
}

// renameForInputs tags multi-input mappings for traceability.
func renameForInputs(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s (%d inputs)", base, n)
}

// BindAxis commits a captured axis input to an axis slot under the given
// resolution. With an undecided duplicate the caller must have run the
// dialog already: Cancel is a no-op, Replace strips the input from every
// other mapping first, Apply binds alongside existing uses.
func BindAxis(p *profile.Profile, vjoyDevice, index uint, in profile.InputSource, res conflict.LocalResolution) *profile.AxisMapping {
	if res == conflict.LocalCancel {
		return nil
	}
	m := FindAxisForSlot(p, vjoyDevice, index)
	if res == conflict.LocalReplace {
		RemoveInputEverywhere(p, in, Ref{Axis: m})
	}
	if m != nil {
		if !usesInput(m.Inputs, in) {
			m.Inputs = append(m.Inputs, in)
		}
		m.Name = renameForInputs(baseName(m.Name), len(m.Inputs))
		p.Touch()
		return m
	}
	m = &profile.AxisMapping{
		Name:     fmt.Sprintf("Axis %d", index+1),
		Inputs:   []profile.InputSource{in},
		Output:   profile.OutputTarget{Kind: profile.OutVJoyAxis, VJoyDevice: vjoyDevice, Index: index},
		Curve:    curve.NewLinear(),
		Deadzone: deadzone.New(),
	}
	p.AxisMappings = append(p.AxisMappings, m)
	p.Touch()
	return m
}

// BindButton commits a captured button input to a button slot, creating a
// Normal-mode mapping when the slot is free.
func BindButton(p *profile.Profile, vjoyDevice, index uint, in profile.InputSource, res conflict.LocalResolution) *profile.ButtonMapping {
	if res == conflict.LocalCancel {
		return nil
	}
	m := FindButtonForSlot(p, vjoyDevice, index)
	if res == conflict.LocalReplace {
		RemoveInputEverywhere(p, in, Ref{Button: m})
	}
	if m != nil {
		if !usesInput(m.Inputs, in) {
			m.Inputs = append(m.Inputs, in)
		}
		m.Name = renameForInputs(baseName(m.Name), len(m.Inputs))
		p.Touch()
		return m
	}
	m = &profile.ButtonMapping{
		Name:   fmt.Sprintf("Button %d", index+1),
		Inputs: []profile.InputSource{in},
		Output: profile.OutputTarget{Kind: profile.OutVJoyButton, VJoyDevice: vjoyDevice, Index: index},
		Mode:   profile.ModeNormal,
	}
	m.ClampDurations()
	p.ButtonMappings = append(p.ButtonMappings, m)
	p.Touch()
	return m
}

// BindHat commits a captured hat input to a POV slot.
func BindHat(p *profile.Profile, vjoyDevice, index uint, in profile.InputSource, res conflict.LocalResolution) *profile.HatMapping {
	if res == conflict.LocalCancel {
		return nil
	}
	m := FindHatForSlot(p, vjoyDevice, index)
	if res == conflict.LocalReplace {
		RemoveInputEverywhere(p, in, Ref{Hat: m})
	}
	if m != nil {
		if !usesInput(m.Inputs, in) {
			m.Inputs = append(m.Inputs, in)
		}
		m.Name = renameForInputs(baseName(m.Name), len(m.Inputs))
		p.Touch()
		return m
	}
	m = &profile.HatMapping{
		Name:   fmt.Sprintf("Hat %d", index+1),
		Inputs: []profile.InputSource{in},
		Output: profile.OutputTarget{Kind: profile.OutVJoyPov, VJoyDevice: vjoyDevice, Index: index},
	}
	p.HatMappings = append(p.HatMappings, m)
	p.Touch()
	return m
}

// RemoveInputAt drops the input at index i of the mapping. A mapping
// whose input list empties is removed from its collection entirely; zero
// inputs is not a valid mapping state.
func RemoveInputAt(p *profile.Profile, r Ref, i int) bool {
	switch {
	case r.Axis != nil:
		if i < 0 || i >= len(r.Axis.Inputs) {
			return false
		}
		r.Axis.Inputs = append(r.Axis.Inputs[:i], r.Axis.Inputs[i+1:]...)
		if len(r.Axis.Inputs) == 0 {
			removeAxis(p, r.Axis)
		} else {
			r.Axis.Name = renameForInputs(baseName(r.Axis.Name), len(r.Axis.Inputs))
		}
	case r.Button != nil:
		if i < 0 || i >= len(r.Button.Inputs) {
			return false
		}
		r.Button.Inputs = append(r.Button.Inputs[:i], r.Button.Inputs[i+1:]...)
		if len(r.Button.Inputs) == 0 {
			removeButton(p, r.Button)
		} else {
			r.Button.Name = renameForInputs(baseName(r.Button.Name), len(r.Button.Inputs))
		}
	case r.Hat != nil:
		if i < 0 || i >= len(r.Hat.Inputs) {
			return false
		}
		r.Hat.Inputs = append(r.Hat.Inputs[:i], r.Hat.Inputs[i+1:]...)
		if len(r.Hat.Inputs) == 0 {
			removeHat(p, r.Hat)
		} else {
			r.Hat.Name = renameForInputs(baseName(r.Hat.Name), len(r.Hat.Inputs))
		}
	default:
		return false
	}
	p.Touch()
	return true
}

// RemoveInputEverywhere strips the input from every mapping except the
// one referenced by keep, dropping mappings that empty out.
func RemoveInputEverywhere(p *profile.Profile, in profile.InputSource, keep Ref) {
	for _, r := range FindMappingsUsingInput(p, in) {
		if r.Axis != nil && r.Axis == keep.Axis {
			continue
		}
		if r.Button != nil && r.Button == keep.Button {
			continue
		}
		if r.Hat != nil && r.Hat == keep.Hat {
			continue
		}
		for i, s := range r.Inputs() {
			if s.Same(in) {
				RemoveInputAt(p, r, i)
				break
			}
		}
	}
}

// ClearSlotMappings removes every mapping whose output targets the given
// virtual device and whose inputs all come from the given physical
// device. AutoMapper uses this to stay idempotent across re-runs.
func ClearSlotMappings(p *profile.Profile, deviceID string, vjoyDevice uint) {
	p.AxisMappings = filterAxes(p.AxisMappings, deviceID, vjoyDevice)
	p.ButtonMappings = filterButtons(p.ButtonMappings, deviceID, vjoyDevice)
	p.HatMappings = filterHats(p.HatMappings, deviceID, vjoyDevice)
	p.Touch()
}

func allFromDevice(inputs []profile.InputSource, deviceID string) bool {
	for _, s := range inputs {
		if s.DeviceID != deviceID {
			return false
		}
	}
	return len(inputs) > 0
}

func filterAxes(in []*profile.AxisMapping, deviceID string, vjoyDevice uint) []*profile.AxisMapping {
	out := in[:0]
	for _, m := range in {
		if m.Output.VJoyDevice == vjoyDevice && allFromDevice(m.Inputs, deviceID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func filterButtons(in []*profile.ButtonMapping, deviceID string, vjoyDevice uint) []*profile.ButtonMapping {
	out := in[:0]
	for _, m := range in {
		if m.Output.VJoyDevice == vjoyDevice && allFromDevice(m.Inputs, deviceID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func filterHats(in []*profile.HatMapping, deviceID string, vjoyDevice uint) []*profile.HatMapping {
	out := in[:0]
	for _, m := range in {
		if m.Output.VJoyDevice == vjoyDevice && allFromDevice(m.Inputs, deviceID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func removeAxis(p *profile.Profile, m *profile.AxisMapping) {
	for i, x := range p.AxisMappings {
		if x == m {
			p.AxisMappings = append(p.AxisMappings[:i], p.AxisMappings[i+1:]...)
			return
		}
	}
}

func removeButton(p *profile.Profile, m *profile.ButtonMapping) {
	for i, x := range p.ButtonMappings {
		if x == m {
			p.ButtonMappings = append(p.ButtonMappings[:i], p.ButtonMappings[i+1:]...)
			return
		}
	}
}

func removeHat(p *profile.Profile, m *profile.HatMapping) {
	for i, x := range p.HatMappings {
		if x == m {
			p.HatMappings = append(p.HatMappings[:i], p.HatMappings[i+1:]...)
			return
		}
	}
}

// baseName strips a previously applied "(n inputs)" suffix so renames do
// not stack.
func baseName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '(' {
			if i > 0 && name[i-1] == ' ' && hasInputsSuffix(name[i:]) {
				return name[:i-1]
			}
			break
		}
	}
	return name
}

func hasInputsSuffix(s string) bool {
	// Matches "(<digits> inputs)".
	if len(s) < len("(2 inputs)") || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	body := s[1 : len(s)-1]
	i := 0
	for i < len(body) && body[i] >= '0' && body[i] <= '9' {
		i++
	}
	return i > 0 && body[i:] == " inputs"
}
