package resolver

import (
	"testing"

	"github.com/dmolnar/joyremap/internal/conflict"
	"github.com/dmolnar/joyremap/internal/curve"
	"github.com/dmolnar/joyremap/internal/profile"
)

func axisInput(dev string, index uint) profile.InputSource {
	return profile.InputSource{DeviceID: dev, Kind: profile.InputAxis, Index: index}
}

func buttonInput(dev string, index uint) profile.InputSource {
	return profile.InputSource{DeviceID: dev, Kind: profile.InputButton, Index: index}
}

func TestBindAxisCreatesDefaults(t *testing.T) {
	p := profile.New("test")
	m := BindAxis(p, 0, 2, axisInput("devA", 0), conflict.LocalApply)
	if m == nil {
		t.Fatal("BindAxis returned nil")
	}
	if m.Output.Index != 2 || m.Output.Kind != profile.OutVJoyAxis {
		t.Fatalf("wrong output: %+v", m.Output)
	}
	if m.Curve.Type != curve.Linear || m.Deadzone.Min != -1 || m.Deadzone.Max != 1 {
		t.Fatalf("defaults not applied: curve=%+v deadzone=%+v", m.Curve, m.Deadzone)
	}
	if got := FindAxisForSlot(p, 0, 2); got != m {
		t.Fatal("slot lookup misses the new mapping")
	}
}

func TestBindCancelIsNoop(t *testing.T) {
	p := profile.New("test")
	if m := BindButton(p, 0, 0, buttonInput("devA", 0), conflict.LocalCancel); m != nil {
		t.Fatal("cancel must not bind")
	}
	if len(p.ButtonMappings) != 0 {
		t.Fatalf("cancel mutated the profile: %+v", p.ButtonMappings)
	}
}

func TestBindAppendsInputAndRenames(t *testing.T) {
	p := profile.New("test")
	BindButton(p, 0, 0, buttonInput("devA", 0), conflict.LocalApply)
	m := BindButton(p, 0, 0, buttonInput("devB", 4), conflict.LocalApply)
	if len(m.Inputs) != 2 {
		t.Fatalf("second input not appended: %+v", m.Inputs)
	}
	if m.Name != "Button 1 (2 inputs)" {
		t.Fatalf("name = %q", m.Name)
	}

	// Re-binding the same input must not duplicate it or stack the suffix.
	m = BindButton(p, 0, 0, buttonInput("devB", 4), conflict.LocalApply)
	if len(m.Inputs) != 2 {
		t.Fatalf("duplicate input appended: %+v", m.Inputs)
	}
	if m.Name != "Button 1 (2 inputs)" {
		t.Fatalf("suffix stacked: %q", m.Name)
	}
}

func TestReplaceMovesInputBetweenSlots(t *testing.T) {
	p := profile.New("test")
	in := buttonInput("devA", 3)
	BindButton(p, 0, 2, in, conflict.LocalApply)

	dups := DetectDuplicateInput(p, in, Ref{})
	if len(dups) != 1 {
		t.Fatalf("expected one duplicate, got %v", MappingNames(dups))
	}

	m := BindButton(p, 0, 5, in, conflict.LocalReplace)
	if m == nil {
		t.Fatal("replace did not bind")
	}
	refs := FindMappingsUsingInput(p, in)
	if len(refs) != 1 || refs[0].Button != m {
		t.Fatalf("input should drive exactly the new slot, got %v", MappingNames(refs))
	}
	if FindButtonForSlot(p, 0, 2) != nil {
		t.Fatal("emptied mapping at old slot not removed")
	}
}

func TestApplyKeepsBothMappings(t *testing.T) {
	p := profile.New("test")
	in := axisInput("devA", 1)
	BindAxis(p, 0, 0, in, conflict.LocalApply)
	BindAxis(p, 0, 1, in, conflict.LocalApply)

	refs := FindMappingsUsingInput(p, in)
	if len(refs) != 2 {
		t.Fatalf("apply should keep both uses, got %v", MappingNames(refs))
	}
}

func TestDetectDuplicateExcludesTarget(t *testing.T) {
	p := profile.New("test")
	in := buttonInput("devA", 0)
	m := BindButton(p, 0, 0, in, conflict.LocalApply)

	dups := DetectDuplicateInput(p, in, Ref{Button: m})
	if len(dups) != 0 {
		t.Fatalf("target mapping reported as its own duplicate: %v", MappingNames(dups))
	}
}

func TestRemoveLastInputRemovesMapping(t *testing.T) {
	p := profile.New("test")
	m := BindHat(p, 0, 0, profile.InputSource{DeviceID: "devA", Kind: profile.InputHat, Index: 0}, conflict.LocalApply)
	if !RemoveInputAt(p, Ref{Hat: m}, 0) {
		t.Fatal("remove failed")
	}
	if len(p.HatMappings) != 0 {
		t.Fatalf("mapping with zero inputs survived: %+v", p.HatMappings)
	}
}

func TestRemoveInputRestoresBaseName(t *testing.T) {
	p := profile.New("test")
	BindButton(p, 0, 0, buttonInput("devA", 0), conflict.LocalApply)
	m := BindButton(p, 0, 0, buttonInput("devB", 0), conflict.LocalApply)
	if !RemoveInputAt(p, Ref{Button: m}, 1) {
		t.Fatal("remove failed")
	}
	if m.Name != "Button 1" {
		t.Fatalf("suffix not stripped: %q", m.Name)
	}
}

func TestClearSlotMappings(t *testing.T) {
	p := profile.New("test")
	BindAxis(p, 0, 0, axisInput("devA", 0), conflict.LocalApply)
	BindAxis(p, 0, 1, axisInput("devB", 0), conflict.LocalApply)
	BindAxis(p, 1, 2, axisInput("devA", 1), conflict.LocalApply)

	ClearSlotMappings(p, "devA", 0)

	if len(p.AxisMappings) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(p.AxisMappings))
	}
	for _, m := range p.AxisMappings {
		if m.Output.VJoyDevice == 0 && m.Inputs[0].DeviceID == "devA" {
			t.Fatalf("devA mapping on vJoy 0 survived: %+v", m)
		}
	}
}
