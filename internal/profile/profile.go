package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmolnar/joyremap/internal/curve"
	"github.com/dmolnar/joyremap/internal/deadzone"
)

// AxisMapping drives one vJoy axis slot from one or more physical axes.
// The first input is the primary one for display purposes.
type AxisMapping struct {
	Name     string            `json:"name"`
	Inputs   []InputSource     `json:"inputs"`
	Output   OutputTarget      `json:"output"`
	Curve    curve.Curve       `json:"curve"`
	Deadzone deadzone.Deadzone `json:"deadzone"`
}

// ButtonMapping drives one button slot. The slot identity is
// (Output.VJoyDevice, Output.Index) whether the current output kind is a
// vJoy button or a keyboard key.
type ButtonMapping struct {
	Name            string        `json:"name"`
	Inputs          []InputSource `json:"inputs"`
	Output          OutputTarget  `json:"output"`
	Mode            ButtonMode    `json:"mode"`
	PulseDurationMs int           `json:"pulseDurationMs,omitempty"`
	HoldDurationMs  int           `json:"holdDurationMs,omitempty"`
}

// HatMapping drives one vJoy POV slot.
type HatMapping struct {
	Name          string        `json:"name"`
	Inputs        []InputSource `json:"inputs"`
	Output        OutputTarget  `json:"output"`
	UseContinuous bool          `json:"useContinuous,omitempty"`
}

const (
	PulseMinMs = 100
	PulseMaxMs = 1000
	HoldMinMs  = 200
	HoldMaxMs  = 2000

	DefaultPulseMs = 250
	DefaultHoldMs  = 500
)

// ClampDurations forces the pulse/hold durations into their legal ranges,
// filling defaults for unset values.
func (m *ButtonMapping) ClampDurations() {
	if m.PulseDurationMs == 0 {
		m.PulseDurationMs = DefaultPulseMs
	}
	m.PulseDurationMs = clampInt(m.PulseDurationMs, PulseMinMs, PulseMaxMs)
	if m.HoldDurationMs == 0 {
		m.HoldDurationMs = DefaultHoldMs
	}
	m.HoldDurationMs = clampInt(m.HoldDurationMs, HoldMinMs, HoldMaxMs)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Profile is the aggregate of all mappings targeting the virtual devices.
type Profile struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	AxisMappings   []*AxisMapping   `json:"axisMappings"`
	ButtonMappings []*ButtonMapping `json:"buttonMappings"`
	HatMappings    []*HatMapping    `json:"hatMappings"`
	ModifiedAt     time.Time        `json:"modifiedAt"`
}

// New creates an empty named profile with a fresh id.
func New(name string) *Profile {
	return &Profile{
		ID:         uuid.New().String(),
		Name:       name,
		ModifiedAt: time.Now(),
	}
}

// Touch bumps the modification timestamp. Callers do this after any
// successful mutation so the store can tell stale copies apart.
func (p *Profile) Touch() {
	p.ModifiedAt = time.Now()
}

// MappingCount returns the total number of mappings of all kinds.
func (p *Profile) MappingCount() int {
	return len(p.AxisMappings) + len(p.ButtonMappings) + len(p.HatMappings)
}

// ActionBinding associates a named game action with a vJoy output,
// keyed by (ActionMap, ActionName). InputName is the host game's input
// syntax, e.g. "js1_button5" or "js2_x".
type ActionBinding struct {
	ActionMap  string    `json:"actionMap"`
	ActionName string    `json:"actionName"`
	VJoyDevice uint      `json:"vjoyDevice"`
	InputName  string    `json:"inputName"`
	InputType  InputKind `json:"inputType"`
	Modifiers  []string  `json:"modifiers,omitempty"`
	Inverted   bool      `json:"inverted,omitempty"`
}
