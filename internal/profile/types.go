package profile

import (
	"errors"
	"fmt"
)

// InputKind classifies a physical control.
type InputKind int

const (
	InputAxis InputKind = iota
	InputButton
	InputHat
)

var inputKindNames = map[InputKind]string{
	InputAxis:   "axis",
	InputButton: "button",
	InputHat:    "hat",
}

func (k InputKind) String() string {
	if n, ok := inputKindNames[k]; ok {
		return n
	}
	return "unknown"
}

func (k InputKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *InputKind) UnmarshalJSON(p []byte) error {
	s, err := unquote(p)
	if err != nil {
		return err
	}
	for kind, name := range inputKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown input kind %q", s)
}

// OutputKind classifies a virtual output slot.
type OutputKind int

const (
	OutVJoyAxis OutputKind = iota
	OutVJoyButton
	OutVJoyPov
	OutKeyboard
)

var outputKindNames = map[OutputKind]string{
	OutVJoyAxis:   "vjoy_axis",
	OutVJoyButton: "vjoy_button",
	OutVJoyPov:    "vjoy_pov",
	OutKeyboard:   "keyboard",
}

func (k OutputKind) String() string {
	if n, ok := outputKindNames[k]; ok {
		return n
	}
	return "unknown"
}

func (k OutputKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *OutputKind) UnmarshalJSON(p []byte) error {
	s, err := unquote(p)
	if err != nil {
		return err
	}
	for kind, name := range outputKindNames {
		if name == s {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown output kind %q", s)
}

// ButtonMode selects the runtime behavior of a button mapping.
type ButtonMode int

const (
	ModeNormal ButtonMode = iota
	ModeToggle
	ModePulse
	ModeHoldToActivate
)

var buttonModeNames = map[ButtonMode]string{
	ModeNormal:         "normal",
	ModeToggle:         "toggle",
	ModePulse:          "pulse",
	ModeHoldToActivate: "hold",
}

func (m ButtonMode) String() string {
	if n, ok := buttonModeNames[m]; ok {
		return n
	}
	return "unknown"
}

func (m ButtonMode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *ButtonMode) UnmarshalJSON(p []byte) error {
	s, err := unquote(p)
	if err != nil {
		return err
	}
	for mode, name := range buttonModeNames {
		if name == s {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown button mode %q", s)
}

func unquote(p []byte) (string, error) {
	if len(p) < 2 || p[0] != '"' || p[len(p)-1] != '"' {
		return "", errors.New("expected a JSON string")
	}
	return string(p[1 : len(p)-1]), nil
}

// VirtAxis is a canonical vJoy axis index.
type VirtAxis uint

const (
	AxisX VirtAxis = iota
	AxisY
	AxisZ
	AxisRX
	AxisRY
	AxisRZ
	Slider0
	Slider1

	NumVirtAxes = 8
)

var virtAxisNames = [NumVirtAxes]string{"X", "Y", "Z", "RX", "RY", "RZ", "Slider0", "Slider1"}

func (a VirtAxis) String() string {
	if int(a) < len(virtAxisNames) {
		return virtAxisNames[a]
	}
	return fmt.Sprintf("Axis%d", uint(a))
}

// InputSource identifies one physical control. Identity is the
// (DeviceID, Kind, Index) triple; DeviceName is display only.
type InputSource struct {
	DeviceID   string    `json:"deviceId"`
	DeviceName string    `json:"deviceName,omitempty"`
	Kind       InputKind `json:"kind"`
	Index      uint      `json:"index"`
}

// Same reports identity equality, ignoring the display name.
func (s InputSource) Same(o InputSource) bool {
	return s.DeviceID == o.DeviceID && s.Kind == o.Kind && s.Index == o.Index
}

func (s InputSource) String() string {
	return fmt.Sprintf("%s %s %d", s.DeviceID, s.Kind, s.Index)
}

// OutputTarget identifies a virtual output slot. For keyboard outputs
// KeyName/Modifiers carry the emitted key while VJoyDevice/Index still
// name the button slot being overridden; a slot holds either a vJoy
// button or a keyboard output, never both.
type OutputTarget struct {
	Kind       OutputKind `json:"kind"`
	VJoyDevice uint       `json:"vjoyDevice"`
	Index      uint       `json:"index"`
	KeyName    string     `json:"keyName,omitempty"`
	Modifiers  []string   `json:"modifiers,omitempty"`
}
