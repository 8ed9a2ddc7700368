// Package device defines the collaborator contracts between the mapping
// engine and the physical/virtual device layers, one interface per
// capability.
package device

import "github.com/dmolnar/joyremap/internal/profile"

// HatState is a POV direction in whole degrees, or HatCentered.
type HatState int32

const HatCentered HatState = -1

// AxisType is the physical axis type reported by the device layer, when
// known. Unknown axes get positional assignment during auto-mapping.
type AxisType int

const (
	AxisUnknown AxisType = iota
	AxisTypeX
	AxisTypeY
	AxisTypeZ
	AxisTypeRX
	AxisTypeRY
	AxisTypeRZ
	AxisTypeSlider
)

func (t AxisType) String() string {
	switch t {
	case AxisTypeX:
		return "X"
	case AxisTypeY:
		return "Y"
	case AxisTypeZ:
		return "Z"
	case AxisTypeRX:
		return "RX"
	case AxisTypeRY:
		return "RY"
	case AxisTypeRZ:
		return "RZ"
	case AxisTypeSlider:
		return "Slider"
	}
	return "unknown"
}

// Info describes one connected physical device.
type Info struct {
	ID        string
	Name      string
	Axes      int
	AxisTypes []AxisType // len == Axes; AxisUnknown when the layer cannot tell
	Buttons   int
	Hats      int
}

// Poller reads the live state of physical devices.
type Poller interface {
	Devices() []Info
	PollAxis(deviceID string, index uint) float64
	PollButton(deviceID string, index uint) bool
	PollHat(deviceID string, index uint) HatState
}

// VJoyInfo describes one virtual device and its capacities.
type VJoyInfo struct {
	Device         uint
	Exists         bool
	Axes           []profile.VirtAxis
	Buttons        int
	ContinuousPovs int
	DiscretePovs   int
}

// Povs is the total POV capacity.
func (i VJoyInfo) Povs() int { return i.ContinuousPovs + i.DiscretePovs }

// VirtualOutput drives the virtual devices. Callers set any number of
// controls and then Flush the device, batching one update per tick.
type VirtualOutput interface {
	Devices() []VJoyInfo
	SetAxis(device uint, axis profile.VirtAxis, v float64) error
	SetButton(device uint, index uint, pressed bool) error
	SetPov(device uint, index uint, h HatState) error
	Flush(device uint) error
}

// KeySink receives keyboard outputs for button slots overridden to a key.
type KeySink interface {
	SetKey(name string, modifiers []string, down bool) error
}
