package export

import (
	"fmt"

	"github.com/dmolnar/joyremap/internal/profile"
)

// Host-game input name syntax: joystick devices are 1-based, e.g.
// "js1_button5", "js2_x", "js1_hat1".

var axisInputNames = [profile.NumVirtAxes]string{
	"x", "y", "z", "rotx", "roty", "rotz", "slider1", "slider2",
}

// AxisInputName renders a vJoy axis as a game input name.
func AxisInputName(vjoyDevice uint, axis profile.VirtAxis) string {
	name := "unknown"
	if int(axis) < len(axisInputNames) {
		name = axisInputNames[axis]
	}
	return fmt.Sprintf("js%d_%s", vjoyDevice+1, name)
}

// ButtonInputName renders a vJoy button as a game input name.
func ButtonInputName(vjoyDevice, index uint) string {
	return fmt.Sprintf("js%d_button%d", vjoyDevice+1, index+1)
}

// HatInputName renders a vJoy POV as a game input name.
func HatInputName(vjoyDevice, index uint) string {
	return fmt.Sprintf("js%d_hat%d", vjoyDevice+1, index+1)
}

// InputNameFor renders the game input name for a mapping output slot.
// Keyboard outputs have no joystick-side name and return false.
func InputNameFor(t profile.OutputTarget) (string, profile.InputKind, bool) {
	switch t.Kind {
	case profile.OutVJoyAxis:
		return AxisInputName(t.VJoyDevice, profile.VirtAxis(t.Index)), profile.InputAxis, true
	case profile.OutVJoyButton:
		return ButtonInputName(t.VJoyDevice, t.Index), profile.InputButton, true
	case profile.OutVJoyPov:
		return HatInputName(t.VJoyDevice, t.Index), profile.InputHat, true
	}
	return "", 0, false
}
