package pipeline

// AxisValue is the live value of one mapped axis slot.
type AxisValue struct {
	Name       string  `json:"name"`
	VJoyDevice uint    `json:"vjoyDevice"`
	Index      uint    `json:"index"`
	Value      float64 `json:"value"`
}

// ButtonValue is the live output of one mapped button slot. Key is set
// when the slot emits a keyboard key instead of a vJoy button.
type ButtonValue struct {
	Name       string `json:"name"`
	VJoyDevice uint   `json:"vjoyDevice"`
	Index      uint   `json:"index"`
	Pressed    bool   `json:"pressed"`
	Key        string `json:"key,omitempty"`
}

// HatValue is the live angle of one mapped POV slot, -1 when centered.
type HatValue struct {
	Name       string `json:"name"`
	VJoyDevice uint   `json:"vjoyDevice"`
	Index      uint   `json:"index"`
	Angle      int32  `json:"angle"`
}

// State is a snapshot of every mapped output after one tick.
type State struct {
	Profile string        `json:"profile"`
	Axes    []AxisValue   `json:"axes"`
	Buttons []ButtonValue `json:"buttons"`
	Hats    []HatValue    `json:"hats"`
}

// Delta carries only the entries that changed between two states.
type Delta struct {
	Profile *string       `json:"profile,omitempty"`
	Axes    []AxisValue   `json:"axes,omitempty"`
	Buttons []ButtonValue `json:"buttons,omitempty"`
	Hats    []HatValue    `json:"hats,omitempty"`
}

func (d *Delta) IsEmpty() bool {
	return d.Profile == nil && len(d.Axes) == 0 && len(d.Buttons) == 0 && len(d.Hats) == 0
}

const analogThreshold = 0.001

// ComputeDelta compares two snapshots slot by slot. A layout change
// (mapping added or removed) reports every slot of the new state.
func ComputeDelta(old, next State) *Delta {
	d := &Delta{}
	if old.Profile != next.Profile {
		d.Profile = &next.Profile
	}

	if len(old.Axes) != len(next.Axes) || len(old.Buttons) != len(next.Buttons) || len(old.Hats) != len(next.Hats) {
		d.Axes = next.Axes
		d.Buttons = next.Buttons
		d.Hats = next.Hats
		return d
	}

	for i, a := range next.Axes {
		diff := a.Value - old.Axes[i].Value
		if diff < 0 {
			diff = -diff
		}
		if diff > analogThreshold || a.Name != old.Axes[i].Name {
			d.Axes = append(d.Axes, a)
		}
	}
	for i, b := range next.Buttons {
		if b != old.Buttons[i] {
			d.Buttons = append(d.Buttons, b)
		}
	}
	for i, h := range next.Hats {
		if h != old.Hats[i] {
			d.Hats = append(d.Hats, h)
		}
	}
	return d
}
