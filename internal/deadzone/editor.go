package deadzone

// Session carries transient editor state, handle selection today. It is a
// value: editing functions take a session and return the updated one, so
// no ambient selection state survives between edits.
type Session struct {
	Selected    Handle
	HasSelected bool
}

// Select marks a handle as the target for presets and keyboard nudges.
// Center handles cannot be selected while center mode is off.
func Select(d Deadzone, s Session, h Handle) Session {
	if !d.CenterEnabled && (h == HandleCenterMin || h == HandleCenterMax) {
		return s
	}
	s.Selected = h
	s.HasSelected = true
	return s
}

// Deselect clears the selection.
func Deselect(s Session) Session {
	return Session{}
}

// SetCenterEnabled toggles the center dead band. Disabling it resets both
// center handles to zero and drops any selection that referenced them.
func SetCenterEnabled(d Deadzone, s Session, on bool) (Deadzone, Session) {
	if d.CenterEnabled == on {
		return d, s
	}
	d.CenterEnabled = on
	if !on {
		d.CenterMin = 0
		d.CenterMax = 0
		if s.HasSelected && (s.Selected == HandleCenterMin || s.Selected == HandleCenterMax) {
			s = Session{}
		}
		if d.Max < d.Min+singleTrackGap {
			d = Drag(d, HandleMax, d.Min+singleTrackGap)
		}
		return d, s
	}
	// Entering dual-track mode: pull the outer handles clear of center.
	if d.Min > -centerGap {
		d.Min = -centerGap
	}
	if d.Max < centerGap {
		d.Max = centerGap
	}
	return d, s
}

// Preset sizes as a fraction of full deflection.
const (
	PresetOff    = 0.0
	PresetSmall  = 0.02
	PresetMedium = 0.05
	PresetLarge  = 0.1
)

// ApplyPreset sets the selected handle to the canonical offset from its
// natural zero reference: Min to -1+p, CenterMin to -p, CenterMax to +p
// and Max to 1-p. Without a selection it is a no-op.
func ApplyPreset(d Deadzone, s Session, preset float64) Deadzone {
	if !s.HasSelected {
		return d
	}
	switch s.Selected {
	case HandleMin:
		return Drag(d, HandleMin, -1+preset)
	case HandleCenterMin:
		return Drag(d, HandleCenterMin, -preset)
	case HandleCenterMax:
		return Drag(d, HandleCenterMax, preset)
	case HandleMax:
		return Drag(d, HandleMax, 1-preset)
	}
	return d
}
