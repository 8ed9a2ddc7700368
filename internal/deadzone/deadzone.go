package deadzone

import "math"

// Deadzone describes the dead ranges of an axis in the value domain
// [-1,1]. Min/Max trim the outer ends; CenterMin/CenterMax carve a dead
// band around zero when CenterEnabled is set.
//
// Invariant with center enabled: Min <= CenterMin <= 0 <= CenterMax <= Max.
// With center disabled only Min <= Max holds and both center handles sit
// at zero.
type Deadzone struct {
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	CenterMin     float64 `json:"centerMin"`
	CenterMax     float64 `json:"centerMax"`
	CenterEnabled bool    `json:"centerEnabled"`
}

// Handle identifies one of the four draggable deadzone boundaries.
type Handle int

const (
	HandleMin Handle = iota
	HandleCenterMin
	HandleCenterMax
	HandleMax
)

const (
	// Minimum separation between a center handle and its outer handle.
	centerGap = 0.02
	// Minimum Min/Max separation in single-track mode. The editor works
	// on a 0..1 normalized track spanning the full [-1,1] value range, so
	// its 0.1 gap doubles in the value domain.
	singleTrackGap = 0.2
)

// New returns a pass-through deadzone.
func New() Deadzone {
	return Deadzone{Min: -1, Max: 1}
}

// Apply maps a raw sample in [-1,1] through the deadzone, rescaling the
// live range back to full deflection. Samples beyond Min/Max saturate.
func Apply(d Deadzone, raw float64) float64 {
	raw = clamp(raw, -1, 1)

	if !d.CenterEnabled {
		if d.Max <= d.Min {
			return 0
		}
		// Linear remap of [Min,Max] onto [-1,1].
		v := (raw-d.Min)/(d.Max-d.Min)*2 - 1
		return clamp(v, -1, 1)
	}

	switch {
	case raw >= d.CenterMin && raw <= d.CenterMax:
		return 0
	case raw < d.CenterMin:
		span := d.CenterMin - d.Min
		if span <= 0 {
			return -1
		}
		return clamp(-(d.CenterMin-raw)/span, -1, 0)
	default:
		span := d.Max - d.CenterMax
		if span <= 0 {
			return 1
		}
		return clamp((raw-d.CenterMax)/span, 0, 1)
	}
}

// Drag moves a handle to the requested value, clamping so no handle
// crosses its neighbor and minimum separations hold. Invalid requests are
// clamped to the nearest legal value, never rejected.
func Drag(d Deadzone, h Handle, v float64) Deadzone {
	if !d.CenterEnabled {
		switch h {
		case HandleMin:
			d.Min = clamp(v, -1, d.Max-singleTrackGap)
		case HandleMax:
			d.Max = clamp(v, d.Min+singleTrackGap, 1)
		}
		return d
	}

	switch h {
	case HandleMin:
		d.Min = clamp(v, -1, d.CenterMin-centerGap)
	case HandleCenterMin:
		d.CenterMin = clamp(v, d.Min+centerGap, 0)
	case HandleCenterMax:
		d.CenterMax = clamp(v, 0, d.Max-centerGap)
	case HandleMax:
		d.Max = clamp(v, d.CenterMax+centerGap, 1)
	}
	return d
}

// Valid reports whether the ordering invariant holds.
func Valid(d Deadzone) bool {
	if d.CenterEnabled {
		return d.Min <= d.CenterMin && d.CenterMin <= 0 &&
			0 <= d.CenterMax && d.CenterMax <= d.Max
	}
	return d.Min <= d.Max
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
