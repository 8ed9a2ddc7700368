// Package automap builds a complete 1:1 mapping from a physical device
// onto a virtual one, picking the best-fit virtual device by capacity.
package automap

import (
	"errors"
	"fmt"

	"github.com/dmolnar/joyremap/internal/curve"
	"github.com/dmolnar/joyremap/internal/deadzone"
	"github.com/dmolnar/joyremap/internal/device"
	"github.com/dmolnar/joyremap/internal/profile"
	"github.com/dmolnar/joyremap/internal/resolver"
)

// ErrNoCapacity means no configured virtual device can host the physical
// device's full control set. The caller may still map onto a device of
// its choosing, accepting a partial mapping.
var ErrNoCapacity = errors.New("no virtual device has sufficient capacity")

// Shortfall reports how much capacity is missing on the closest-fitting
// virtual device.
type Shortfall struct {
	Axes    int
	Buttons int
	Hats    int
	// ClosestDevice is the virtual device with the smallest total
	// shortfall, a candidate for a deliberate partial mapping.
	ClosestDevice uint
}

func (s Shortfall) String() string {
	return fmt.Sprintf("short %d axes, %d buttons, %d hats (closest vJoy %d)",
		s.Axes, s.Buttons, s.Hats, s.ClosestDevice)
}

// SelectDevice scores each existing virtual device by 1000 minus its
// excess capacity, considering only devices that can host all three
// control dimensions. When none qualify it returns ErrNoCapacity along
// with the shortfall of the closest fit.
func SelectDevice(cands []device.VJoyInfo, phys device.Info) (device.VJoyInfo, *Shortfall, error) {
	bestScore := -1
	var best device.VJoyInfo

	closestMissing := -1
	var closest *Shortfall

	for _, vj := range cands {
		if !vj.Exists {
			continue
		}
		axisExcess := len(vj.Axes) - phys.Axes
		buttonExcess := vj.Buttons - phys.Buttons
		povExcess := vj.Povs() - phys.Hats

		if axisExcess >= 0 && buttonExcess >= 0 && povExcess >= 0 {
			score := 1000 - (axisExcess + buttonExcess + povExcess)
			if score > bestScore {
				bestScore = score
				best = vj
			}
			continue
		}

		miss := max0(-axisExcess) + max0(-buttonExcess) + max0(-povExcess)
		if closestMissing < 0 || miss < closestMissing {
			closestMissing = miss
			closest = &Shortfall{
				Axes:          max0(-axisExcess),
				Buttons:       max0(-buttonExcess),
				Hats:          max0(-povExcess),
				ClosestDevice: vj.Device,
			}
		}
	}

	if bestScore >= 0 {
		return best, nil, nil
	}
	if closest == nil {
		closest = &Shortfall{Axes: phys.Axes, Buttons: phys.Buttons, Hats: phys.Hats}
	}
	return device.VJoyInfo{}, closest, ErrNoCapacity
}

// Report summarizes what a Map run produced; unmapped leftovers are
// reported, not errors.
type Report struct {
	Device        uint
	AxesMapped    int
	AxesTotal     int
	ButtonsMapped int
	ButtonsTotal  int
	HatsMapped    int
	HatsTotal     int
}

func (r Report) String() string {
	return fmt.Sprintf("vJoy %d: %d of %d axes, %d of %d buttons, %d of %d hats mapped",
		r.Device, r.AxesMapped, r.AxesTotal, r.ButtonsMapped, r.ButtonsTotal, r.HatsMapped, r.HatsTotal)
}

// Canonical assignment order for virtual axes.
var axisOrder = [profile.NumVirtAxes]profile.VirtAxis{
	profile.AxisX, profile.AxisY, profile.AxisZ,
	profile.AxisRX, profile.AxisRY, profile.AxisRZ,
	profile.Slider0, profile.Slider1,
}

// Map writes a full 1:1 mapping of the physical device onto the virtual
// one. Pre-existing mappings from the same physical device to the same
// virtual device are removed first, so re-running is idempotent. Typed
// axes go to the virtual axis of the same type, sliders positionally,
// unknown or displaced axes to the first unused virtual axis; a physical
// axis with nothing left stays unmapped and shows up in the report.
func Map(p *profile.Profile, phys device.Info, vj device.VJoyInfo) Report {
	resolver.ClearSlotMappings(p, phys.ID, vj.Device)

	rep := Report{
		Device:       vj.Device,
		AxesTotal:    phys.Axes,
		ButtonsTotal: phys.Buttons,
		HatsTotal:    phys.Hats,
	}

	available := make(map[profile.VirtAxis]bool, len(vj.Axes))
	for _, a := range vj.Axes {
		available[a] = true
	}
	used := make(map[profile.VirtAxis]bool)

	sliderSeen := 0
	for i := 0; i < phys.Axes; i++ {
		t := device.AxisUnknown
		if i < len(phys.AxisTypes) {
			t = phys.AxisTypes[i]
		}

		target, ok := preferredAxis(t, &sliderSeen)
		if !ok || !available[target] || used[target] {
			target, ok = firstUnused(available, used)
		}
		if !ok {
			continue
		}
		used[target] = true
		rep.AxesMapped++

		p.AxisMappings = append(p.AxisMappings, newAxisMapping(phys, i, vj.Device, target))
	}

	nButtons := min(phys.Buttons, vj.Buttons)
	for i := 0; i < nButtons; i++ {
		p.ButtonMappings = append(p.ButtonMappings, newButtonMapping(phys, i, vj.Device))
	}
	rep.ButtonsMapped = nButtons

	nHats := min(phys.Hats, vj.Povs())
	for i := 0; i < nHats; i++ {
		p.HatMappings = append(p.HatMappings, newHatMapping(phys, i, vj.Device, i < vj.ContinuousPovs))
	}
	rep.HatsMapped = nHats

	p.Touch()
	return rep
}

// preferredAxis maps a physical axis type to its virtual counterpart.
// Sliders are positional since devices may expose more than one.
func preferredAxis(t device.AxisType, sliderSeen *int) (profile.VirtAxis, bool) {
	switch t {
	case device.AxisTypeX:
		return profile.AxisX, true
	case device.AxisTypeY:
		return profile.AxisY, true
	case device.AxisTypeZ:
		return profile.AxisZ, true
	case device.AxisTypeRX:
		return profile.AxisRX, true
	case device.AxisTypeRY:
		return profile.AxisRY, true
	case device.AxisTypeRZ:
		return profile.AxisRZ, true
	case device.AxisTypeSlider:
		n := *sliderSeen
		*sliderSeen++
		if n == 0 {
			return profile.Slider0, true
		}
		if n == 1 {
			return profile.Slider1, true
		}
		return 0, false
	}
	return 0, false
}

func firstUnused(available, used map[profile.VirtAxis]bool) (profile.VirtAxis, bool) {
	for _, a := range axisOrder {
		if available[a] && !used[a] {
			return a, true
		}
	}
	return 0, false
}

func newAxisMapping(phys device.Info, i int, vjoyDevice uint, target profile.VirtAxis) *profile.AxisMapping {
	return &profile.AxisMapping{
		Name: fmt.Sprintf("%s axis %d (%s)", phys.Name, i+1, target),
		Inputs: []profile.InputSource{{
			DeviceID: phys.ID, DeviceName: phys.Name, Kind: profile.InputAxis, Index: uint(i),
		}},
		Output: profile.OutputTarget{
			Kind: profile.OutVJoyAxis, VJoyDevice: vjoyDevice, Index: uint(target),
		},
		Curve:    curve.NewLinear(),
		Deadzone: deadzone.New(),
	}
}

func newButtonMapping(phys device.Info, i int, vjoyDevice uint) *profile.ButtonMapping {
	m := &profile.ButtonMapping{
		Name: fmt.Sprintf("%s button %d", phys.Name, i+1),
		Inputs: []profile.InputSource{{
			DeviceID: phys.ID, DeviceName: phys.Name, Kind: profile.InputButton, Index: uint(i),
		}},
		Output: profile.OutputTarget{
			Kind: profile.OutVJoyButton, VJoyDevice: vjoyDevice, Index: uint(i),
		},
		Mode: profile.ModeNormal,
	}
	m.ClampDurations()
	return m
}

func newHatMapping(phys device.Info, i int, vjoyDevice uint, continuous bool) *profile.HatMapping {
	return &profile.HatMapping{
		Name: fmt.Sprintf("%s hat %d", phys.Name, i+1),
		Inputs: []profile.InputSource{{
			DeviceID: phys.ID, DeviceName: phys.Name, Kind: profile.InputHat, Index: uint(i),
		}},
		Output: profile.OutputTarget{
			Kind: profile.OutVJoyPov, VJoyDevice: vjoyDevice, Index: uint(i),
		},
		UseContinuous: continuous,
	}
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
