// Package pipeline runs the live transform loop: raw samples from the
// poller pass through each mapping's deadzone and response curve and land
// on the virtual outputs. Profile access is single-writer; swaps go
// through SetProfile and every tick works on the current aggregate under
// the lock.
package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dmolnar/joyremap/internal/curve"
	"github.com/dmolnar/joyremap/internal/deadzone"
	"github.com/dmolnar/joyremap/internal/device"
	"github.com/dmolnar/joyremap/internal/profile"
)

type slotKey struct {
	dev   uint
	index uint
}

// buttonRuntime is the per-slot state the button modes need across ticks.
type buttonRuntime struct {
	prevPressed bool
	toggled     bool
	pulseUntil  time.Time
	heldSince   time.Time
	active      bool
}

// Pipeline owns the tick loop.
type Pipeline struct {
	poller device.Poller
	out    device.VirtualOutput
	keys   device.KeySink // optional, nil drops keyboard outputs

	mu      sync.Mutex
	prof    *profile.Profile
	buttons map[slotKey]*buttonRuntime
	last    State

	changes chan State
}

func New(poller device.Poller, out device.VirtualOutput, keys device.KeySink) *Pipeline {
	return &Pipeline{
		poller:  poller,
		out:     out,
		keys:    keys,
		buttons: make(map[slotKey]*buttonRuntime),
		changes: make(chan State, 64),
	}
}

// Changes returns the channel carrying state snapshots after ticks that
// changed something.
func (pl *Pipeline) Changes() <-chan State {
	return pl.changes
}

// SetProfile swaps the active profile. Button runtime state is reset so
// toggles and pulses from the old profile cannot leak into the new one.
func (pl *Pipeline) SetProfile(p *profile.Profile) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.prof = p
	pl.buttons = make(map[slotKey]*buttonRuntime)
}

// Snapshot returns the last emitted state.
func (pl *Pipeline) Snapshot() State {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return pl.last
}

// Run ticks the pipeline until the context is cancelled.
func (pl *Pipeline) Run(ctx context.Context, interval time.Duration) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			pl.Tick(now)
		}
	}
}

// Tick runs one transform pass. With no active profile it is a no-op.
func (pl *Pipeline) Tick(now time.Time) {
	pl.mu.Lock()

	if pl.prof == nil {
		pl.mu.Unlock()
		return
	}

	state := State{Profile: pl.prof.Name}
	touched := make(map[uint]bool)

	for _, m := range pl.prof.AxisMappings {
		v := pl.axisValue(m)
		if err := pl.out.SetAxis(m.Output.VJoyDevice, profile.VirtAxis(m.Output.Index), v); err != nil {
			log.Printf("set axis %s: %v", m.Name, err)
		}
		touched[m.Output.VJoyDevice] = true
		state.Axes = append(state.Axes, AxisValue{
			Name: m.Name, VJoyDevice: m.Output.VJoyDevice, Index: m.Output.Index, Value: v,
		})
	}

	for _, m := range pl.prof.ButtonMappings {
		active := pl.buttonValue(m, now)
		bv := ButtonValue{
			Name: m.Name, VJoyDevice: m.Output.VJoyDevice, Index: m.Output.Index, Pressed: active,
		}
		if m.Output.Kind == profile.OutKeyboard {
			bv.Key = m.Output.KeyName
		} else {
			if err := pl.out.SetButton(m.Output.VJoyDevice, m.Output.Index, active); err != nil {
				log.Printf("set button %s: %v", m.Name, err)
			}
			touched[m.Output.VJoyDevice] = true
		}
		state.Buttons = append(state.Buttons, bv)
	}

	for _, m := range pl.prof.HatMappings {
		h := pl.hatValue(m)
		if err := pl.out.SetPov(m.Output.VJoyDevice, m.Output.Index, h); err != nil {
			log.Printf("set pov %s: %v", m.Name, err)
		}
		touched[m.Output.VJoyDevice] = true
		state.Hats = append(state.Hats, HatValue{
			Name: m.Name, VJoyDevice: m.Output.VJoyDevice, Index: m.Output.Index, Angle: int32(h),
		})
	}

	for dev := range touched {
		if err := pl.out.Flush(dev); err != nil {
			log.Printf("flush vJoy %d: %v", dev, err)
		}
	}

	delta := ComputeDelta(pl.last, state)
	changed := !delta.IsEmpty()
	if changed {
		pl.last = state
	}
	pl.mu.Unlock()

	if changed {
		select {
		case pl.changes <- state:
		default:
			// Drop rather than block the tick loop.
		}
	}
}

// axisValue polls every input of the mapping and transforms the one with
// the largest deflection. Inputs are polled raw in [-1,1]; the curve
// works on [0,1], so the value is folded in and out around zero.
func (pl *Pipeline) axisValue(m *profile.AxisMapping) float64 {
	var raw float64
	for _, in := range m.Inputs {
		if in.Kind != profile.InputAxis {
			continue
		}
		v := pl.poller.PollAxis(in.DeviceID, in.Index)
		if abs(v) > abs(raw) {
			raw = v
		}
	}

	v := deadzone.Apply(m.Deadzone, raw)
	x := (v + 1) / 2
	y := curve.Evaluate(m.Curve, x)
	return y*2 - 1
}

func (pl *Pipeline) buttonValue(m *profile.ButtonMapping, now time.Time) bool {
	pressed := false
	for _, in := range m.Inputs {
		if in.Kind == profile.InputButton && pl.poller.PollButton(in.DeviceID, in.Index) {
			pressed = true
			break
		}
	}

	key := slotKey{m.Output.VJoyDevice, m.Output.Index}
	rt := pl.buttons[key]
	if rt == nil {
		rt = &buttonRuntime{}
		pl.buttons[key] = rt
	}
	rose := pressed && !rt.prevPressed
	rt.prevPressed = pressed

	var active bool
	switch m.Mode {
	case profile.ModeToggle:
		if rose {
			rt.toggled = !rt.toggled
		}
		active = rt.toggled
	case profile.ModePulse:
		if rose {
			rt.pulseUntil = now.Add(time.Duration(m.PulseDurationMs) * time.Millisecond)
		}
		active = now.Before(rt.pulseUntil)
	case profile.ModeHoldToActivate:
		if pressed {
			if rt.heldSince.IsZero() {
				rt.heldSince = now
			}
			active = now.Sub(rt.heldSince) >= time.Duration(m.HoldDurationMs)*time.Millisecond
		} else {
			rt.heldSince = time.Time{}
		}
	default:
		active = pressed
	}

	if m.Output.Kind == profile.OutKeyboard && pl.keys != nil && active != rt.active {
		if err := pl.keys.SetKey(m.Output.KeyName, m.Output.Modifiers, active); err != nil {
			log.Printf("set key %s: %v", m.Output.KeyName, err)
		}
	}
	rt.active = active
	return active
}

// hatValue polls the first hat input. Discrete POV slots snap the angle
// to the nearest cardinal direction.
func (pl *Pipeline) hatValue(m *profile.HatMapping) device.HatState {
	h := device.HatCentered
	for _, in := range m.Inputs {
		if in.Kind != profile.InputHat {
			continue
		}
		h = pl.poller.PollHat(in.DeviceID, in.Index)
		break
	}
	if h == device.HatCentered || m.UseContinuous {
		return h
	}
	snapped := ((h + 45) / 90) % 4 * 90
	return snapped
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
