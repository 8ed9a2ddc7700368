package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/dmolnar/joyremap/internal/curve"
	"github.com/dmolnar/joyremap/internal/deadzone"
	"github.com/dmolnar/joyremap/internal/device"
	"github.com/dmolnar/joyremap/internal/profile"
)

type fakePoller struct {
	mu      sync.Mutex
	axes    map[uint]float64
	buttons map[uint]bool
	hats    map[uint]device.HatState
}

func newFakePoller() *fakePoller {
	return &fakePoller{
		axes:    make(map[uint]float64),
		buttons: make(map[uint]bool),
		hats:    make(map[uint]device.HatState),
	}
}

func (f *fakePoller) Devices() []device.Info { return nil }

func (f *fakePoller) PollAxis(id string, index uint) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.axes[index]
}

func (f *fakePoller) PollButton(id string, index uint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buttons[index]
}

func (f *fakePoller) PollHat(id string, index uint) device.HatState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok := f.hats[index]; ok {
		return h
	}
	return device.HatCentered
}

func (f *fakePoller) setAxis(index uint, v float64) { f.mu.Lock(); f.axes[index] = v; f.mu.Unlock() }

func (f *fakePoller) setButton(index uint, pressed bool) {
	f.mu.Lock()
	f.buttons[index] = pressed
	f.mu.Unlock()
}

func (f *fakePoller) setHat(index uint, h device.HatState) {
	f.mu.Lock()
	f.hats[index] = h
	f.mu.Unlock()
}

func axisProfile(c curve.Curve, dz deadzone.Deadzone) *profile.Profile {
	p := profile.New("test")
	p.AxisMappings = append(p.AxisMappings, &profile.AxisMapping{
		Name:     "Axis",
		Inputs:   []profile.InputSource{{DeviceID: "d", Kind: profile.InputAxis, Index: 0}},
		Output:   profile.OutputTarget{Kind: profile.OutVJoyAxis, VJoyDevice: 0, Index: uint(profile.AxisX)},
		Curve:    c,
		Deadzone: dz,
	})
	return p
}

func buttonProfile(mode profile.ButtonMode) *profile.Profile {
	p := profile.New("test")
	m := &profile.ButtonMapping{
		Name:   "Button",
		Inputs: []profile.InputSource{{DeviceID: "d", Kind: profile.InputButton, Index: 0}},
		Output: profile.OutputTarget{Kind: profile.OutVJoyButton, VJoyDevice: 0, Index: 0},
		Mode:   mode,
	}
	m.ClampDurations()
	p.ButtonMappings = append(p.ButtonMappings, m)
	return p
}

func testOutput() *device.ConsoleOutput {
	return device.NewConsoleOutput([]device.VJoyInfo{{Device: 0, Exists: true}})
}

func TestTickWithoutProfileIsNoop(t *testing.T) {
	out := testOutput()
	pl := New(newFakePoller(), out, nil)
	pl.Tick(time.Now())
	if s := pl.Snapshot(); s.Profile != "" || len(s.Axes) != 0 {
		t.Fatalf("idle tick produced state: %+v", s)
	}
}

func TestLinearAxisPassThrough(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	pl.SetProfile(axisProfile(curve.NewLinear(), deadzone.New()))

	poller.setAxis(0, 0.5)
	pl.Tick(time.Now())

	if got := out.Axis(0, profile.AxisX); got < 0.499 || got > 0.501 {
		t.Fatalf("Axis(X) = %v, want 0.5", got)
	}
}

func TestInvertedCurveFlipsAxis(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	c := curve.NewLinear()
	c.Inverted = true
	pl.SetProfile(axisProfile(c, deadzone.New()))

	poller.setAxis(0, 1)
	pl.Tick(time.Now())

	if got := out.Axis(0, profile.AxisX); got > -0.999 {
		t.Fatalf("Axis(X) = %v, want -1", got)
	}
}

func TestDeadzoneCentersAxis(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	dz := deadzone.Deadzone{Min: -1, Max: 1, CenterMin: -0.2, CenterMax: 0.2, CenterEnabled: true}
	pl.SetProfile(axisProfile(curve.NewLinear(), dz))

	poller.setAxis(0, 0.1)
	pl.Tick(time.Now())

	if got := out.Axis(0, profile.AxisX); got < -0.001 || got > 0.001 {
		t.Fatalf("Axis(X) = %v, want 0 inside the center band", got)
	}
}

func TestLargestDeflectionWinsAcrossInputs(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	p := axisProfile(curve.NewLinear(), deadzone.New())
	p.AxisMappings[0].Inputs = append(p.AxisMappings[0].Inputs,
		profile.InputSource{DeviceID: "d", Kind: profile.InputAxis, Index: 1})
	pl.SetProfile(p)

	poller.setAxis(0, 0.2)
	poller.setAxis(1, -0.8)
	pl.Tick(time.Now())

	if got := out.Axis(0, profile.AxisX); got > -0.799 {
		t.Fatalf("Axis(X) = %v, want the larger deflection -0.8", got)
	}
}

func TestToggleMode(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	pl.SetProfile(buttonProfile(profile.ModeToggle))

	now := time.Now()
	poller.setButton(0, true)
	pl.Tick(now)
	if !out.Button(0, 0) {
		t.Fatal("toggle not activated on press")
	}

	poller.setButton(0, false)
	pl.Tick(now.Add(10 * time.Millisecond))
	if !out.Button(0, 0) {
		t.Fatal("toggle dropped on release")
	}

	poller.setButton(0, true)
	pl.Tick(now.Add(20 * time.Millisecond))
	if out.Button(0, 0) {
		t.Fatal("second press did not toggle off")
	}
}

func TestPulseMode(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	p := buttonProfile(profile.ModePulse)
	p.ButtonMappings[0].PulseDurationMs = 100
	pl.SetProfile(p)

	now := time.Now()
	poller.setButton(0, true)
	pl.Tick(now)
	if !out.Button(0, 0) {
		t.Fatal("pulse not started")
	}

	// Still within the pulse even though the physical button released.
	poller.setButton(0, false)
	pl.Tick(now.Add(50 * time.Millisecond))
	if !out.Button(0, 0) {
		t.Fatal("pulse ended early")
	}

	pl.Tick(now.Add(150 * time.Millisecond))
	if out.Button(0, 0) {
		t.Fatal("pulse still active after its duration")
	}
}

func TestHoldToActivateMode(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	p := buttonProfile(profile.ModeHoldToActivate)
	p.ButtonMappings[0].HoldDurationMs = 200
	pl.SetProfile(p)

	now := time.Now()
	poller.setButton(0, true)
	pl.Tick(now)
	if out.Button(0, 0) {
		t.Fatal("hold activated immediately")
	}

	pl.Tick(now.Add(250 * time.Millisecond))
	if !out.Button(0, 0) {
		t.Fatal("hold not activated after its duration")
	}

	poller.setButton(0, false)
	pl.Tick(now.Add(260 * time.Millisecond))
	if out.Button(0, 0) {
		t.Fatal("hold did not release")
	}

	// A short tap after releasing must start the hold timer over.
	poller.setButton(0, true)
	pl.Tick(now.Add(270 * time.Millisecond))
	if out.Button(0, 0) {
		t.Fatal("hold timer not reset by release")
	}
}

func TestDiscreteHatSnaps(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	p := profile.New("test")
	p.HatMappings = append(p.HatMappings, &profile.HatMapping{
		Name:   "Hat",
		Inputs: []profile.InputSource{{DeviceID: "d", Kind: profile.InputHat, Index: 0}},
		Output: profile.OutputTarget{Kind: profile.OutVJoyPov, VJoyDevice: 0, Index: 0},
	})
	pl.SetProfile(p)

	poller.setHat(0, 135)
	pl.Tick(time.Now())
	if got := out.Pov(0, 0); got != 180 {
		t.Fatalf("Pov = %v, want 135 snapped to 180", got)
	}

	poller.setHat(0, device.HatCentered)
	pl.Tick(time.Now())
	if got := out.Pov(0, 0); got != device.HatCentered {
		t.Fatalf("Pov = %v, want centered", got)
	}
}

func TestContinuousHatPassesThrough(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	p := profile.New("test")
	p.HatMappings = append(p.HatMappings, &profile.HatMapping{
		Name:          "Hat",
		Inputs:        []profile.InputSource{{DeviceID: "d", Kind: profile.InputHat, Index: 0}},
		Output:        profile.OutputTarget{Kind: profile.OutVJoyPov, VJoyDevice: 0, Index: 0},
		UseContinuous: true,
	})
	pl.SetProfile(p)

	poller.setHat(0, 135)
	pl.Tick(time.Now())
	if got := out.Pov(0, 0); got != 135 {
		t.Fatalf("Pov = %v, want 135 unmodified", got)
	}
}

func TestKeyboardOutputSkipsVJoy(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	keys := &recordingKeySink{}
	pl := New(poller, out, keys)

	p := profile.New("test")
	m := &profile.ButtonMapping{
		Name:   "Chat",
		Inputs: []profile.InputSource{{DeviceID: "d", Kind: profile.InputButton, Index: 0}},
		Output: profile.OutputTarget{Kind: profile.OutKeyboard, Index: 7, KeyName: "enter"},
		Mode:   profile.ModeNormal,
	}
	m.ClampDurations()
	p.ButtonMappings = append(p.ButtonMappings, m)
	pl.SetProfile(p)

	poller.setButton(0, true)
	pl.Tick(time.Now())

	if out.Button(0, 7) {
		t.Fatal("keyboard output leaked to the vJoy device")
	}
	if len(keys.events) != 1 || keys.events[0].key != "enter" || !keys.events[0].down {
		t.Fatalf("key events = %+v", keys.events)
	}

	// Holding the button must not repeat the key event.
	pl.Tick(time.Now())
	if len(keys.events) != 1 {
		t.Fatalf("key event repeated: %+v", keys.events)
	}
}

type keyEvent struct {
	key  string
	down bool
}

type recordingKeySink struct {
	events []keyEvent
}

func (r *recordingKeySink) SetKey(key string, modifiers []string, down bool) error {
	r.events = append(r.events, keyEvent{key, down})
	return nil
}

func TestChangesEmitOnDeltaOnly(t *testing.T) {
	poller := newFakePoller()
	out := testOutput()
	pl := New(poller, out, nil)
	pl.SetProfile(axisProfile(curve.NewLinear(), deadzone.New()))

	pl.Tick(time.Now())
	select {
	case s := <-pl.Changes():
		if s.Profile != "test" {
			t.Fatalf("state profile = %q", s.Profile)
		}
	default:
		t.Fatal("first tick did not emit a state")
	}

	// A tick with nothing moving emits nothing.
	pl.Tick(time.Now())
	select {
	case s := <-pl.Changes():
		t.Fatalf("unchanged tick emitted %+v", s)
	default:
	}

	poller.setAxis(0, 0.9)
	pl.Tick(time.Now())
	select {
	case <-pl.Changes():
	default:
		t.Fatal("axis move did not emit a state")
	}
}

func TestComputeDeltaLayoutChange(t *testing.T) {
	old := State{Profile: "p", Axes: []AxisValue{{Name: "a"}}}
	next := State{Profile: "p", Axes: []AxisValue{{Name: "a"}, {Name: "b"}}}
	d := ComputeDelta(old, next)
	if len(d.Axes) != 2 {
		t.Fatalf("layout change should report every slot, got %+v", d)
	}
}
