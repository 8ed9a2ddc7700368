package capture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmolnar/joyremap/internal/device"
	"github.com/dmolnar/joyremap/internal/profile"
)

// fakePoller is a hand-driven device source for capture tests.
type fakePoller struct {
	mu      sync.Mutex
	info    device.Info
	axes    []float64
	buttons []bool
}

func newFakePoller(axes, buttons int) *fakePoller {
	return &fakePoller{
		info:    device.Info{ID: "fake", Name: "Fake Stick", Axes: axes, Buttons: buttons},
		axes:    make([]float64, axes),
		buttons: make([]bool, buttons),
	}
}

func (f *fakePoller) Devices() []device.Info {
	return []device.Info{f.info}
}

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
	return device.HatCentered
}

func (f *fakePoller) setAxis(index int, v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.axes[index] = v
}

func (f *fakePoller) setButton(index int, pressed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buttons[index] = pressed
}

func fastOptions() Options {
	return Options{
		SettleDelay:  10 * time.Millisecond,
		Timeout:      500 * time.Millisecond,
		PollInterval: 2 * time.Millisecond,
		Threshold:    0.25,
	}
}

func TestCaptureAxis(t *testing.T) {
	p := newFakePoller(2, 0)
	p.setAxis(1, 0.1) // resting offset, becomes the baseline
	l := NewListener(p, fastOptions())

	ch := l.Start(context.Background(), FilterAxes)
	time.Sleep(30 * time.Millisecond) // past the settle window
	p.setAxis(1, 0.8)

	r := <-ch
	if !r.OK {
		t.Fatal("capture yielded no result")
	}
	if r.Source.Kind != profile.InputAxis || r.Source.Index != 1 || r.Source.DeviceID != "fake" {
		t.Fatalf("captured %+v", r.Source)
	}
}

func TestCaptureIgnoresSubThresholdDrift(t *testing.T) {
	p := newFakePoller(1, 1)
	l := NewListener(p, fastOptions())

	ch := l.Start(context.Background(), FilterAxes)
	time.Sleep(30 * time.Millisecond)
	p.setAxis(0, 0.2) // under the 0.25 threshold

	r := <-ch
	if r.OK {
		t.Fatalf("drift captured as input: %+v", r)
	}
}

func TestCaptureButtonNeedsFreshPress(t *testing.T) {
	p := newFakePoller(0, 3)
	p.setButton(2, true) // held before the capture started
	l := NewListener(p, fastOptions())

	ch := l.Start(context.Background(), FilterButtons)
	time.Sleep(30 * time.Millisecond)
	p.setButton(0, true)

	r := <-ch
	if !r.OK || r.Source.Index != 0 {
		t.Fatalf("captured %+v, want fresh press of button 0", r)
	}
}

func TestCaptureTimeout(t *testing.T) {
	p := newFakePoller(1, 1)
	opts := fastOptions()
	opts.Timeout = 50 * time.Millisecond
	l := NewListener(p, opts)

	start := time.Now()
	r := <-l.Start(context.Background(), FilterButtons)
	if r.OK {
		t.Fatalf("timeout returned a result: %+v", r)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout took %v", elapsed)
	}
}

func TestCancelAbortsCapture(t *testing.T) {
	p := newFakePoller(1, 1)
	l := NewListener(p, fastOptions())

	ch := l.Start(context.Background(), FilterButtons)
	l.Cancel()

	r := <-ch
	if r.OK {
		t.Fatalf("cancelled capture returned a result: %+v", r)
	}
}

func TestSecondStartCancelsFirst(t *testing.T) {
	p := newFakePoller(0, 1)
	l := NewListener(p, fastOptions())

	first := l.Start(context.Background(), FilterButtons)
	second := l.Start(context.Background(), FilterButtons)

	if r := <-first; r.OK {
		t.Fatalf("superseded capture returned a result: %+v", r)
	}

	time.Sleep(30 * time.Millisecond)
	p.setButton(0, true)
	if r := <-second; !r.OK {
		t.Fatal("replacement capture did not resolve")
	}
}
