// Package capture waits for the operator to move an axis or press a
// button, as a cancellable, timeout-bounded task. A capture never touches
// the profile; timeout and cancellation simply yield an empty result.
package capture

import (
	"context"
	"sync"
	"time"

	"github.com/dmolnar/joyremap/internal/device"
	"github.com/dmolnar/joyremap/internal/profile"
)

// Filter selects which control kinds a capture listens for.
type Filter int

const (
	FilterAxes Filter = iota
	FilterButtons
)

// Result is what a capture resolves with. OK is false on timeout or
// cancellation; callers treat that as "no input captured", a no-op.
type Result struct {
	Source    profile.InputSource
	Magnitude float64
	OK        bool
}

// Options tune a listener. Zero values take the defaults.
type Options struct {
	// SettleDelay runs before sampling starts so a button release from a
	// prior action is not picked up.
	SettleDelay  time.Duration
	Timeout      time.Duration
	PollInterval time.Duration
	// Threshold is the axis delta from its settle-time baseline that
	// counts as a deliberate move.
	Threshold float64
}

const (
	defaultSettleDelay  = 200 * time.Millisecond
	defaultTimeout      = 15 * time.Second
	defaultPollInterval = 10 * time.Millisecond
	defaultThreshold    = 0.25
)

func (o Options) withDefaults() Options {
	if o.SettleDelay == 0 {
		o.SettleDelay = defaultSettleDelay
	}
	if o.Timeout == 0 {
		o.Timeout = defaultTimeout
	}
	if o.PollInterval == 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.Threshold == 0 {
		o.Threshold = defaultThreshold
	}
	return o
}

// Listener runs at most one capture at a time for one UI target.
// Starting a new capture cancels the pending one.
type Listener struct {
	poller device.Poller
	opts   Options

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewListener(p device.Poller, opts Options) *Listener {
	return &Listener{poller: p, opts: opts.withDefaults()}
}

// Start begins a capture and returns a channel that delivers exactly one
// Result. Any capture still pending on this listener is cancelled first.
func (l *Listener) Start(ctx context.Context, filter Filter) <-chan Result {
	cctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = cancel
	l.mu.Unlock()

	ch := make(chan Result, 1)
	go l.run(cctx, cancel, filter, ch)
	return ch
}

// Cancel aborts the pending capture, if any.
func (l *Listener) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

type baseline struct {
	info    device.Info
	axes    []float64
	buttons []bool
}

func (l *Listener) run(ctx context.Context, cancel context.CancelFunc, filter Filter, ch chan<- Result) {
	defer cancel()

	settle := time.NewTimer(l.opts.SettleDelay)
	defer settle.Stop()
	select {
	case <-ctx.Done():
		ch <- Result{}
		return
	case <-settle.C:
	}

	baselines := l.snapshot()

	tick := time.NewTicker(l.opts.PollInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			ch <- Result{}
			return
		case <-tick.C:
			if r, ok := l.scan(baselines, filter); ok {
				ch <- r
				return
			}
		}
	}
}

func (l *Listener) snapshot() []baseline {
	infos := l.poller.Devices()
	out := make([]baseline, len(infos))
	for i, info := range infos {
		b := baseline{
			info:    info,
			axes:    make([]float64, info.Axes),
			buttons: make([]bool, info.Buttons),
		}
		for a := 0; a < info.Axes; a++ {
			b.axes[a] = l.poller.PollAxis(info.ID, uint(a))
		}
		for n := 0; n < info.Buttons; n++ {
			b.buttons[n] = l.poller.PollButton(info.ID, uint(n))
		}
		out[i] = b
	}
	return out
}

func (l *Listener) scan(baselines []baseline, filter Filter) (Result, bool) {
	for _, b := range baselines {
		switch filter {
		case FilterAxes:
			for a := 0; a < b.info.Axes; a++ {
				v := l.poller.PollAxis(b.info.ID, uint(a))
				delta := v - b.axes[a]
				if delta < 0 {
					delta = -delta
				}
				if delta >= l.opts.Threshold {
					return Result{
						Source: profile.InputSource{
							DeviceID:   b.info.ID,
							DeviceName: b.info.Name,
							Kind:       profile.InputAxis,
							Index:      uint(a),
						},
						Magnitude: delta,
						OK:        true,
					}, true
				}
			}
		case FilterButtons:
			for n := 0; n < b.info.Buttons; n++ {
				if l.poller.PollButton(b.info.ID, uint(n)) && !b.buttons[n] {
					return Result{
						Source: profile.InputSource{
							DeviceID:   b.info.ID,
							DeviceName: b.info.Name,
							Kind:       profile.InputButton,
							Index:      uint(n),
						},
						Magnitude: 1,
						OK:        true,
					}, true
				}
			}
		}
	}
	return Result{}, false
}
