package device

import (
	"log"
	"sync"

	"github.com/dmolnar/joyremap/internal/profile"
)

// ConsoleOutput is a VirtualOutput that logs button edges and keeps the
// latest values in memory. It stands in for the vJoy driver during
// development and in tests.
type ConsoleOutput struct {
	mu      sync.Mutex
	infos   []VJoyInfo
	axes    map[outKey]float64
	buttons map[outKey]bool
	povs    map[outKey]HatState
}

type outKey struct {
	dev   uint
	index uint
}

func NewConsoleOutput(infos []VJoyInfo) *ConsoleOutput {
	return &ConsoleOutput{
		infos:   infos,
		axes:    make(map[outKey]float64),
		buttons: make(map[outKey]bool),
		povs:    make(map[outKey]HatState),
	}
}

func (c *ConsoleOutput) Devices() []VJoyInfo {
	return c.infos
}

func (c *ConsoleOutput) SetAxis(device uint, axis profile.VirtAxis, v float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.axes[outKey{device, uint(axis)}] = v
	return nil
}

func (c *ConsoleOutput) SetButton(device uint, index uint, pressed bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := outKey{device, index}
	if c.buttons[k] != pressed {
		state := "pressed"
		if !pressed {
			state = "released"
		}
		log.Printf("[vJoy %d] button %d %s", device, index+1, state)
	}
	c.buttons[k] = pressed
	return nil
}

func (c *ConsoleOutput) SetPov(device uint, index uint, h HatState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.povs[outKey{device, index}] = h
	return nil
}

func (c *ConsoleOutput) Flush(device uint) error {
	return nil
}

// Axis returns the last value written to an axis slot.
func (c *ConsoleOutput) Axis(device uint, axis profile.VirtAxis) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axes[outKey{device, uint(axis)}]
}

// Button returns the last value written to a button slot.
func (c *ConsoleOutput) Button(device uint, index uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buttons[outKey{device, index}]
}

// Pov returns the last value written to a POV slot.
func (c *ConsoleOutput) Pov(device uint, index uint) HatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.povs[outKey{device, index}]; ok {
		return h
	}
	return HatCentered
}
