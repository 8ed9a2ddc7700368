package device

import (
	"context"
	"fmt"
	"log"
	"math"
	"runtime"
	"sync"

	"github.com/jupiterrider/purego-sdl3/sdl"
)

const pollDelayNS = 16_000_000 // ~60Hz

const (
	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

type sdlJoystick struct {
	joystick *sdl.Joystick
	id       sdl.JoystickID
	info     Info

	axes    []float64
	buttons []bool
	hats    []HatState
}

// SDLPoller reads physical joysticks through the SDL3 Joystick API and
// caches their state for the Poller interface. The SDL loop owns the
// cache writes; Poll* calls take the read lock.
type SDLPoller struct {
	mu        sync.RWMutex
	joysticks map[sdl.JoystickID]*sdlJoystick
	byID      map[string]*sdlJoystick
}

func NewSDLPoller() *SDLPoller {
	return &SDLPoller{
		joysticks: make(map[sdl.JoystickID]*sdlJoystick),
		byID:      make(map[string]*sdlJoystick),
	}
}

// Run initializes SDL and runs the event+polling loop on the current
// thread until the context is cancelled. Must be called from a goroutine
// with LockOSThread semantics, which it applies itself.
func (p *SDLPoller) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("sdl init: %s", sdl.GetError())
	}
	defer sdl.Quit()

	log.Println("SDL3 Joystick subsystem initialized")

	for _, id := range sdl.GetJoysticks() {
		p.openJoystick(id)
	}

	for {
		select {
		case <-ctx.Done():
			p.closeAll()
			return nil
		default:
		}

		p.processEvents()
		p.pollAll()
		sdl.DelayNS(pollDelayNS)
	}
}

func (p *SDLPoller) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			p.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			p.removeJoystick(event.JDevice().Which)
		}
	}
}

func (p *SDLPoller) openJoystick(instanceID sdl.JoystickID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		log.Printf("Failed to open joystick %d: %s", instanceID, sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	numAxes := int(sdl.GetNumJoystickAxes(js))
	numButtons := int(sdl.GetNumJoystickButtons(js))
	numHats := int(sdl.GetNumJoystickHats(js))

	// SDL's joystick API reports no per-axis usage info, so every axis
	// type is unknown and auto-mapping falls back to positional order.
	types := make([]AxisType, numAxes)

	j := &sdlJoystick{
		joystick: js,
		id:       jsID,
		info: Info{
			ID:        fmt.Sprintf("%04x:%04x/%d", vendorID, productID, jsID),
			Name:      name,
			Axes:      numAxes,
			AxisTypes: types,
			Buttons:   numButtons,
			Hats:      numHats,
		},
		axes:    make([]float64, numAxes),
		buttons: make([]bool, numButtons),
		hats:    make([]HatState, numHats),
	}
	for i := range j.hats {
		j.hats[i] = HatCentered
	}

	p.joysticks[jsID] = j
	p.byID[j.info.ID] = j

	log.Printf("Joystick connected: %s (VID=%04X PID=%04X) axes=%d buttons=%d hats=%d",
		name, vendorID, productID, numAxes, numButtons, numHats)
}

func (p *SDLPoller) removeJoystick(instanceID sdl.JoystickID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	j, exists := p.joysticks[instanceID]
	if !exists {
		return
	}
	log.Printf("Joystick disconnected: %s", j.info.Name)
	sdl.CloseJoystick(j.joystick)
	delete(p.joysticks, instanceID)
	delete(p.byID, j.info.ID)
}

func (p *SDLPoller) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, j := range p.joysticks {
		sdl.CloseJoystick(j.joystick)
		delete(p.joysticks, id)
		delete(p.byID, j.info.ID)
	}
}

func (p *SDLPoller) pollAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, j := range p.joysticks {
		if !sdl.JoystickConnected(j.joystick) {
			continue
		}
		for i := range j.axes {
			j.axes[i] = normalizeAxis(sdl.GetJoystickAxis(j.joystick, int32(i)))
		}
		for i := range j.buttons {
			j.buttons[i] = sdl.GetJoystickButton(j.joystick, int32(i))
		}
		for i := range j.hats {
			j.hats[i] = hatFromMask(sdl.GetJoystickHat(j.joystick, int32(i)))
		}
	}
}

// Devices returns the connected devices.
func (p *SDLPoller) Devices() []Info {
	p.mu.RLock()
	defer p.mu.RUnlock()
	infos := make([]Info, 0, len(p.joysticks))
	for _, j := range p.joysticks {
		infos = append(infos, j.info)
	}
	return infos
}

func (p *SDLPoller) PollAxis(deviceID string, index uint) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if j, ok := p.byID[deviceID]; ok && int(index) < len(j.axes) {
		return j.axes[index]
	}
	return 0
}

func (p *SDLPoller) PollButton(deviceID string, index uint) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if j, ok := p.byID[deviceID]; ok && int(index) < len(j.buttons) {
		return j.buttons[index]
	}
	return false
}

func (p *SDLPoller) PollHat(deviceID string, index uint) HatState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if j, ok := p.byID[deviceID]; ok && int(index) < len(j.hats) {
		return j.hats[index]
	}
	return HatCentered
}

func normalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1 {
		v = -1
	}
	return v
}

func hatFromMask(mask uint8) HatState {
	switch mask {
	case hatUp:
		return 0
	case hatUp | hatRight:
		return 45
	case hatRight:
		return 90
	case hatDown | hatRight:
		return 135
	case hatDown:
		return 180
	case hatDown | hatLeft:
		return 225
	case hatLeft:
		return 270
	case hatUp | hatLeft:
		return 315
	}
	return HatCentered
}
