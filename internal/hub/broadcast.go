package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/dmolnar/joyremap/internal/pipeline"
)

const (
	fullSyncInterval = 5 * time.Second
	deltaCountSync   = 100
)

// Broadcaster listens for pipeline state changes and broadcasts them to
// the hub, as deltas with a periodic full resync. SendInitialState runs
// on websocket handler goroutines, so lastState and seq are shared with
// the Run loop and guarded by the mutex.
type Broadcaster struct {
	hub     *Hub
	changes <-chan pipeline.State

	mu        sync.Mutex
	lastState pipeline.State
	seq       int64
}

func NewBroadcaster(h *Hub, changes <-chan pipeline.State) *Broadcaster {
	return &Broadcaster{
		hub:     h,
		changes: changes,
	}
}

// Run starts the broadcaster loop. Should be run in a goroutine.
func (b *Broadcaster) Run() {
	ticker := time.NewTicker(fullSyncInterval)
	defer ticker.Stop()

	var deltaCount int64

	for {
		select {
		case state, ok := <-b.changes:
			if !ok {
				return
			}

			b.mu.Lock()
			delta := pipeline.ComputeDelta(b.lastState, state)
			b.lastState = state
			b.mu.Unlock()

			if delta.IsEmpty() {
				continue
			}

			deltaCount++

			// Send full sync periodically
			if deltaCount >= deltaCountSync {
				b.sendFull(state)
				deltaCount = 0
			} else {
				b.sendDelta(delta)
			}

		case <-ticker.C:
			b.mu.Lock()
			state := b.lastState
			b.mu.Unlock()
			if state.Profile != "" {
				b.sendFull(state)
			}
		}
	}
}

// nextSeq hands out the next sequence number.
func (b *Broadcaster) nextSeq() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	return b.seq
}

// SendInitialState sends the current full state to a newly connected
// client. Safe to call from any goroutine; it copies the state under the
// lock before marshaling.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	state := b.lastState
	b.mu.Unlock()

	msg := NewFullMessage(b.nextSeq(), &state)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling initial state: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (b *Broadcaster) sendFull(state pipeline.State) {
	msg := NewFullMessage(b.nextSeq(), &state)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling full message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}

func (b *Broadcaster) sendDelta(delta *pipeline.Delta) {
	msg := NewDeltaMessage(b.nextSeq(), delta)
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling delta message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
