package hub

import (
	"time"

	"github.com/dmolnar/joyremap/internal/pipeline"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type      string          `json:"type"`      // "full" or "delta"
	Seq       int64           `json:"seq"`       // Sequence number for ordering
	Timestamp int64           `json:"timestamp"` // Unix timestamp in milliseconds
	Data      *pipeline.State `json:"data,omitempty"`
	Changes   *pipeline.Delta `json:"changes,omitempty"`
}

// NewFullMessage creates a "full" type message with a complete pipeline
// snapshot.
func NewFullMessage(seq int64, state *pipeline.State) *WSMessage {
	return &WSMessage{
		Type:      "full",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Data:      state,
	}
}

// NewDeltaMessage creates a "delta" type message containing only the
// slots that changed.
func NewDeltaMessage(seq int64, changes *pipeline.Delta) *WSMessage {
	return &WSMessage{
		Type:      "delta",
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Changes:   changes,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type string `json:"type"` // "refresh" requests a full snapshot
}
