// Package streaming defines the messages exchanged with a live-view server.
package streaming

import (
	"encoding/json"

	"github.com/rsview/rsview/pkg/core"
)

// Message types of the live-view protocol.
const (
	TypeStartRun = "start_run"
	TypeMarkers  = "markers"
	TypeShow     = "show"
	TypeProgress = "progress"
	TypeStatus   = "status"
	TypeEndRun   = "end_run"
	TypeAck      = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartRunPayload announces a new overlay. Any overlay the server holds for the
// same image is discarded.
type StartRunPayload struct {
	RunID     string        `json:"runId"`
	Mode      core.RunMode  `json:"mode"`
	Image     string        `json:"image"`
	Table     string        `json:"table"`
	MaxFrames int           `json:"maxFrames"`
	Settings  core.Settings `json:"settings"`
}

// MarkersPayload carries markers appended since the previous batch. Offset is the
// index of the first marker in the run's overlay.
type MarkersPayload struct {
	RunID   string        `json:"runId"`
	Offset  int           `json:"offset"`
	Markers []core.Marker `json:"markers"`
}

// ShowPayload asks the server to redraw with the first Markers markers.
type ShowPayload struct {
	RunID   string `json:"runId"`
	Markers int    `json:"markers"`
}

type ProgressPayload struct {
	RunID   string `json:"runId"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

type StatusPayload struct {
	RunID   string `json:"runId,omitempty"`
	Message string `json:"message"`
}

type EndRunPayload struct {
	RunID    string `json:"runId"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
	Markers  int    `json:"markers"`
	Failure  string `json:"failure,omitempty"`
}
