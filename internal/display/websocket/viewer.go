// Package websocket streams overlay updates to a live-view server.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rsview/rsview/internal/display"
	"github.com/rsview/rsview/pkg/core"
	"github.com/rsview/rsview/pkg/streaming"
)

var (
	_ display.Viewer   = (*Viewer)(nil)
	_ display.RunAware = (*Viewer)(nil)
)

// Config holds the live-view connection settings.
type Config struct {
	URL        string
	Token      string
	AckTimeout time.Duration
}

// Viewer publishes overlay snapshots to a live-view server. Markers are sent
// incrementally: each SetOverlay transmits only what was appended since the last
// call.
type Viewer struct {
	conn *connection
	cfg  Config

	mu      sync.Mutex
	runID   string
	overlay *core.Overlay
	sent    int
}

// New creates a viewer. Init must be called before use.
func New(cfg Config, logger *slog.Logger) *Viewer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = 10 * time.Second
	}
	return &Viewer{
		conn: newConnection(logger.With("component", "liveview")),
		cfg:  cfg,
	}
}

// Init connects to the server.
func (v *Viewer) Init() error {
	return v.conn.dial(v.cfg.URL, v.cfg.Token)
}

// Close disconnects from the server.
func (v *Viewer) Close() error {
	return v.conn.close()
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(streaming.Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

func (v *Viewer) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	v.conn.send(data)
	return nil
}

// StartRun announces the run and waits for the server ack.
func (v *Viewer) StartRun(run *core.Run) error {
	data, err := marshalEnvelope(streaming.TypeStartRun, streaming.StartRunPayload{
		RunID:     run.ID,
		Mode:      run.Mode,
		Image:     run.ImagePath,
		Table:     run.TablePath,
		MaxFrames: run.MaxFrames,
		Settings:  run.Settings,
	})
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.runID = run.ID
	v.overlay = nil
	v.sent = 0
	v.mu.Unlock()

	v.conn.setStart(data)
	return v.conn.sendAndWait(data, streaming.TypeStartRun, v.cfg.AckTimeout)
}

// EndRun closes the run and waits for the server ack.
func (v *Viewer) EndRun(run *core.Run) error {
	v.mu.Lock()
	sent := v.sent
	v.mu.Unlock()

	data, err := marshalEnvelope(streaming.TypeEndRun, streaming.EndRunPayload{
		RunID:    run.ID,
		Accepted: run.Accepted,
		Rejected: run.Rejected,
		Markers:  sent,
		Failure:  run.Failure,
	})
	if err != nil {
		return err
	}
	err = v.conn.sendAndWait(data, streaming.TypeEndRun, v.cfg.AckTimeout)

	v.conn.setStart(nil)
	return err
}

// SetOverlay sends the markers appended since the previous call. A different
// overlay, or one that was cleared, is resent from the start.
func (v *Viewer) SetOverlay(ov *core.Overlay) error {
	v.mu.Lock()
	if ov != v.overlay || ov.Len() < v.sent {
		v.overlay = ov
		v.sent = 0
	}
	offset := v.sent
	markers := ov.Since(offset)
	v.sent = ov.Len()
	runID := v.runID
	v.mu.Unlock()

	if len(markers) == 0 {
		return nil
	}
	return v.sendEnvelope(streaming.TypeMarkers, streaming.MarkersPayload{
		RunID:   runID,
		Offset:  offset,
		Markers: markers,
	})
}

func (v *Viewer) Show() error {
	v.mu.Lock()
	p := streaming.ShowPayload{RunID: v.runID, Markers: v.sent}
	v.mu.Unlock()
	return v.sendEnvelope(streaming.TypeShow, p)
}

func (v *Viewer) ShowProgress(current, total int) error {
	v.mu.Lock()
	runID := v.runID
	v.mu.Unlock()
	return v.sendEnvelope(streaming.TypeProgress, streaming.ProgressPayload{
		RunID:   runID,
		Current: current,
		Total:   total,
	})
}

// ShowStatus sends a status line without waiting.
func (v *Viewer) ShowStatus(msg string) {
	v.mu.Lock()
	runID := v.runID
	v.mu.Unlock()
	_ = v.sendEnvelope(streaming.TypeStatus, streaming.StatusPayload{RunID: runID, Message: msg})
}
