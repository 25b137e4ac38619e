package influx

import (
	"sync"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/rsview/rsview/internal/display"
	"github.com/rsview/rsview/pkg/core"
)

const (
	measurementProgress = "overlay_progress"
	measurementRun      = "overlay_run"
)

var (
	_ display.Viewer   = (*ProgressViewer)(nil)
	_ display.RunAware = (*ProgressViewer)(nil)
)

// ProgressViewer records every progress report of a run as a point.
type ProgressViewer struct {
	manager *Manager
	now     func() time.Time

	mu      sync.Mutex
	run     *core.Run
	markers int
}

// NewProgressViewer creates a viewer writing through m.
func NewProgressViewer(m *Manager) *ProgressViewer {
	return &ProgressViewer{manager: m, now: time.Now}
}

func (p *ProgressViewer) tags(point *influxdb2_write.Point) *influxdb2_write.Point {
	if p.run == nil {
		return point
	}
	return point.
		AddTag("run_id", p.run.ID).
		AddTag("mode", string(p.run.Mode)).
		AddTag("table", p.run.TablePath)
}

func (p *ProgressViewer) StartRun(run *core.Run) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.run = run
	p.markers = 0
	return nil
}

func (p *ProgressViewer) EndRun(run *core.Run) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	point := influxdb2_write.NewPointWithMeasurement(measurementRun).
		AddField("accepted", run.Accepted).
		AddField("rejected", run.Rejected).
		AddField("max_frames", run.MaxFrames).
		AddField("duration_ms", run.EndTime.Sub(run.StartTime).Milliseconds()).
		AddField("failed", run.Failure != "").
		SetTime(p.now())
	err := p.manager.WritePoint(p.tags(point))
	p.run = nil
	return err
}

func (p *ProgressViewer) SetOverlay(ov *core.Overlay) error {
	p.mu.Lock()
	p.markers = ov.Len()
	p.mu.Unlock()
	return nil
}

func (p *ProgressViewer) Show() error { return nil }

func (p *ProgressViewer) ShowProgress(current, total int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	point := influxdb2_write.NewPointWithMeasurement(measurementProgress).
		AddField("current", current).
		AddField("total", total).
		AddField("markers", p.markers).
		SetTime(p.now())
	return p.manager.WritePoint(p.tags(point))
}

func (p *ProgressViewer) ShowStatus(string) {}
