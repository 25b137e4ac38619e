package display

import (
	"fmt"

	"github.com/rsview/rsview/internal/overlay"
	"github.com/rsview/rsview/pkg/core"
)

var _ overlay.Observer = (*Driver)(nil)

// Driver pushes overlay snapshots to a viewer. It is the overlay builder's
// observer for one run.
type Driver struct {
	viewer Viewer
}

// NewDriver creates a driver publishing to v.
func NewDriver(v Viewer) (*Driver, error) {
	if v == nil {
		return nil, errNilViewer
	}
	return &Driver{viewer: v}, nil
}

// FrameChanged shows the overlay and reports progress at the frame that was left.
func (d *Driver) FrameChanged(ov *core.Overlay, previous, maxFrames int) error {
	return d.publish(ov, previous, maxFrames)
}

// Finished shows the complete overlay and reports 100 %.
func (d *Driver) Finished(ov *core.Overlay, maxFrames int) error {
	return d.publish(ov, maxFrames, maxFrames)
}

func (d *Driver) publish(ov *core.Overlay, current, total int) error {
	if err := d.viewer.SetOverlay(ov); err != nil {
		return fmt.Errorf("setting overlay: %w", err)
	}
	if err := d.viewer.Show(); err != nil {
		return fmt.Errorf("showing image: %w", err)
	}
	if err := d.viewer.ShowProgress(current, total); err != nil {
		return fmt.Errorf("showing progress: %w", err)
	}
	return nil
}
