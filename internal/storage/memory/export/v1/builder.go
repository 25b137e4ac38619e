package v1

import (
	"time"

	"github.com/rsview/rsview/pkg/core"
)

// Build creates an Export from a finished run. Frames are ascending; markers
// within a frame keep insertion order.
func Build(run *core.Run, ov *core.Overlay) Export {
	export := Export{
		FormatVersion: FormatVersion,
		RunID:         run.ID,
		Mode:          string(run.Mode),
		Image:         run.ImagePath,
		Table:         run.TablePath,
		MaxFrames:     run.MaxFrames,
		Settings:      run.Settings,
		StartTime:     formatTime(run.StartTime),
		EndTime:       formatTime(run.EndTime),
		Accepted:      run.Accepted,
		Rejected:      run.Rejected,
		MarkerCount:   ov.Len(),
		Frames:        make([]Frame, 0),
	}

	for _, n := range ov.Frames() {
		markers := ov.Frame(n)
		frame := Frame{Frame: n, Markers: make([][]any, 0, len(markers))}
		for _, m := range markers {
			frame.Markers = append(frame.Markers, []any{
				m.Position.X, // [0] x
				m.Position.Y, // [1] y
				m.Label,      // [2] label
			})
		}
		export.Frames = append(export.Frames, frame)
	}
	return export
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
