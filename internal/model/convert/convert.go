package convert

import (
	"encoding/json"
	"fmt"

	"github.com/rsview/rsview/internal/geo"
	"github.com/rsview/rsview/internal/model"
	"github.com/rsview/rsview/pkg/core"
)

// RunToCore converts a GORM model.Run back to a core.Run.
func RunToCore(r model.Run) (core.Run, error) {
	var settings core.Settings
	if len(r.Settings) > 0 {
		if err := json.Unmarshal(r.Settings, &settings); err != nil {
			return core.Run{}, fmt.Errorf("unmarshal settings of run %s: %w", r.UID, err)
		}
	}
	return core.Run{
		ID:        r.UID,
		Mode:      core.RunMode(r.Mode),
		ImagePath: r.ImagePath,
		TablePath: r.TablePath,
		Settings:  settings,
		MaxFrames: r.MaxFrames,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Accepted:  r.Accepted,
		Rejected:  r.Rejected,
	}, nil
}

// MarkerToCore converts a GORM model.Marker to a core.Marker. An unknown form
// reads back as a square.
func MarkerToCore(m model.Marker) core.Marker {
	form, _ := core.ParseForm(m.Form)
	return core.Marker{
		Position:    geo.PositionFromPoint(m.Corner),
		Size:        m.Size,
		Form:        form,
		Frame:       m.Frame,
		Label:       m.Label,
		NonScalable: true,
	}
}
