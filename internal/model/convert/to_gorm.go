// Package convert maps between core overlay types and GORM models.
package convert

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/rsview/rsview/internal/geo"
	"github.com/rsview/rsview/internal/model"
	"github.com/rsview/rsview/pkg/core"
)

// CoreToRun converts a core.Run to a GORM model.Run. Settings are stored as JSON.
func CoreToRun(r *core.Run) (model.Run, error) {
	settings, err := json.Marshal(r.Settings)
	if err != nil {
		return model.Run{}, fmt.Errorf("marshal settings: %w", err)
	}
	return model.Run{
		UID:       r.ID,
		Mode:      string(r.Mode),
		ImagePath: r.ImagePath,
		TablePath: r.TablePath,
		Settings:  datatypes.JSON(settings),
		MaxFrames: r.MaxFrames,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Accepted:  r.Accepted,
		Rejected:  r.Rejected,
	}, nil
}

// CoreToMarker converts the seq-th marker of a run. runID is the database ID of
// the parent model.Run.
func CoreToMarker(m core.Marker, runID uint, seq int) model.Marker {
	return model.Marker{
		RunID:   runID,
		Seq:     seq,
		Frame:   m.Frame,
		Corner:  geo.PointFromPosition(m.Position),
		Outline: geo.Outline(m),
		Size:    m.Size,
		Form:    m.Form.String(),
		Label:   m.Label,
	}
}
