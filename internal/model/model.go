// Package model holds the GORM models of persisted overlays.
package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// DatabaseModels lists every table, in migration order.
var DatabaseModels = []any{
	&Run{},
	&Marker{},
}

// Run is one completed overlay build.
type Run struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	UID       string         `json:"uid" gorm:"column:uid;size:36;uniqueIndex:idx_run_uid"`
	Mode      string         `json:"mode" gorm:"size:16"`
	ImagePath string         `json:"imagePath" gorm:"size:512"`
	TablePath string         `json:"tablePath" gorm:"size:512;index:idx_run_table_path"`
	Settings  datatypes.JSON `json:"settings"`
	MaxFrames int            `json:"maxFrames"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Accepted  int            `json:"accepted"`
	Rejected  int            `json:"rejected"`
}

func (*Run) TableName() string {
	return "runs"
}

// Marker is one overlay marker of a run.
type Marker struct {
	ID      uint            `json:"id" gorm:"primarykey;autoIncrement;"`
	RunID   uint            `json:"runId" gorm:"index:idx_marker_run_id"`
	Run     Run             `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	Seq     int             `json:"seq"`                                 // position in the overlay
	Frame   int             `json:"frame" gorm:"index:idx_marker_frame"` // 1-based display frame
	Corner  geom.Point      `json:"corner"`                              // top-left, pixels
	Outline geom.LineString `json:"outline"`                             // closed ring covered by the marker
	Size    float64         `json:"size"`
	Form    string          `json:"form" gorm:"size:8"`
	Label   string          `json:"label" gorm:"size:32"`
}

func (*Marker) TableName() string {
	return "markers"
}
