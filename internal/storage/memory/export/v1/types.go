// Package v1 contains the v1 export format for overlays.
package v1

import "github.com/rsview/rsview/pkg/core"

// FormatVersion is written into every export.
const FormatVersion = 1

// Export is the root JSON structure for v1 format.
type Export struct {
	FormatVersion int           `json:"formatVersion"`
	RunID         string        `json:"runId"`
	Mode          string        `json:"mode"`
	Image         string        `json:"image"`
	Table         string        `json:"table"`
	MaxFrames     int           `json:"maxFrames"`
	Settings      core.Settings `json:"settings"`
	StartTime     string        `json:"startTime"`
	EndTime       string        `json:"endTime"`
	Accepted      int           `json:"accepted"`
	Rejected      int           `json:"rejected"`
	MarkerCount   int           `json:"markerCount"`
	Frames        []Frame       `json:"frames"`
}

// Frame holds the markers of one display frame.
type Frame struct {
	Frame int `json:"frame"`
	// Format: [x, y, label], x/y the marker's top-left corner in pixels.
	// Size and form are run-wide and live in Settings.
	Markers [][]any `json:"markers"`
}
