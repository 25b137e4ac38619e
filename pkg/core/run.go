// pkg/core/run.go
package core

import "time"

// RunMode distinguishes a fresh load from a refresh of the table only.
type RunMode string

const (
	RunModeFresh   RunMode = "fresh"
	RunModeRefresh RunMode = "refresh"
)

// Run describes one invocation of the overlay pipeline.
type Run struct {
	ID        string
	Mode      RunMode
	ImagePath string
	TablePath string
	Settings  Settings
	MaxFrames int
	StartTime time.Time
	EndTime   time.Time
	Accepted  int
	Rejected  int
	// Failure is set when the run was aborted; the overlay is then incomplete.
	Failure string
}

// UploadMetadata holds the fields sent alongside an exported overlay file.
type UploadMetadata struct {
	RunID     string
	ImageName string
	TableName string
	MaxFrames int
	Markers   int
}
