// Package storage persists finished overlays.
package storage

import "github.com/rsview/rsview/pkg/core"

// Backend is the interface all storage implementations must satisfy.
type Backend interface {
	Init() error
	Close() error

	// SaveRun stores a completed run and its overlay.
	SaveRun(run *core.Run, ov *core.Overlay) error
}

// Uploadable is an optional interface for backends that produce files
// suitable for upload to a review server.
type Uploadable interface {
	ExportedFilePath() string
	UploadMetadata() core.UploadMetadata
}
