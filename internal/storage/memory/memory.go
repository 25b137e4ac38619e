// Package memory keeps the last saved overlay and exports it as a JSON file.
package memory

import (
	"log/slog"
	"sync"

	"github.com/rsview/rsview/internal/config"
	"github.com/rsview/rsview/pkg/core"
)

// Backend writes each saved run to its own JSON export.
type Backend struct {
	cfg    config.MemoryConfig
	logger *slog.Logger

	mu             sync.RWMutex
	run            *core.Run
	overlay        *core.Overlay
	lastExportPath string
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{cfg: cfg, logger: logger}
}

func (b *Backend) Init() error {
	return nil
}

func (b *Backend) Close() error {
	return nil
}

// SaveRun keeps the run and exports it.
func (b *Backend) SaveRun(run *core.Run, ov *core.Overlay) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.run = run
	b.overlay = ov
	if err := b.exportJSON(); err != nil {
		return err
	}
	b.logger.Info("overlay exported", "path", b.lastExportPath, "markers", ov.Len())
	return nil
}

// ExportedFilePath returns the path of the last export.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// UploadMetadata describes the last export.
func (b *Backend) UploadMetadata() core.UploadMetadata {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.run == nil {
		return core.UploadMetadata{}
	}
	return core.UploadMetadata{
		RunID:     b.run.ID,
		ImageName: baseName(b.run.ImagePath),
		TableName: baseName(b.run.TablePath),
		MaxFrames: b.run.MaxFrames,
		Markers:   b.overlay.Len(),
	}
}
