// Package gormstorage persists overlays through GORM, to Postgres or to an
// in-memory SQLite database that is dumped to disk.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/rsview/rsview/internal/database"
	"github.com/rsview/rsview/internal/model"
	"github.com/rsview/rsview/internal/model/convert"
	"github.com/rsview/rsview/pkg/core"
)

// ErrNotInitialized is returned when the backend is used before Init.
var ErrNotInitialized = errors.New("gorm backend not initialized")

const markerBatchSize = 1000

// Dependencies holds what the backend needs.
type Dependencies struct {
	Manager *database.Manager
	Logger  *slog.Logger
	// DumpPath, when set, receives a VACUUM INTO copy of an in-memory SQLite
	// database after every saved run and on Close.
	DumpPath string
}

// Backend stores runs and markers.
type Backend struct {
	deps Dependencies
	db   *gorm.DB
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Backend{deps: deps}
}

// Init connects and migrates the schema.
func (b *Backend) Init() error {
	if err := b.deps.Manager.Connect(); err != nil {
		return err
	}
	if err := b.deps.Manager.Setup(); err != nil {
		return err
	}
	b.db = b.deps.Manager.DB
	return nil
}

// Close dumps an in-memory database if configured and closes the connection.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	var dumpErr error
	if b.shouldDump() {
		dumpErr = b.deps.Manager.DumpMemoryToDisk(b.deps.DumpPath)
	}
	b.db = nil
	return errors.Join(dumpErr, b.deps.Manager.Close())
}

func (b *Backend) shouldDump() bool {
	return b.deps.DumpPath != "" && b.deps.Manager.ShouldSaveLocal && b.deps.Manager.Config.SQLitePath == ""
}

// SaveRun writes the run and all its markers in one transaction. Saving the same
// run ID again replaces the stored overlay.
func (b *Backend) SaveRun(run *core.Run, ov *core.Overlay) error {
	if b.db == nil {
		return ErrNotInitialized
	}

	row, err := convert.CoreToRun(run)
	if err != nil {
		return err
	}

	err = b.db.Transaction(func(tx *gorm.DB) error {
		var previous model.Run
		err := tx.Where("uid = ?", run.ID).Limit(1).Find(&previous).Error
		if err != nil {
			return fmt.Errorf("looking up run: %w", err)
		}
		if previous.ID != 0 {
			if err := tx.Where("run_id = ?", previous.ID).Delete(&model.Marker{}).Error; err != nil {
				return fmt.Errorf("replacing markers: %w", err)
			}
			if err := tx.Delete(&previous).Error; err != nil {
				return fmt.Errorf("replacing run: %w", err)
			}
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}

		markers := ov.Markers()
		if len(markers) == 0 {
			return nil
		}
		rows := make([]model.Marker, len(markers))
		for i, m := range markers {
			rows[i] = convert.CoreToMarker(m, row.ID, i)
		}
		if err := tx.CreateInBatches(rows, markerBatchSize).Error; err != nil {
			return fmt.Errorf("inserting markers: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	b.deps.Logger.Info("overlay saved",
		"runId", run.ID,
		"dialect", b.db.Dialector.Name(),
		"markers", ov.Len(),
	)

	if b.shouldDump() {
		if err := b.deps.Manager.DumpMemoryToDisk(b.deps.DumpPath); err != nil {
			b.deps.Logger.Warn("dumping database failed", "error", err)
		}
	}
	return nil
}

// LoadRun reads a stored run and rebuilds its overlay.
func (b *Backend) LoadRun(runID string) (*core.Run, *core.Overlay, error) {
	if b.db == nil {
		return nil, nil, ErrNotInitialized
	}

	var row model.Run
	if err := b.db.Where("uid = ?", runID).First(&row).Error; err != nil {
		return nil, nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	run, err := convert.RunToCore(row)
	if err != nil {
		return nil, nil, err
	}

	var markers []model.Marker
	if err := b.db.Where("run_id = ?", row.ID).Order("seq").Find(&markers).Error; err != nil {
		return nil, nil, fmt.Errorf("loading markers of run %s: %w", runID, err)
	}

	ov := core.NewOverlay()
	for _, m := range markers {
		ov.Add(convert.MarkerToCore(m))
	}
	return &run, ov, nil
}
