package storage

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/rsview/rsview/internal/config"
	"github.com/rsview/rsview/internal/database"
	gormstorage "github.com/rsview/rsview/internal/storage/gorm"
	"github.com/rsview/rsview/internal/storage/memory"
)

// Options carries everything NewBackend may need.
type Options struct {
	Storage  config.StorageConfig
	Database database.Config
	Logger   *slog.Logger
	DBLogger zerolog.Logger
}

// NewBackend creates the configured storage backend. It returns nil when
// storage is disabled.
func NewBackend(opts Options) (Backend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Storage.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return memory.New(opts.Storage.Memory, logger), nil
	case database.DriverSQLite, database.DriverPostgres:
		dbCfg := opts.Database
		dbCfg.Driver = opts.Storage.Type
		if opts.Storage.Type == database.DriverSQLite {
			dbCfg.SQLitePath = ""
		}
		return gormstorage.New(gormstorage.Dependencies{
			Manager:  database.NewManager(opts.DBLogger, dbCfg),
			Logger:   logger,
			DumpPath: opts.Storage.SQLite.DumpPath,
		}), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", opts.Storage.Type)
	}
}
