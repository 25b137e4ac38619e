package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rsview/rsview/internal/config"
	"github.com/rsview/rsview/internal/database"
	"github.com/rsview/rsview/internal/logging"
	gormstorage "github.com/rsview/rsview/internal/storage/gorm"
)

// showRun prints a run stored by the sqlite or postgres backend.
func showRun(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("show-run", pflag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory containing "+config.FileName)
	dbPath := fs.String("db", "", "SQLite file (defaults to storage.sqlite.dumpPath)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("show-run: expected exactly one run id")
	}
	runID := fs.Arg(0)

	cfgErr := config.Load(*configDir)
	closeLogging, err := setupLogging(nil)
	if err != nil {
		return err
	}
	defer closeLogging()
	if cfgErr != nil {
		Logger.Warn("Using default configuration", "error", cfgErr)
	}

	storageCfg, err := config.GetStorageConfig()
	if err != nil {
		return err
	}
	dbCfg := config.GetDatabaseConfig()
	switch {
	case *dbPath == "" && storageCfg.Type == database.DriverPostgres:
		dbCfg.Driver = database.DriverPostgres
	default:
		path := *dbPath
		if path == "" {
			path = storageCfg.SQLite.DumpPath
		}
		if path == "" {
			return errors.New("show-run: no database, set --db or storage.sqlite.dumpPath")
		}
		dbCfg.Driver = database.DriverSQLite
		dbCfg.SQLitePath = path
	}

	backend := gormstorage.New(gormstorage.Dependencies{
		Manager: database.NewManager(logging.NewZerolog(logOut, viper.GetString("logLevel"), "database"), dbCfg),
		Logger:  Logger,
	})
	if err := backend.Init(); err != nil {
		return err
	}
	defer backend.Close()

	run, ov, err := backend.LoadRun(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%s)\n", run.ID, run.Mode)
	fmt.Fprintf(w, "  image:    %s\n", run.ImagePath)
	fmt.Fprintf(w, "  table:    %s\n", run.TablePath)
	fmt.Fprintf(w, "  started:  %s\n", run.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  accepted: %d\n", run.Accepted)
	fmt.Fprintf(w, "  rejected: %d\n", run.Rejected)
	fmt.Fprintf(w, "  markers:  %d over %d frames (max %d)\n", ov.Len(), len(ov.Frames()), run.MaxFrames)
	for _, f := range ov.Frames() {
		fmt.Fprintf(w, "    frame %d: %d\n", f, len(ov.Frame(f)))
	}
	return nil
}
