package main

import (
	"github.com/spf13/viper"

	"github.com/rsview/rsview/internal/api"
	"github.com/rsview/rsview/internal/config"
	"github.com/rsview/rsview/internal/logging"
	"github.com/rsview/rsview/internal/storage"
	"github.com/rsview/rsview/pkg/core"
)

func initStorage() (storage.Backend, error) {
	storageCfg, err := config.GetStorageConfig()
	if err != nil {
		return nil, err
	}

	backend, err := storage.NewBackend(storage.Options{
		Storage:  storageCfg,
		Database: config.GetDatabaseConfig(),
		Logger:   Logger,
		DBLogger: logging.NewZerolog(logOut, viper.GetString("logLevel"), "database"),
	})
	if err != nil {
		Logger.Error("Failed to create storage backend", "error", err)
		return nil, err
	}
	if backend == nil {
		Logger.Info("Storage disabled")
		return nil, nil
	}
	if err := backend.Init(); err != nil {
		Logger.Error("Failed to initialize storage backend", "error", err)
		return nil, err
	}
	Logger.Info("Storage backend initialized", "type", storageCfg.Type)
	return backend, nil
}

// uploader sends exported overlays to the review server.
type uploader struct {
	client *api.Client
	source storage.Uploadable
}

func newUploader(backend storage.Backend) *uploader {
	apiCfg := config.GetAPIConfig()
	u, ok := backend.(storage.Uploadable)
	if !apiCfg.Enabled() || !ok {
		return &uploader{}
	}

	client := api.New(apiCfg.ServerURL, apiCfg.APIKey)
	if err := client.Healthcheck(); err != nil {
		Logger.Warn("Review server healthcheck failed, uploads may fail", "url", apiCfg.ServerURL, "error", err)
	}
	return &uploader{client: client, source: u}
}

func (u *uploader) upload(run *core.Run) {
	if u.client == nil || run == nil {
		return
	}
	path := u.source.ExportedFilePath()
	if path == "" {
		return
	}
	if err := u.client.Upload(path, u.source.UploadMetadata()); err != nil {
		Logger.Error("Failed to upload overlay", "runId", run.ID, "path", path, "error", err)
		return
	}
	Logger.Info("Overlay uploaded", "runId", run.ID, "path", path)
}
