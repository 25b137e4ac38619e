package main

import (
	"context"
	"errors"

	"github.com/spf13/viper"

	"github.com/rsview/rsview/internal/config"
	"github.com/rsview/rsview/internal/display"
	"github.com/rsview/rsview/internal/display/websocket"
	"github.com/rsview/rsview/internal/influx"
	"github.com/rsview/rsview/internal/logging"
)

// initViewers builds the viewer fan-out. Optional viewers that fail to start
// are logged and skipped.
func initViewers(ctx context.Context) (display.Viewer, func()) {
	viewers := display.Multi{display.NewLogViewer(Logger)}
	var closers []func() error

	if wsCfg := config.GetWebsocketConfig(); wsCfg.URL != "" {
		v := websocket.New(wsCfg, Logger)
		if err := v.Init(); err != nil {
			Logger.Warn("Live view unavailable", "url", wsCfg.URL, "error", err)
		} else {
			Logger.Info("Live view connected", "url", wsCfg.URL)
			viewers = append(viewers, v)
			closers = append(closers, v.Close)
		}
	}

	m := influx.NewManager(logging.NewZerolog(logOut, viper.GetString("logLevel"), "influx"), config.GetInfluxConfig())
	switch err := m.Connect(ctx); {
	case errors.Is(err, influx.ErrDisabled):
		Logger.Debug("InfluxDB progress disabled")
	case err != nil:
		Logger.Warn("InfluxDB progress unavailable", "error", err)
	default:
		viewers = append(viewers, influx.NewProgressViewer(m))
		closers = append(closers, m.Close)
	}

	return viewers, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				Logger.Warn("Failed to close viewer", "error", err)
			}
		}
	}
}
