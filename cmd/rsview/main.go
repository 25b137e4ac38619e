// Command rsview overlays a localization table onto an image sequence.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rsview/rsview/internal/config"
	"github.com/rsview/rsview/internal/logging"
	"github.com/rsview/rsview/internal/session"
	"github.com/rsview/rsview/internal/watch"
	"github.com/rsview/rsview/pkg/core"
)

const AppName = "rsview"

var (
	SessionStartTime = time.Now()

	SlogManager = logging.NewSlogManager()
	Logger      = slog.Default()

	// log file, nil when logging to the console
	logOut io.Writer
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "inspect":
			return inspect(args[1:], os.Stdout)
		case "show-run":
			return showRun(args[1:], os.Stdout)
		case "load":
			args = args[1:]
		case "help", "-h", "--help":
			usage(os.Stdout)
			return nil
		}
	}
	return load(args)
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n  %s [load] --image STACK.tif --table LOCALIZATIONS.txt [--watch] [settings flags]\n", AppName)
	fmt.Fprintf(w, "  %s inspect STACK.tif\n", AppName)
	fmt.Fprintf(w, "  %s show-run [--db FILE] RUN_ID\n", AppName)
}

func load(args []string) error {
	fs := pflag.NewFlagSet("load", pflag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory containing "+config.FileName)
	imagePath := fs.String("image", "", "image sequence (TIFF)")
	tablePath := fs.String("table", "", "localization table")
	watchTable := fs.Bool("watch", false, "refresh the overlay whenever the table changes")
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgErr := config.Load(*configDir)
	if err := config.BindFlags(fs); err != nil {
		return err
	}

	var active atomic.Pointer[session.Session]
	closeLogging, err := setupLogging(logging.RunContext(func() *core.Run {
		if s := active.Load(); s != nil {
			return s.CurrentRun()
		}
		return nil
	}))
	if err != nil {
		return err
	}
	defer closeLogging()

	if cfgErr != nil {
		Logger.Warn("Using default configuration", "error", cfgErr)
	}

	settings, err := config.GetSettings()
	if err != nil {
		return err
	}
	Logger.Info("Run settings",
		"pixelSize", settings.PixelSizeNm,
		"xColumn", settings.XColumn,
		"yColumn", settings.YColumn,
		"tColumn", settings.TColumn,
		"startFrame", settings.StartFrame,
		"markerSize", settings.MarkerSize,
		"form", settings.Form.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewer, closeViewers := initViewers(ctx)
	defer closeViewers()

	backend, err := initStorage()
	if err != nil {
		return err
	}
	if backend != nil {
		defer func() {
			if err := backend.Close(); err != nil {
				Logger.Error("Failed to close storage backend", "error", err)
			}
		}()
	}
	uploader := newUploader(backend)

	sess, err := session.New(session.Options{
		Settings: settings,
		Dialect:  config.GetDialect(),
		Viewer:   viewer,
		Storage:  backend,
		Logger:   Logger,
	})
	if err != nil {
		return err
	}
	active.Store(sess)

	r, err := sess.FreshLoad(*imagePath, *tablePath)
	if err != nil {
		return err
	}
	uploader.upload(r)

	if !*watchTable {
		return nil
	}

	w, err := watch.New(*tablePath, config.GetWatchConfig().Debounce,
		func(_ context.Context, path string) error {
			r, err := sess.Refresh(path)
			if err != nil {
				return err
			}
			uploader.upload(r)
			return nil
		}, Logger)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func setupLogging(provider logging.ContextProvider) (func(), error) {
	level := viper.GetString("logLevel")

	var sinks []slog.Handler
	if gl := config.GetGraylogConfig(); gl.Enabled {
		h, w, err := logging.NewGraylogHandler(gl.Address, level, AppName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: graylog disabled: %v\n", AppName, err)
		} else {
			sinks = append(sinks, h)
			SlogManager.AddCloser(w)
		}
	}

	if dir := viper.GetString("logsDir"); dir != "" {
		f, err := logging.OpenLogFile(dir, AppName, SessionStartTime)
		if err != nil {
			return nil, err
		}
		SlogManager.AddCloser(f)
		logOut = f
	}

	SlogManager.Setup(logOut, level, provider, sinks...)
	Logger = SlogManager.Logger()
	slog.SetDefault(Logger)

	return func() {
		if err := SlogManager.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			fmt.Fprintf(os.Stderr, "%s: closing logs: %v\n", AppName, err)
		}
	}, nil
}
