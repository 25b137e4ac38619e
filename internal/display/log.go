package display

import (
	"log/slog"

	"github.com/rsview/rsview/pkg/core"
)

// LogViewer reports overlay updates through a logger. It is the default viewer
// when no live view is configured.
type LogViewer struct {
	logger  *slog.Logger
	overlay *core.Overlay
	shown   int
}

// NewLogViewer creates a LogViewer. A nil logger uses slog.Default().
func NewLogViewer(logger *slog.Logger) *LogViewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogViewer{logger: logger.With("component", "viewer")}
}

func (l *LogViewer) SetOverlay(ov *core.Overlay) error {
	l.overlay = ov
	return nil
}

func (l *LogViewer) Show() error {
	if l.overlay == nil {
		return nil
	}
	n := l.overlay.Len()
	l.logger.Debug("overlay updated", "markers", n, "new", n-l.shown)
	l.shown = n
	return nil
}

func (l *LogViewer) ShowProgress(current, total int) error {
	l.logger.Info("progress", "frame", current, "total", total, "percent", percent(current, total))
	return nil
}

func (l *LogViewer) ShowStatus(msg string) {
	l.logger.Info(msg)
}

func (l *LogViewer) StartRun(run *core.Run) error {
	l.shown = 0
	l.logger.Info("run started",
		"runId", run.ID,
		"mode", run.Mode,
		"image", run.ImagePath,
		"table", run.TablePath,
		"maxFrames", run.MaxFrames,
	)
	return nil
}

func (l *LogViewer) EndRun(run *core.Run) error {
	if run.Failure != "" {
		l.logger.Error("run aborted",
			"runId", run.ID,
			"accepted", run.Accepted,
			"error", run.Failure,
		)
		return nil
	}
	l.logger.Info("run finished",
		"runId", run.ID,
		"accepted", run.Accepted,
		"rejected", run.Rejected,
		"duration", run.EndTime.Sub(run.StartTime),
	)
	return nil
}

func percent(current, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(current) * 100 / float64(total)
}
