// Package session runs the load pipeline: image stack, localization table,
// overlay builder, viewers and storage.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rsview/rsview/internal/display"
	"github.com/rsview/rsview/internal/mapper"
	"github.com/rsview/rsview/internal/overlay"
	"github.com/rsview/rsview/internal/stack"
	"github.com/rsview/rsview/internal/storage"
	"github.com/rsview/rsview/internal/table"
	"github.com/rsview/rsview/pkg/core"
)

var (
	ErrNoImageChosen = errors.New("no valid file picked")
	ErrNoTableChosen = errors.New("no localization table chosen")
	ErrNoImage       = errors.New("no image sequence loaded")
)

const (
	statusLoadingImage = "Loading image sequence"
	statusLoadingTable = "Loading localization list"
)

// Opener reads the dimensions of an image sequence.
type Opener func(path string) (stack.Stack, error)

// OpenTIFF is the default Opener.
func OpenTIFF(path string) (stack.Stack, error) {
	return stack.Open(path)
}

// Options configures a Session.
type Options struct {
	Settings core.Settings
	Dialect  table.Dialect
	Viewer   display.Viewer
	Storage  storage.Backend // nil disables persistence
	Open     Opener
	Logger   *slog.Logger
}

// Session holds the active image stack and the overlay of the last run.
// Runs are serialised.
type Session struct {
	opts   Options
	driver *display.Driver
	logger *slog.Logger

	mu        sync.Mutex
	active    stack.Stack
	imagePath string
	overlay   *core.Overlay
	last      *core.Run

	current atomic.Pointer[core.Run]
}

// New creates a session. Settings are validated once here.
func New(opts Options) (*Session, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	if opts.Viewer == nil {
		opts.Viewer = display.Nop{}
	}
	if opts.Open == nil {
		opts.Open = OpenTIFF
	}
	if opts.Dialect.Delimiter == "" {
		opts.Dialect = table.DefaultDialect()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	driver, err := display.NewDriver(opts.Viewer)
	if err != nil {
		return nil, err
	}
	return &Session{
		opts:   opts,
		driver: driver,
		logger: opts.Logger.With("component", "session"),
	}, nil
}

// FreshLoad opens imagePath, makes it the active stack and overlays tablePath.
func (s *Session) FreshLoad(imagePath, tablePath string) (*core.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if imagePath == "" {
		return nil, ErrNoImageChosen
	}

	s.opts.Viewer.ShowStatus(statusLoadingImage)
	st, err := s.opts.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("loading image sequence: %w", err)
	}
	s.active = st
	s.imagePath = imagePath
	s.logger.Info("Image sequence loaded", "image", imagePath,
		"frames", st.NFrames(), "slices", st.NSlices())

	return s.run(core.RunModeFresh, tablePath)
}

// Refresh rebuilds the overlay of the active stack from tablePath.
func (s *Session) Refresh(tablePath string) (*core.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, ErrNoImage
	}
	return s.run(core.RunModeRefresh, tablePath)
}

// Overlay returns the overlay of the last completed run, or nil.
func (s *Session) Overlay() *core.Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay
}

// LastRun returns the last completed run, or nil.
func (s *Session) LastRun() *core.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// CurrentRun returns the run in progress, or nil. Safe for concurrent use.
func (s *Session) CurrentRun() *core.Run {
	return s.current.Load()
}

func (s *Session) run(mode core.RunMode, tablePath string) (*core.Run, error) {
	maxFrames, err := stack.MaxFrames(s.active)
	if err != nil {
		return nil, err
	}
	if tablePath == "" {
		return nil, ErrNoTableChosen
	}

	v := s.opts.Viewer
	if err := v.SetOverlay(core.NewOverlay()); err != nil {
		return nil, fmt.Errorf("clearing overlay: %w", err)
	}
	v.ShowStatus(statusLoadingTable)

	f, err := os.Open(tablePath)
	if err != nil {
		return nil, fmt.Errorf("opening localization table: %w", err)
	}
	defer f.Close()

	run := &core.Run{
		ID:        uuid.NewString(),
		Mode:      mode,
		ImagePath: s.imagePath,
		TablePath: tablePath,
		Settings:  s.opts.Settings,
		MaxFrames: maxFrames,
		StartTime: time.Now(),
	}
	s.current.Store(run)
	defer s.current.Store(nil)

	if err := display.StartRun(v, run); err != nil {
		return nil, fmt.Errorf("starting run: %w", err)
	}

	b, err := overlay.NewBuilder(run.Settings, maxFrames, s.driver)
	if err != nil {
		return nil, s.abort(run, nil, err)
	}

	d := s.opts.Dialect
	for row, err := range table.Rows(table.Lines(f, d.CommentPrefix), d) {
		if err != nil {
			return nil, s.abort(run, b, fmt.Errorf("%s: %w", tablePath, err))
		}
		loc, err := mapper.MapRow(row, run.Settings)
		if err != nil {
			return nil, s.abort(run, b, fmt.Errorf("%s: %w", tablePath, err))
		}
		if _, err := b.Add(loc); err != nil {
			return nil, s.abort(run, b, fmt.Errorf("%s: %w", tablePath, err))
		}
	}
	if err := b.Finish(); err != nil {
		return nil, s.abort(run, b, fmt.Errorf("%s: %w", tablePath, err))
	}

	run.EndTime = time.Now()
	run.Accepted = b.Accepted()
	run.Rejected = b.Rejected()
	s.overlay = b.Overlay()
	s.last = run

	s.logger.Info("Overlay built", "runId", run.ID, "mode", run.Mode,
		"markers", run.Accepted, "rejected", run.Rejected, "maxFrames", maxFrames)

	if s.opts.Storage != nil {
		if err := s.opts.Storage.SaveRun(run, s.overlay); err != nil {
			return run, s.abort(run, nil, fmt.Errorf("saving run: %w", err))
		}
	}
	if err := display.EndRun(v, run); err != nil {
		return run, fmt.Errorf("ending run: %w", err)
	}
	return run, nil
}

// abort ends a started run as failed so viewers do not keep it open, and
// returns err. b, if given, supplies the counts reached so far.
func (s *Session) abort(run *core.Run, b *overlay.Builder, err error) error {
	run.EndTime = time.Now()
	run.Failure = err.Error()
	if b != nil {
		run.Accepted = b.Accepted()
		run.Rejected = b.Rejected()
	}
	if endErr := display.EndRun(s.opts.Viewer, run); endErr != nil {
		s.logger.Warn("Failed to end aborted run", "runId", run.ID, "error", endErr)
	}
	return err
}
