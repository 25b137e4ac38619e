// Package overlay accumulates mapped localizations into a per-frame marker overlay
// and notifies an observer whenever the display frame changes.
package overlay

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rsview/rsview/internal/mapper"
	"github.com/rsview/rsview/pkg/core"
)

// Observer receives overlay snapshots while the builder runs.
type Observer interface {
	// FrameChanged is called when an accepted marker lands on a different display
	// frame than the previous one. previous is the frame that was left.
	FrameChanged(ov *core.Overlay, previous, maxFrames int) error
	// Finished is called once after the last localization.
	Finished(ov *core.Overlay, maxFrames int) error
}

// Builder owns the overlay under construction for one run.
type Builder struct {
	settings  core.Settings
	maxFrames int
	observer  Observer
	overlay   *core.Overlay

	lastFrame int
	accepted  int
	rejected  int

	metrics *metrics
	attrs   metric.MeasurementOption
}

// NewBuilder creates a builder with an empty overlay. obs may be nil.
func NewBuilder(s core.Settings, maxFrames int, obs Observer) (*Builder, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if maxFrames < 0 {
		return nil, fmt.Errorf("maxFrames must be >= 0, got %d", maxFrames)
	}

	mt, err := newMetrics()
	if err != nil {
		return nil, err
	}

	return &Builder{
		settings:  s,
		maxFrames: maxFrames,
		observer:  obs,
		overlay:   core.NewOverlay(),
		lastFrame: 1,
		metrics:   mt,
		attrs:     metric.WithAttributes(attribute.String("form", s.Form.String())),
	}, nil
}

// Add places loc on the overlay if it lies in the frame window.
// It reports whether the localization was accepted.
func (b *Builder) Add(loc core.Localization) (bool, error) {
	ctx := context.Background()

	if !mapper.InWindow(loc, b.settings, b.maxFrames) {
		b.rejected++
		b.metrics.rejected.Add(ctx, 1, b.attrs)
		return false, nil
	}

	m := mapper.Place(loc, b.settings)
	b.overlay.Add(m)
	b.accepted++
	b.metrics.added.Add(ctx, 1, b.attrs)

	previous := b.lastFrame
	b.lastFrame = m.Frame
	if m.Frame != previous && b.observer != nil {
		b.metrics.flushes.Add(ctx, 1, b.attrs)
		if err := b.observer.FrameChanged(b.overlay, previous, b.maxFrames); err != nil {
			return true, fmt.Errorf("publishing frame %d: %w", previous, err)
		}
	}
	return true, nil
}

// Finish publishes the complete overlay.
func (b *Builder) Finish() error {
	if b.observer == nil {
		return nil
	}
	b.metrics.flushes.Add(context.Background(), 1, b.attrs)
	if err := b.observer.Finished(b.overlay, b.maxFrames); err != nil {
		return fmt.Errorf("publishing final overlay: %w", err)
	}
	return nil
}

// Overlay returns the overlay built so far.
func (b *Builder) Overlay() *core.Overlay {
	return b.overlay
}

// Accepted returns the number of markers placed.
func (b *Builder) Accepted() int {
	return b.accepted
}

// Rejected returns the number of localizations outside the frame window.
func (b *Builder) Rejected() int {
	return b.rejected
}

// MaxFrames returns the frame-window length.
func (b *Builder) MaxFrames() int {
	return b.maxFrames
}
