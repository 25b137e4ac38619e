// Package display connects the overlay builder to the viewers that show the image
// sequence and its overlay.
package display

import (
	"errors"

	"github.com/rsview/rsview/pkg/core"
)

// Viewer shows an image sequence and the overlay placed on it.
type Viewer interface {
	SetOverlay(ov *core.Overlay) error
	Show() error
	ShowProgress(current, total int) error
	ShowStatus(msg string)
}

// RunAware is implemented by viewers that track run boundaries.
type RunAware interface {
	StartRun(run *core.Run) error
	EndRun(run *core.Run) error
}

// StartRun notifies v if it is RunAware.
func StartRun(v Viewer, run *core.Run) error {
	if ra, ok := v.(RunAware); ok {
		return ra.StartRun(run)
	}
	return nil
}

// EndRun notifies v if it is RunAware.
func EndRun(v Viewer, run *core.Run) error {
	if ra, ok := v.(RunAware); ok {
		return ra.EndRun(run)
	}
	return nil
}

// Multi fans calls out to several viewers. Every viewer is called; the first
// error is returned.
type Multi []Viewer

func (m Multi) SetOverlay(ov *core.Overlay) error {
	return m.each(func(v Viewer) error { return v.SetOverlay(ov) })
}

func (m Multi) Show() error {
	return m.each(func(v Viewer) error { return v.Show() })
}

func (m Multi) ShowProgress(current, total int) error {
	return m.each(func(v Viewer) error { return v.ShowProgress(current, total) })
}

func (m Multi) ShowStatus(msg string) {
	for _, v := range m {
		v.ShowStatus(msg)
	}
}

func (m Multi) StartRun(run *core.Run) error {
	return m.each(func(v Viewer) error { return StartRun(v, run) })
}

func (m Multi) EndRun(run *core.Run) error {
	return m.each(func(v Viewer) error { return EndRun(v, run) })
}

func (m Multi) each(fn func(Viewer) error) error {
	var first error
	for _, v := range m {
		if err := fn(v); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Nop is a viewer that shows nothing.
type Nop struct{}

func (Nop) SetOverlay(*core.Overlay) error { return nil }
func (Nop) Show() error                    { return nil }
func (Nop) ShowProgress(int, int) error    { return nil }
func (Nop) ShowStatus(string)              {}

var errNilViewer = errors.New("nil viewer")
