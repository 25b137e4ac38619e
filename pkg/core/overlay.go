// pkg/core/overlay.go
package core

import "slices"

// Overlay is the ordered set of markers applied to an image stack,
// partitioned by display frame. It is owned by a single run.
type Overlay struct {
	markers []Marker
	byFrame map[int][]int // display frame -> indices into markers
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{byFrame: make(map[int][]int)}
}

// Add appends a marker.
func (o *Overlay) Add(m Marker) {
	o.byFrame[m.Frame] = append(o.byFrame[m.Frame], len(o.markers))
	o.markers = append(o.markers, m)
}

// Len returns the number of markers.
func (o *Overlay) Len() int {
	return len(o.markers)
}

// Markers returns all markers in insertion order.
func (o *Overlay) Markers() []Marker {
	return slices.Clone(o.markers)
}

// Since returns the markers appended after the first n.
func (o *Overlay) Since(n int) []Marker {
	if n < 0 {
		n = 0
	}
	if n >= len(o.markers) {
		return nil
	}
	return slices.Clone(o.markers[n:])
}

// Frame returns the markers placed on display frame n.
func (o *Overlay) Frame(n int) []Marker {
	idx := o.byFrame[n]
	out := make([]Marker, 0, len(idx))
	for _, i := range idx {
		out = append(out, o.markers[i])
	}
	return out
}

// Frames returns the distinct display frames carrying markers, ascending.
func (o *Overlay) Frames() []int {
	frames := make([]int, 0, len(o.byFrame))
	for f := range o.byFrame {
		frames = append(frames, f)
	}
	slices.Sort(frames)
	return frames
}

// Clear removes all markers.
func (o *Overlay) Clear() {
	o.markers = nil
	o.byFrame = make(map[int][]int)
}
