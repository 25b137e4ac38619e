// pkg/core/marker.go
package core

// Marker is a fixed-size, non-scalable shape drawn on one display frame.
// Markers are created by the overlay builder and never modified afterwards.
type Marker struct {
	Position    Position2D `json:"position"` // top-left corner, pixel units
	Size        float64    `json:"size"`     // width and height
	Form        Form       `json:"form"`
	Frame       int        `json:"frame"` // 1-based display frame
	Label       string     `json:"label"`
	NonScalable bool       `json:"nonScalable"`
}

// Center returns the marker centre in pixel units.
func (m Marker) Center() Position2D {
	return Position2D{
		X: m.Position.X + m.Size/2,
		Y: m.Position.Y + m.Size/2,
	}
}
