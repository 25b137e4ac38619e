// Package geo converts marker positions and shapes to simple-features geometry.
package geo

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/rsview/rsview/pkg/core"
)

// Coordinates are image pixels with y pointing down. No spatial reference is
// attached; WKB is used as a plain storage encoding.

// ovalSegments is the number of edges used to approximate an oval outline.
const ovalSegments = 32

// PointFromPosition converts a pixel position to a point.
func PointFromPosition(p core.Position2D) geom.Point {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Y},
		Type: geom.DimXY,
	})
}

// PositionFromPoint converts a point back to a pixel position. Empty points map
// to the origin.
func PositionFromPoint(p geom.Point) core.Position2D {
	c, ok := p.Coordinates()
	if !ok {
		return core.Position2D{}
	}
	return core.Position2D{X: c.XY.X, Y: c.XY.Y}
}

// Outline returns the closed ring a marker covers: its bounding square, or for an
// oval the inscribed ellipse approximated by a polygon.
func Outline(m core.Marker) geom.LineString {
	var flat []float64
	switch m.Form {
	case core.FormOval:
		c := m.Center()
		r := m.Size / 2
		flat = make([]float64, 0, 2*(ovalSegments+1))
		for i := 0; i <= ovalSegments; i++ {
			a := 2 * math.Pi * float64(i%ovalSegments) / ovalSegments
			flat = append(flat, c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
		}
	default:
		x0, y0 := m.Position.X, m.Position.Y
		x1, y1 := x0+m.Size, y0+m.Size
		flat = []float64{x0, y0, x1, y0, x1, y1, x0, y1, x0, y0}
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
}

// OutlinePositions lists the vertices of a ring.
func OutlinePositions(ls geom.LineString) []core.Position2D {
	seq := ls.Coordinates()
	if seq.Length() == 0 {
		return nil
	}
	out := make([]core.Position2D, seq.Length())
	for i := range out {
		xy := seq.GetXY(i)
		out[i] = core.Position2D{X: xy.X, Y: xy.Y}
	}
	return out
}
