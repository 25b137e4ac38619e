package geo

import (
	"math"
	"testing"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/rsview/rsview/pkg/core"
)

func TestPointRoundTrip(t *testing.T) {
	p := core.Position2D{X: 7.5, Y: 17.5}

	got := PositionFromPoint(PointFromPosition(p))
	if got != p {
		t.Errorf("expected %v, got %v", p, got)
	}
}

func TestPositionFromEmptyPoint(t *testing.T) {
	got := PositionFromPoint(geom.NewEmptyPoint(geom.DimXY))
	if got != (core.Position2D{}) {
		t.Errorf("expected origin, got %v", got)
	}
}

func TestOutline_Square(t *testing.T) {
	m := core.Marker{Position: core.Position2D{X: 2, Y: 3}, Size: 5, Form: core.FormSquare}

	pts := OutlinePositions(Outline(m))
	if len(pts) != 5 {
		t.Fatalf("expected 5 vertices, got %d", len(pts))
	}
	if pts[0] != pts[4] {
		t.Errorf("ring not closed: %v != %v", pts[0], pts[4])
	}
	want := core.Position2D{X: 7, Y: 8}
	if pts[2] != want {
		t.Errorf("expected opposite corner %v, got %v", want, pts[2])
	}
}

func TestOutline_OvalInscribed(t *testing.T) {
	m := core.Marker{Position: core.Position2D{X: 10, Y: 10}, Size: 4, Form: core.FormOval}
	c := m.Center()

	pts := OutlinePositions(Outline(m))
	if len(pts) != ovalSegments+1 {
		t.Fatalf("expected %d vertices, got %d", ovalSegments+1, len(pts))
	}
	if pts[0] != pts[len(pts)-1] {
		t.Errorf("ring not closed")
	}
	for i, p := range pts {
		d := math.Hypot(p.X-c.X, p.Y-c.Y)
		if math.Abs(d-2) > 1e-9 {
			t.Errorf("vertex %d at distance %f from centre, expected 2", i, d)
		}
	}
}
