// pkg/core/types.go
package core

// Position2D is a planar coordinate in pixel units of the image stack
type Position2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Localization is a single detected-molecule event read from a localization table.
// Coordinates are in physical units (nm); FrameRaw uses the table's own frame numbering.
type Localization struct {
	XPhysical float64
	YPhysical float64
	FrameRaw  float64
	Intensity float64

	// Line is the source line in the table, kept for diagnostics.
	Line int
}
