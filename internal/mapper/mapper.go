// Package mapper converts parsed table rows into localizations and places them as
// overlay markers. Every function is pure.
package mapper

import (
	"math"
	"strconv"

	"github.com/rsview/rsview/internal/table"
	"github.com/rsview/rsview/pkg/core"
)

// MapRow reads x, y, frame and intensity from row using the configured columns.
// Intensity always comes from core.IntensityColumn.
func MapRow(row table.Row, s core.Settings) (core.Localization, error) {
	loc := core.Localization{Line: row.Line}
	var err error

	if loc.XPhysical, err = row.Field(s.XColumn); err != nil {
		return loc, err
	}
	if loc.YPhysical, err = row.Field(s.YColumn); err != nil {
		return loc, err
	}
	if loc.FrameRaw, err = row.Field(s.TColumn); err != nil {
		return loc, err
	}
	if loc.Intensity, err = row.Field(core.IntensityColumn); err != nil {
		return loc, err
	}
	return loc, nil
}

// InWindow reports whether loc lies in the frame window
// [StartFrame, StartFrame+maxFrames]. The upper bound is inclusive.
func InWindow(loc core.Localization, s core.Settings, maxFrames int) bool {
	start := float64(s.StartFrame)
	return loc.FrameRaw >= start && loc.FrameRaw <= start+float64(maxFrames)
}

// PixelPosition converts physical coordinates to the top-left corner of a marker
// centred on the localization.
func PixelPosition(loc core.Localization, s core.Settings) core.Position2D {
	half := s.MarkerSize / 2
	return core.Position2D{
		X: loc.XPhysical/s.PixelSizeNm - half,
		Y: loc.YPhysical/s.PixelSizeNm - half,
	}
}

// DisplayFrame maps a table frame (0-based, truncated toward zero) to the 1-based
// display frame of a window starting at startFrame.
func DisplayFrame(frameRaw float64, startFrame int) int {
	return int(frameRaw) - startFrame + 1
}

// Label renders an intensity truncated to an integer.
func Label(intensity float64) string {
	return strconv.FormatInt(int64(math.Trunc(intensity)), 10)
}

// Place builds the marker for an accepted localization.
func Place(loc core.Localization, s core.Settings) core.Marker {
	return core.Marker{
		Position:    PixelPosition(loc, s),
		Size:        s.MarkerSize,
		Form:        s.Form,
		Frame:       DisplayFrame(loc.FrameRaw, s.StartFrame),
		Label:       Label(loc.Intensity),
		NonScalable: true,
	}
}
