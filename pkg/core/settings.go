// pkg/core/settings.go
package core

import (
	"errors"
	"fmt"
	"strings"
)

// IntensityColumn is the zero-based column holding the intensity, regardless of
// the configured x/y/t columns.
const IntensityColumn = 3

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Form selects the marker shape.
type Form int

const (
	FormSquare Form = iota
	FormOval
)

func (f Form) String() string {
	switch f {
	case FormOval:
		return "Oval"
	default:
		return "Square"
	}
}

// ParseForm accepts "Square" or "Oval", case-insensitively.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square":
		return FormSquare, nil
	case "oval":
		return FormOval, nil
	default:
		return FormSquare, fmt.Errorf("%w: unknown form %q", ErrInvalidSettings, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Form) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Form) UnmarshalText(b []byte) error {
	v, err := ParseForm(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Settings holds the user-supplied parameters of one run. It is passed by value
// and never modified while a run is in progress.
type Settings struct {
	PixelSizeNm float64 `json:"pixelSizeNm"`
	XColumn     int     `json:"xColumn"`
	YColumn     int     `json:"yColumn"`
	TColumn     int     `json:"tColumn"`
	StartFrame  int     `json:"startFrame"`
	MarkerSize  float64 `json:"markerSize"`
	Form        Form    `json:"form"`
}

// DefaultSettings returns the defaults used by rapidSTORM localization tables.
func DefaultSettings() Settings {
	return Settings{
		PixelSizeNm: 160,
		XColumn:     0,
		YColumn:     1,
		TColumn:     2,
		StartFrame:  0,
		MarkerSize:  5,
		Form:        FormSquare,
	}
}

// Validate checks the value ranges of every field.
func (s Settings) Validate() error {
	switch {
	case !(s.PixelSizeNm > 0):
		return fmt.Errorf("%w: pixel size must be > 0, got %v", ErrInvalidSettings, s.PixelSizeNm)
	case s.XColumn < 0, s.YColumn < 0, s.TColumn < 0:
		return fmt.Errorf("%w: column indices must be >= 0 (x=%d y=%d t=%d)",
			ErrInvalidSettings, s.XColumn, s.YColumn, s.TColumn)
	case s.StartFrame < 0:
		return fmt.Errorf("%w: start frame must be >= 0, got %d", ErrInvalidSettings, s.StartFrame)
	case !(s.MarkerSize > 0):
		return fmt.Errorf("%w: marker size must be > 0, got %v", ErrInvalidSettings, s.MarkerSize)
	case s.Form != FormSquare && s.Form != FormOval:
		return fmt.Errorf("%w: unknown form %d", ErrInvalidSettings, int(s.Form))
	}
	return nil
}
