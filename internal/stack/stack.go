// Package stack reads the frame and slice counts of an image sequence without
// decoding pixel data.
package stack

import (
	"errors"
)

var (
	// ErrNoFrames is returned when a sequence has neither frames nor slices.
	ErrNoFrames = errors.New("image contains no frames")
	// ErrNotTIFF is returned when the input does not carry a TIFF header.
	ErrNotTIFF = errors.New("not a TIFF file")
)

// Stack is an opened image sequence.
type Stack interface {
	NFrames() int
	NSlices() int
}

// MaxFrames returns the length of the frame window for s. A single-frame
// sequence is treated as a z-stack and its slice count is used instead.
func MaxFrames(s Stack) (int, error) {
	frames, slices := s.NFrames(), s.NSlices()
	if frames == 0 && slices == 0 {
		return 0, ErrNoFrames
	}
	if frames == 1 {
		return slices, nil
	}
	return frames, nil
}

// Dims is a fixed frame/slice count, for sequences already held in memory.
type Dims struct {
	Frames int
	Slices int
}

func (d Dims) NFrames() int { return d.Frames }
func (d Dims) NSlices() int { return d.Slices }
