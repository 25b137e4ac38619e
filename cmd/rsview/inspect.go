package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rsview/rsview/internal/stack"
)

// inspect prints the dimensions of image sequences.
func inspect(args []string, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("inspect: no image given")
	}
	for _, path := range args {
		info, err := stack.Open(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", info.Path)
		fmt.Fprintf(w, "  size:     %dx%d\n", info.Width, info.Height)
		fmt.Fprintf(w, "  pages:    %d\n", info.Pages)
		fmt.Fprintf(w, "  frames:   %d\n", info.Frames)
		fmt.Fprintf(w, "  slices:   %d\n", info.Slices)
		fmt.Fprintf(w, "  channels: %d\n", info.Channels)
		fmt.Fprintf(w, "  imagej:   %t\n", info.ImageJ)

		maxFrames, err := stack.MaxFrames(info)
		if err != nil {
			fmt.Fprintf(w, "  max frames: %v\n", err)
			continue
		}
		fmt.Fprintf(w, "  max frames: %d\n", maxFrames)
	}
	return nil
}
