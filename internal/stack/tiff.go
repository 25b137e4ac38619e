package stack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"
)

const (
	tagImageWidth       = 256
	tagImageLength      = 257
	tagImageDescription = 270

	typeShort = 3
	typeLong  = 4
	typeASCII = 2

	// upper bound on pages walked, guards against corrupt offset chains
	maxPages = 1 << 20
)

// Info is the metadata of a TIFF image sequence.
type Info struct {
	Path        string
	Name        string
	Width       int
	Height      int
	Pages       int
	Frames      int
	Slices      int
	Channels    int
	ImageJ      bool
	Description string
}

func (i *Info) NFrames() int { return i.Frames }
func (i *Info) NSlices() int { return i.Slices }

// Open reads the TIFF at path. With an ImageJ description the frame and slice
// counts come from it, otherwise every page is treated as a slice.
func Open(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	info, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	info.Path = path
	info.Name = filepath.Base(path)
	return info, nil
}

// Read inspects a TIFF held by r.
func Read(r io.ReaderAt) (*Info, error) {
	header := make([]byte, 8)
	if _, err := r.ReadAt(header, 0); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNotTIFF
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var order binary.ByteOrder
	switch string(header[0:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, ErrNotTIFF
	}
	if order.Uint16(header[2:4]) != 42 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrNotTIFF, order.Uint16(header[2:4]))
	}

	w := walker{r: r, order: order}
	info := &Info{}

	offset := int64(order.Uint32(header[4:8]))
	seen := make(map[int64]bool)
	for offset != 0 && info.Pages < maxPages {
		if seen[offset] {
			return nil, fmt.Errorf("IFD loop at offset %d", offset)
		}
		seen[offset] = true

		entries, next, err := w.ifd(offset)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", info.Pages+1, err)
		}
		if info.Pages == 0 {
			if err := w.first(entries, info); err != nil {
				return nil, err
			}
		}
		info.Pages++
		offset = next
	}

	if info.Pages > 0 {
		if err := decodeConfig(r, info); err != nil {
			return nil, err
		}
	}

	applyImageJ(info)
	return info, nil
}

// decodeConfig prefers the dimensions reported by the tiff decoder. Sample formats
// the decoder does not support (32-bit float is common in microscopy) keep the
// raw tag values.
func decodeConfig(r io.ReaderAt, info *Info) error {
	cfg, err := tiff.DecodeConfig(io.NewSectionReader(r, 0, 1<<62))
	if err != nil {
		var unsupported tiff.UnsupportedError
		if errors.As(err, &unsupported) {
			return nil
		}
		return fmt.Errorf("decoding config: %w", err)
	}
	info.Width = cfg.Width
	info.Height = cfg.Height
	return nil
}

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte // raw 4-byte value/offset field
}

type walker struct {
	r     io.ReaderAt
	order binary.ByteOrder
}

func (w walker) ifd(offset int64) ([]entry, int64, error) {
	buf := make([]byte, 2)
	if _, err := w.r.ReadAt(buf, offset); err != nil {
		return nil, 0, fmt.Errorf("reading entry count: %w", err)
	}
	n := int(w.order.Uint16(buf))

	raw := make([]byte, 12*n+4)
	if _, err := w.r.ReadAt(raw, offset+2); err != nil {
		return nil, 0, fmt.Errorf("reading entries: %w", err)
	}

	entries := make([]entry, n)
	for i := range entries {
		e := raw[12*i : 12*i+12]
		entries[i] = entry{
			tag:   w.order.Uint16(e[0:2]),
			typ:   w.order.Uint16(e[2:4]),
			count: w.order.Uint32(e[4:8]),
			value: e[8:12],
		}
	}
	next := int64(w.order.Uint32(raw[12*n:]))
	return entries, next, nil
}

func (w walker) first(entries []entry, info *Info) error {
	for _, e := range entries {
		switch e.tag {
		case tagImageWidth:
			info.Width = w.intValue(e)
		case tagImageLength:
			info.Height = w.intValue(e)
		case tagImageDescription:
			if e.typ != typeASCII {
				continue
			}
			desc, err := w.ascii(e)
			if err != nil {
				return fmt.Errorf("reading image description: %w", err)
			}
			info.Description = desc
		}
	}
	return nil
}

func (w walker) intValue(e entry) int {
	switch e.typ {
	case typeShort:
		return int(w.order.Uint16(e.value[0:2]))
	case typeLong:
		return int(w.order.Uint32(e.value))
	}
	return 0
}

func (w walker) ascii(e entry) (string, error) {
	var b []byte
	if e.count <= 4 {
		b = e.value[:e.count]
	} else {
		b = make([]byte, e.count)
		if _, err := w.r.ReadAt(b, int64(w.order.Uint32(e.value))); err != nil {
			return "", err
		}
	}
	return strings.TrimRight(string(b), "\x00"), nil
}

// applyImageJ sets frame and slice counts. ImageJ writes its hyperstack layout
// into the first description as key=value lines.
func applyImageJ(info *Info) {
	kv := parseDescription(info.Description)
	if _, ok := kv["ImageJ"]; !ok {
		info.Slices = info.Pages
		if info.Pages > 0 {
			info.Frames = 1
		}
		info.Channels = 1
		return
	}

	info.ImageJ = true
	images := intOr(kv, "images", info.Pages)
	info.Channels = intOr(kv, "channels", 1)

	_, hasFrames := kv["frames"]
	_, hasSlices := kv["slices"]
	if !hasFrames && !hasSlices {
		info.Frames = 1
		info.Slices = images / max(info.Channels, 1)
		return
	}
	info.Frames = intOr(kv, "frames", 1)
	info.Slices = intOr(kv, "slices", 1)
}

func parseDescription(desc string) map[string]string {
	kv := make(map[string]string)
	for _, line := range strings.Split(desc, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		kv[k] = v
	}
	return kv
}

func intOr(kv map[string]string, key string, def int) int {
	v, ok := kv[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return def
	}
	return n
}
