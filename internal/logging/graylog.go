package logging

import (
	"fmt"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGraylogHandler returns a JSON handler writing GELF messages to addr
// (host:port, UDP). The writer must be closed by the caller.
func NewGraylogHandler(addr, level, facility string) (slog.Handler, *gelf.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("creating graylog writer: %w", err)
	}
	w.Facility = facility
	return slog.NewJSONHandler(w, handlerOptions(level)), w, nil
}
