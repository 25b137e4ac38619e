package overlay

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/rsview/rsview/internal/overlay"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	added    metric.Int64Counter
	rejected metric.Int64Counter
	flushes  metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	m := meter()
	var (
		mt  metrics
		err error
	)

	mt.added, err = m.Int64Counter(
		"overlay.markers.added",
		metric.WithDescription("Markers appended to the overlay"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating added counter: %w", err)
	}

	mt.rejected, err = m.Int64Counter(
		"overlay.localizations.rejected",
		metric.WithDescription("Localizations outside the frame window"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	mt.flushes, err = m.Int64Counter(
		"overlay.flushes",
		metric.WithDescription("Overlay snapshots published to observers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating flushes counter: %w", err)
	}

	return &mt, nil
}
