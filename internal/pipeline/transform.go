package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/unit-normalizer-service/internal/domain"
	"github.com/couchcryptid/unit-normalizer-service/internal/observability"
	"github.com/couchcryptid/unit-normalizer-service/internal/units"
)

// ReadingTransformer implements Transformer by parsing raw collector
// messages and re-expressing them in the target unit system.
type ReadingTransformer struct {
	system  *units.UnitSystem
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a ReadingTransformer targeting the given unit system.
func NewTransformer(system *units.UnitSystem, logger *slog.Logger, metrics *observability.Metrics) *ReadingTransformer {
	return &ReadingTransformer{
		system:  system,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *ReadingTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.NormalizedReading, error) {
	reading, err := domain.ParseRawReading(raw)
	if err != nil {
		return domain.NormalizedReading{}, err
	}

	normalized, err := domain.NormalizeReading(t.system, reading)
	if err != nil {
		t.metrics.ConversionErrors.Inc()
		return domain.NormalizedReading{}, err
	}

	return normalized, nil
}
