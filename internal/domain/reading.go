package domain

import (
	"context"
	"time"

	"github.com/couchcryptid/unit-normalizer-service/internal/units"
)

// rawReading is the flat JSON published by the upstream collectors. Value
// stays untyped: JSON numbers decode to float64, and anything else is
// rejected later by the unit system's numeric check.
type rawReading struct {
	StationID  string `json:"station_id"`
	Category   string `json:"category"`
	Value      any    `json:"value"`
	Unit       string `json:"unit"`
	ObservedAt string `json:"observed_at"` // RFC 3339; optional
	Source     string `json:"source"`
}

// RawEvent represents an unprocessed message from a source adapter.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Reading is the parsed representation of one measurement.
type Reading struct {
	StationID  string
	Category   units.Category
	Value      any
	Unit       units.Unit
	ObservedAt time.Time
	Source     string
}

// NormalizedReading is a reading re-expressed in the target unit system,
// destined for the sink topic.
type NormalizedReading struct {
	StationID     string         `json:"station_id"`
	Category      units.Category `json:"category"`
	Value         float64        `json:"value"`
	Unit          units.Unit     `json:"unit"`
	OriginalValue float64        `json:"original_value"`
	OriginalUnit  units.Unit     `json:"original_unit"`
	UnitSystem    string         `json:"unit_system"`
	Source        string         `json:"source,omitempty"`
	ObservedAt    time.Time      `json:"observed_at"`
	ProcessedAt   time.Time      `json:"processed_at"`
}
