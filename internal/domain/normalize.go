package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/unit-normalizer-service/internal/units"
)

// ParseRawReading deserializes a RawEvent's value into a Reading.
// It expects the flat JSON produced by the collector services.
func ParseRawReading(raw RawEvent) (Reading, error) {
	var rec rawReading
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Reading{}, fmt.Errorf("parse raw reading: %w", err)
	}

	if rec.StationID == "" {
		return Reading{}, fmt.Errorf("parse raw reading: missing station_id")
	}
	if rec.Category == "" {
		return Reading{}, fmt.Errorf("parse raw reading: missing category")
	}
	if rec.Unit == "" {
		return Reading{}, fmt.Errorf("parse raw reading: missing unit")
	}

	return Reading{
		StationID:  rec.StationID,
		Category:   units.Category(strings.ToLower(strings.TrimSpace(rec.Category))),
		Value:      rec.Value,
		Unit:       units.Unit(rec.Unit),
		ObservedAt: parseObservedAt(rec.ObservedAt, raw.Timestamp),
		Source:     rec.Source,
	}, nil
}

// parseObservedAt parses an RFC 3339 timestamp, falling back to the
// message timestamp when the field is absent or malformed.
func parseObservedAt(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fallback
	}
	return t.UTC()
}

// NormalizeReading re-expresses a reading in the target unit system.
// The category selects the conversion method; mass has no conversion and
// passes through with its source unit. Non-numeric values and unknown
// categories fail without producing a partial result.
func NormalizeReading(sys *units.UnitSystem, r Reading) (NormalizedReading, error) {
	original, ok := r.Value.(float64)
	if !ok {
		// Coerce through the same path the unit system uses so integer
		// fixture values behave like JSON numbers.
		converted, err := coerceNumeric(r.Value)
		if err != nil {
			return NormalizedReading{}, err
		}
		original = converted
	}

	var (
		value float64
		err   error
	)
	switch r.Category {
	case units.Temperature:
		value, err = sys.Temperature(r.Value, r.Unit)
	case units.Length:
		value, err = sys.Length(r.Value, r.Unit)
	case units.AccumulatedPrecipitation:
		value, err = sys.AccumulatedPrecipitation(r.Value, r.Unit)
	case units.Pressure:
		value, err = sys.Pressure(r.Value, r.Unit)
	case units.WindSpeed:
		value, err = sys.WindSpeed(r.Value, r.Unit)
	case units.Volume:
		value, err = sys.Volume(r.Value, r.Unit)
	case units.Mass:
		// No mass conversion method exists; keep the source value and unit.
		value = original
	default:
		return NormalizedReading{}, fmt.Errorf("unsupported measurement category %q", r.Category)
	}
	if err != nil {
		return NormalizedReading{}, fmt.Errorf("normalize %s reading: %w", r.Category, err)
	}

	targetUnit := sys.AsMap()[r.Category]
	if r.Category == units.Mass {
		targetUnit = r.Unit
	}

	return NormalizedReading{
		StationID:     r.StationID,
		Category:      r.Category,
		Value:         value,
		Unit:          targetUnit,
		OriginalValue: original,
		OriginalUnit:  r.Unit,
		UnitSystem:    unitSystemKey(sys),
		Source:        r.Source,
		ObservedAt:    r.ObservedAt,
		ProcessedAt:   clock.Now().UTC(),
	}, nil
}

// unitSystemKey maps a canonical system to its lookup key without going
// through the deprecated Name accessor.
func unitSystemKey(sys *units.UnitSystem) string {
	if sys == units.MetricSystem {
		return units.KeyMetric
	}
	if sys == units.USCustomarySystem {
		return units.KeyUSCustomary
	}
	return ""
}

// coerceNumeric mirrors the unit system's numeric coercion for categories
// that never reach a conversion method.
func coerceNumeric(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return 0, &units.TypeMismatchError{Value: value}
}
