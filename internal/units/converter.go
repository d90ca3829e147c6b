package units

import (
	"fmt"
	"log/slog"
)

// Converter converts a numeric value between two units of one category.
// Implementations are expected to fail when given a unit they do not
// recognize; unit systems do not pre-validate the from unit.
type Converter interface {
	Convert(value float64, from, to Unit) (float64, error)
}

// Converters bundles one converter per convertible category. Distance
// serves both length and accumulated precipitation since precipitation
// units are length units.
type Converters struct {
	Temperature Converter
	Distance    Converter
	Speed       Converter
	Pressure    Converter
	Volume      Converter
}

// converters is the package-level converter set so the canonical systems,
// built at init before any wiring runs, can still convert. Production
// code installs real converters once at startup; tests swap in fakes.
var converters Converters

// SetConverters installs the converter set used by all unit systems.
func SetConverters(c Converters) {
	converters = c
}

// convert coerces value to float64 and delegates to c. A non-numeric
// value is rejected before the converter is consulted.
func convert(c Converter, category Category, value any, from, to Unit) (float64, error) {
	v, ok := toFloat64(value)
	if !ok {
		return 0, &TypeMismatchError{Value: value}
	}
	if c == nil {
		return 0, fmt.Errorf("no %s converter configured", category)
	}
	return c.Convert(v, from, to)
}

// toFloat64 accepts any Go integer or float type. Everything else,
// including numeric strings, is a type mismatch.
func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Reporter receives deprecation notices from the legacy accessors.
// Report is fire-and-forget: it must not block and must not fail back
// to the caller.
type Reporter interface {
	Report(msg string)
}

type slogReporter struct{}

func (slogReporter) Report(msg string) {
	slog.Warn(msg)
}

// reporter is a package-level sink so tests can capture notices via
// SetReporter, mirroring the injectable clock in the domain package.
var reporter Reporter = slogReporter{}

// SetReporter swaps the deprecation notice sink. Pass nil to reset to
// the default slog-backed reporter.
func SetReporter(r Reporter) {
	if r == nil {
		reporter = slogReporter{}
		return
	}
	reporter = r
}
