package units

import "strings"

// Lookup keys for the canonical unit systems.
const (
	KeyMetric      = "metric"
	KeyUSCustomary = "us_customary"

	// KeyImperial is the deprecated spelling of KeyUSCustomary. It is
	// accepted by ValidateKey but rejected by Get.
	KeyImperial = "imperial"
)

// The two canonical unit systems. Built once at init and shared read-only
// for the life of the process.
var (
	MetricSystem = mustNew(KeyMetric, Choices{
		Temperature:              Celsius,
		Length:                   Kilometers,
		WindSpeed:                MetersPerSecond,
		Volume:                   Liters,
		Mass:                     Grams,
		Pressure:                 Pascals,
		AccumulatedPrecipitation: Millimeters,
	})

	USCustomarySystem = mustNew(KeyUSCustomary, Choices{
		Temperature:              Fahrenheit,
		Length:                   Miles,
		WindSpeed:                MilesPerHour,
		Volume:                   Gallons,
		Mass:                     Pounds,
		Pressure:                 PSI,
		AccumulatedPrecipitation: Inches,
	})
)

// ImperialSystem is the old name for USCustomarySystem. It is the same
// instance, not a copy.
//
// Deprecated: use USCustomarySystem.
var ImperialSystem = USCustomarySystem

// mustNew panics on invalid choices. Only used for the canonical systems,
// whose choices are compile-time constants.
func mustNew(name string, choices Choices) *UnitSystem {
	s, err := New(name, choices)
	if err != nil {
		panic(err)
	}
	return s
}

// Get returns the canonical unit system for key. Keys match exactly:
// no case folding and no legacy spellings. Run raw input through
// ValidateKey first.
func Get(key string) (*UnitSystem, error) {
	switch key {
	case KeyMetric:
		return MetricSystem, nil
	case KeyUSCustomary:
		return USCustomarySystem, nil
	}
	return nil, &InvalidKeyError{Key: key}
}

// ValidateKey normalizes a raw unit system key: case-insensitive, with
// the deprecated "imperial" spelling rewritten to "us_customary". Any
// value that does not normalize to a canonical key is rejected.
func ValidateKey(raw string) (string, error) {
	key := strings.ToLower(raw)
	if key == KeyImperial {
		key = KeyUSCustomary
	}
	if key != KeyMetric && key != KeyUSCustomary {
		return "", &InvalidKeyError{Key: raw}
	}
	return key, nil
}
