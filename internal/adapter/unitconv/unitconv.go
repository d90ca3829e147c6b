// Package unitconv provides the concrete converters behind the
// units.Converter capability. The units package itself holds no
// conversion math; this adapter supplies it, as ratio tables against a
// per-category base unit plus the affine temperature special case.
package unitconv

import (
	"fmt"

	"github.com/couchcryptid/unit-normalizer-service/internal/units"
)

// Default returns a full converter set covering every convertible category.
func Default() units.Converters {
	return units.Converters{
		Temperature: NewTemperatureConverter(),
		Distance:    NewDistanceConverter(),
		Speed:       NewSpeedConverter(),
		Pressure:    NewPressureConverter(),
		Volume:      NewVolumeConverter(),
	}
}

// ratioConverter converts within one category via ratios to a common base
// unit: value_base = value * toBase[from], then divided by toBase[to].
type ratioConverter struct {
	category units.Category
	toBase   map[units.Unit]float64
}

func (c *ratioConverter) Convert(value float64, from, to units.Unit) (float64, error) {
	fromRatio, ok := c.toBase[from]
	if !ok {
		return 0, fmt.Errorf("%s is not a recognized %s unit", from, c.category)
	}
	toRatio, ok := c.toBase[to]
	if !ok {
		return 0, fmt.Errorf("%s is not a recognized %s unit", to, c.category)
	}
	if from == to {
		return value, nil
	}
	return value * fromRatio / toRatio, nil
}

// NewDistanceConverter converts length and accumulated precipitation
// values. Base unit: meters.
func NewDistanceConverter() units.Converter {
	return &ratioConverter{
		category: units.Length,
		toBase: map[units.Unit]float64{
			units.Millimeters: 0.001,
			units.Centimeters: 0.01,
			units.Meters:      1,
			units.Kilometers:  1000,
			units.Inches:      0.0254,
			units.Feet:        0.3048,
			units.Yards:       0.9144,
			units.Miles:       1609.344,
		},
	}
}

// NewSpeedConverter converts wind speed values. Base unit: meters per second.
func NewSpeedConverter() units.Converter {
	return &ratioConverter{
		category: units.WindSpeed,
		toBase: map[units.Unit]float64{
			units.FeetPerSecond:     0.3048,
			units.MetersPerSecond:   1,
			units.KilometersPerHour: 1.0 / 3.6,
			units.Knots:             1852.0 / 3600.0,
			units.MilesPerHour:      0.44704,
		},
	}
}

// NewPressureConverter converts pressure values. Base unit: pascals.
func NewPressureConverter() units.Converter {
	return &ratioConverter{
		category: units.Pressure,
		toBase: map[units.Unit]float64{
			units.Pascals:              1,
			units.Hectopascals:         100,
			units.Kilopascals:          1000,
			units.Bar:                  100000,
			units.Centibar:             1000,
			units.Millibar:             100,
			units.MillimetersOfMercury: 133.322387415,
			units.InchesOfMercury:      3386.389,
			units.PSI:                  6894.757293168,
		},
	}
}

// NewVolumeConverter converts volume values. Base unit: liters.
// Gallons and fluid ounces are the US definitions.
func NewVolumeConverter() units.Converter {
	return &ratioConverter{
		category: units.Volume,
		toBase: map[units.Unit]float64{
			units.Liters:      1,
			units.Milliliters: 0.001,
			units.CubicMeters: 1000,
			units.CubicFeet:   28.316846592,
			units.Gallons:     3.785411784,
			units.FluidOunces: 0.0295735295625,
		},
	}
}

// temperatureConverter is the affine special case: conversions go through
// Celsius rather than a ratio table.
type temperatureConverter struct{}

// NewTemperatureConverter converts temperature values.
func NewTemperatureConverter() units.Converter {
	return temperatureConverter{}
}

func (temperatureConverter) Convert(value float64, from, to units.Unit) (float64, error) {
	if from == to {
		return value, nil
	}
	celsius, err := toCelsius(value, from)
	if err != nil {
		return 0, err
	}
	return fromCelsius(celsius, to)
}

func toCelsius(value float64, from units.Unit) (float64, error) {
	switch from {
	case units.Celsius:
		return value, nil
	case units.Fahrenheit:
		return (value - 32) / 1.8, nil
	case units.Kelvin:
		return value - 273.15, nil
	}
	return 0, fmt.Errorf("%s is not a recognized temperature unit", from)
}

func fromCelsius(value float64, to units.Unit) (float64, error) {
	switch to {
	case units.Celsius:
		return value, nil
	case units.Fahrenheit:
		return value*1.8 + 32, nil
	case units.Kelvin:
		return value + 273.15, nil
	}
	return 0, fmt.Errorf("%s is not a recognized temperature unit", to)
}
