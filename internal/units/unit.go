package units

// Category is one axis of physical measurement for which a unit system
// fixes a single preferred unit.
type Category string

const (
	Temperature              Category = "temperature"
	Length                   Category = "length"
	Mass                     Category = "mass"
	Pressure                 Category = "pressure"
	Volume                   Category = "volume"
	WindSpeed                Category = "wind_speed"
	AccumulatedPrecipitation Category = "accumulated_precipitation"
)

// Unit is a symbolic unit of measure. Each unit belongs to exactly one
// category's closed set; precipitation reuses the length symbols but is
// tracked as its own category since its chosen unit may differ from the
// general length unit.
type Unit string

// Length units.
const (
	Millimeters Unit = "mm"
	Centimeters Unit = "cm"
	Meters      Unit = "m"
	Kilometers  Unit = "km"
	Inches      Unit = "in"
	Feet        Unit = "ft"
	Yards       Unit = "yd"
	Miles       Unit = "mi"
)

// Mass units.
const (
	Grams      Unit = "g"
	Kilograms  Unit = "kg"
	Milligrams Unit = "mg"
	Micrograms Unit = "µg"
	Ounces     Unit = "oz"
	Pounds     Unit = "lb"
)

// Pressure units.
const (
	Pascals              Unit = "Pa"
	Hectopascals         Unit = "hPa"
	Kilopascals          Unit = "kPa"
	Bar                  Unit = "bar"
	Centibar             Unit = "cbar"
	Millibar             Unit = "mbar"
	MillimetersOfMercury Unit = "mmHg"
	InchesOfMercury      Unit = "inHg"
	PSI                  Unit = "psi"
)

// Volume units. Gallons and fluid ounces are the US definitions.
const (
	Liters      Unit = "L"
	Milliliters Unit = "mL"
	CubicMeters Unit = "m³"
	CubicFeet   Unit = "ft³"
	Gallons     Unit = "gal"
	FluidOunces Unit = "fl. oz."
)

// Speed units.
const (
	FeetPerSecond     Unit = "ft/s"
	MetersPerSecond   Unit = "m/s"
	KilometersPerHour Unit = "km/h"
	Knots             Unit = "kn"
	MilesPerHour      Unit = "mph"
)

// Temperature units.
const (
	Celsius    Unit = "°C"
	Fahrenheit Unit = "°F"
	Kelvin     Unit = "K"
)

type unitSet map[Unit]struct{}

func newUnitSet(units ...Unit) unitSet {
	s := make(unitSet, len(units))
	for _, u := range units {
		s[u] = struct{}{}
	}
	return s
}

var (
	lengthUnits      = newUnitSet(Millimeters, Centimeters, Meters, Kilometers, Inches, Feet, Yards, Miles)
	massUnits        = newUnitSet(Grams, Kilograms, Milligrams, Micrograms, Ounces, Pounds)
	pressureUnits    = newUnitSet(Pascals, Hectopascals, Kilopascals, Bar, Centibar, Millibar, MillimetersOfMercury, InchesOfMercury, PSI)
	volumeUnits      = newUnitSet(Liters, Milliliters, CubicMeters, CubicFeet, Gallons, FluidOunces)
	speedUnits       = newUnitSet(FeetPerSecond, MetersPerSecond, KilometersPerHour, Knots, MilesPerHour)
	temperatureUnits = newUnitSet(Celsius, Fahrenheit, Kelvin)
)

// validUnits maps each category to its closed unit set. Accumulated
// precipitation shares the length set.
var validUnits = map[Category]unitSet{
	Length:                   lengthUnits,
	AccumulatedPrecipitation: lengthUnits,
	Mass:                     massUnits,
	Pressure:                 pressureUnits,
	Volume:                   volumeUnits,
	WindSpeed:                speedUnits,
	Temperature:              temperatureUnits,
}

// IsValid reports whether unit belongs to category's valid set.
// Unknown categories are never valid.
func IsValid(unit Unit, category Category) bool {
	set, ok := validUnits[category]
	if !ok {
		return false
	}
	_, ok = set[unit]
	return ok
}
