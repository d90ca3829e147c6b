package units

// Choices selects one unit per measurement category for a unit system.
type Choices struct {
	Temperature              Unit
	Length                   Unit
	WindSpeed                Unit
	Volume                   Unit
	Mass                     Unit
	Pressure                 Unit
	AccumulatedPrecipitation Unit
}

// UnitSystem is an immutable bundle of preferred units, one per category.
// Construct with New; never mutated afterwards, so the canonical instances
// are safe to share across any number of goroutines.
type UnitSystem struct {
	name string

	temperatureUnit              Unit
	lengthUnit                   Unit
	massUnit                     Unit
	pressureUnit                 Unit
	volumeUnit                   Unit
	windSpeedUnit                Unit
	accumulatedPrecipitationUnit Unit
}

// New validates every chosen unit against its category's closed set and
// returns the bundle. Validation never short-circuits: if any unit is
// invalid the returned *InvalidUnitsError lists them all and no bundle
// is produced.
func New(name string, choices Choices) (*UnitSystem, error) {
	pairs := []struct {
		unit     Unit
		category Category
	}{
		{choices.AccumulatedPrecipitation, AccumulatedPrecipitation},
		{choices.Temperature, Temperature},
		{choices.Length, Length},
		{choices.WindSpeed, WindSpeed},
		{choices.Volume, Volume},
		{choices.Mass, Mass},
		{choices.Pressure, Pressure},
	}

	var invalid []InvalidUnit
	for _, p := range pairs {
		if !IsValid(p.unit, p.category) {
			invalid = append(invalid, InvalidUnit{Unit: p.unit, Category: p.category})
		}
	}
	if len(invalid) > 0 {
		return nil, &InvalidUnitsError{Units: invalid}
	}

	return &UnitSystem{
		name:                         name,
		temperatureUnit:              choices.Temperature,
		lengthUnit:                   choices.Length,
		massUnit:                     choices.Mass,
		pressureUnit:                 choices.Pressure,
		volumeUnit:                   choices.Volume,
		windSpeedUnit:                choices.WindSpeed,
		accumulatedPrecipitationUnit: choices.AccumulatedPrecipitation,
	}, nil
}

// Temperature converts value from the given unit to this system's
// temperature unit.
func (s *UnitSystem) Temperature(value any, from Unit) (float64, error) {
	return convert(converters.Temperature, Temperature, value, from, s.temperatureUnit)
}

// Length converts value from the given unit to this system's length unit.
func (s *UnitSystem) Length(value any, from Unit) (float64, error) {
	return convert(converters.Distance, Length, value, from, s.lengthUnit)
}

// AccumulatedPrecipitation converts value from the given unit to this
// system's precipitation unit. Precipitation units are length units, so
// the distance converter handles the math.
func (s *UnitSystem) AccumulatedPrecipitation(value any, from Unit) (float64, error) {
	return convert(converters.Distance, AccumulatedPrecipitation, value, from, s.accumulatedPrecipitationUnit)
}

// Pressure converts value from the given unit to this system's pressure unit.
func (s *UnitSystem) Pressure(value any, from Unit) (float64, error) {
	return convert(converters.Pressure, Pressure, value, from, s.pressureUnit)
}

// WindSpeed converts value from the given unit to this system's wind speed unit.
func (s *UnitSystem) WindSpeed(value any, from Unit) (float64, error) {
	return convert(converters.Speed, WindSpeed, value, from, s.windSpeedUnit)
}

// Volume converts value from the given unit to this system's volume unit.
func (s *UnitSystem) Volume(value any, from Unit) (float64, error) {
	return convert(converters.Volume, Volume, value, from, s.volumeUnit)
}

// AsMap returns the chosen unit for every category. The map is freshly
// allocated on each call; callers may modify it freely.
func (s *UnitSystem) AsMap() map[Category]Unit {
	return map[Category]Unit{
		Length:                   s.lengthUnit,
		AccumulatedPrecipitation: s.accumulatedPrecipitationUnit,
		Mass:                     s.massUnit,
		Pressure:                 s.pressureUnit,
		Temperature:              s.temperatureUnit,
		Volume:                   s.volumeUnit,
		WindSpeed:                s.windSpeedUnit,
	}
}

// Name returns the unit system's name tag. The US customary system
// reports its legacy name "imperial" so old consumers keep working.
//
// Deprecated: compare against MetricSystem or USCustomarySystem directly.
func (s *UnitSystem) Name() string {
	reporter.Report("unit system accessed through the deprecated Name accessor; compare instances instead")
	if s == ImperialSystem {
		// kept for compatibility with consumers that still expect "imperial"
		return KeyImperial
	}
	return s.name
}

// IsMetric reports whether this is the canonical metric system.
//
// Deprecated: compare against MetricSystem directly.
func (s *UnitSystem) IsMetric() bool {
	reporter.Report("unit system accessed through the deprecated IsMetric accessor; compare instances instead")
	return s == MetricSystem
}
