// Package units models the measurement unit systems used across the
// weather data platform.
//
// # Unit Systems
//
// A unit system is an immutable bundle fixing one preferred unit per
// measurement category: temperature, length, mass, pressure, volume,
// wind speed, and accumulated precipitation. Two canonical systems exist
// for the life of the process:
//
//	metric:       °C, km, m/s, L, g, Pa, mm
//	us_customary: °F, mi, mph, gal, lb, psi, in
//
// "imperial" is a historical alias for the US customary system. It is the
// same instance (see [ImperialSystem]), never a separate bundle, and it is
// accepted only by [ValidateKey]; [Get] rejects it.
//
// # Unit Symbols
//
// Units use their conventional symbol forms ("mm", "°C", "m/s"). Each
// category's set is closed: constructing a system with a unit outside its
// category's set fails, and the error lists every invalid (unit, category)
// pair rather than only the first. Precipitation reuses the length
// symbols ("mm", "in") but is a distinct category because a system may
// measure rainfall in millimeters while measuring distance in kilometers.
//
// # Conversion
//
// Unit systems hold no conversion math. Each conversion method coerces
// its input to float64, rejecting non-numeric values before any converter
// runs, then delegates to the [Converter] installed for its category via
// [SetConverters]. There is no mass conversion method; mass readings keep
// their source unit. Accumulated precipitation delegates to the distance
// converter since its units are length units.
//
// # Deprecated Accessors
//
// [UnitSystem.Name] and [UnitSystem.IsMetric] predate instance
// comparison and survive only for old consumers. Every access emits a
// notice to the [Reporter] installed via [SetReporter]; the notice is
// fire-and-forget and the returned value is unaffected.
package units
