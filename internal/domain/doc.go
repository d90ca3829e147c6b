// Package domain models measurement readings flowing through the
// normalizer.
//
// # Data Source
//
// Readings arrive as flat JSON messages on the source Kafka topic,
// published by the platform's collector services (storm report collectors
// and weather station pollers). One message per measurement:
//
//	{
//	  "station_id":  "ks-topeka-0142",
//	  "category":    "temperature",
//	  "value":       68.4,
//	  "unit":        "°F",
//	  "observed_at": "2024-04-26T15:10:00Z",
//	  "source":      "bloomsky"
//	}
//
// # Conventions
//
// Category names are the unit-system category labels (temperature,
// length, mass, pressure, volume, wind_speed, accumulated_precipitation),
// compared case-insensitively. Units use the symbol forms from the units
// package ("°F", "mph", "hPa").
//
// observed_at is RFC 3339. Collectors occasionally omit or mangle it;
// the Kafka message timestamp is the fallback, mirroring how the storm
// ETL derives event dates from the collector's CSV filename date.
//
// value is normally a JSON number. Some legacy collectors quote values
// ("value": "68.4"); those are not parsed. A quoted value is a collector
// bug, and the reading is rejected with a type-mismatch error and skipped
// by the pipeline rather than silently coerced.
//
// # Normalization
//
// NormalizeReading re-expresses a reading in the configured unit system
// and stamps the original value and unit alongside the converted ones so
// downstream consumers can audit conversions. Mass is the one category
// without a conversion method; mass readings pass through with their
// source unit. ProcessedAt comes from the injectable package clock.
package domain
