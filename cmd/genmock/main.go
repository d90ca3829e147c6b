// Command genmock generates mock reading fixtures for the normalizer test
// suites. It runs the actual domain normalization so the normalized output
// matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -system metric \
//	  -raw-out data/mock/readings_240426_raw.json \
//	  -normalized-out data/mock/readings_240426_normalized.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/unit-normalizer-service/internal/adapter/unitconv"
	"github.com/couchcryptid/unit-normalizer-service/internal/domain"
	"github.com/couchcryptid/unit-normalizer-service/internal/units"
)

var baseDate = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

// seed describes one raw reading to generate. Values are spread across both
// unit families so the fixtures exercise every conversion direction.
type seed struct {
	station  string
	category string
	value    float64
	unit     string
	minute   int
}

var seeds = []seed{
	{"KOKC", "temperature", 68, "°F", 0},
	{"KOKC", "wind_speed", 35, "mph", 0},
	{"KOKC", "pressure", 29.92, "inHg", 0},
	{"KOKC", "accumulated_precipitation", 1.25, "in", 0},
	{"KTUL", "temperature", 21.5, "°C", 5},
	{"KTUL", "wind_speed", 12, "m/s", 5},
	{"KTUL", "pressure", 1013.25, "hPa", 5},
	{"KTUL", "accumulated_precipitation", 31, "mm", 5},
	{"KDFW", "temperature", 294.15, "K", 10},
	{"KDFW", "length", 3, "mi", 10},
	{"KDFW", "volume", 2.5, "gal", 10},
	{"KDFW", "mass", 453, "g", 10},
	{"KAMA", "wind_speed", 18, "kn", 15},
	{"KAMA", "pressure", 14.7, "psi", 15},
	{"KAMA", "length", 1200, "m", 15},
	{"KAMA", "volume", 750, "mL", 15},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	systemKey := flag.String("system", units.KeyMetric, "target unit system key")
	rawOut := flag.String("raw-out", "", "output path for raw readings JSON fixture")
	normalizedOut := flag.String("normalized-out", "", "output path for normalized readings JSON fixture")
	flag.Parse()

	if *rawOut == "" || *normalizedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -normalized-out")
	}

	key, err := units.ValidateKey(*systemKey)
	if err != nil {
		return err
	}
	sys, err := units.Get(key)
	if err != nil {
		return err
	}

	units.SetConverters(unitconv.Default())

	// Set a fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 26, 18, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	rawReadings := make([]map[string]any, 0, len(seeds))
	normalized := make([]domain.NormalizedReading, 0, len(seeds))

	for _, s := range seeds {
		raw := map[string]any{
			"station_id":  s.station,
			"category":    s.category,
			"value":       s.value,
			"unit":        s.unit,
			"observed_at": baseDate.Add(time.Duration(s.minute) * time.Minute).Format(time.RFC3339),
			"source":      "mock",
		}
		rawReadings = append(rawReadings, raw)

		payload, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("marshal seed: %w", err)
		}

		// Run the actual normalization.
		reading, err := domain.ParseRawReading(domain.RawEvent{Value: payload, Timestamp: baseDate})
		if err != nil {
			return fmt.Errorf("parse %s/%s: %w", s.station, s.category, err)
		}
		result, err := domain.NormalizeReading(sys, reading)
		if err != nil {
			return fmt.Errorf("normalize %s/%s: %w", s.station, s.category, err)
		}
		normalized = append(normalized, result)
	}

	if err := writeJSON(*rawOut, rawReadings); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s (%d readings)", *rawOut, len(rawReadings))

	if err := writeJSON(*normalizedOut, normalized); err != nil {
		return fmt.Errorf("writing normalized fixture: %w", err)
	}
	log.Printf("wrote normalized fixture: %s (%d readings)", *normalizedOut, len(normalized))

	printStats(key, normalized)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(systemKey string, readings []domain.NormalizedReading) {
	categoryCounts := map[units.Category]int{}
	stationCounts := map[string]int{}
	unitCounts := map[units.Unit]int{}
	converted := 0
	for i := range readings {
		r := &readings[i]
		categoryCounts[r.Category]++
		stationCounts[r.StationID]++
		unitCounts[r.Unit]++
		if r.Unit != r.OriginalUnit {
			converted++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d (system=%s)\n", len(readings), systemKey)
	fmt.Printf("Converted (unit changed): %d\n", converted)
	fmt.Print("By category:")
	for cat, n := range categoryCounts {
		fmt.Printf(" %s=%d", cat, n)
	}
	fmt.Println()
	fmt.Print("By station:")
	for station, n := range stationCounts {
		fmt.Printf(" %s=%d", station, n)
	}
	fmt.Println()
	fmt.Print("Target units:")
	for unit, n := range unitCounts {
		fmt.Printf(" %s=%d", unit, n)
	}
	fmt.Println()
}
