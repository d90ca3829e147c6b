// Command validate performs integrity checks across the mock reading
// fixtures: it verifies the raw fixture is well formed, re-runs the
// normalization over it, and confirms the normalized fixture matches both
// the recomputed output and the target unit system.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -system metric \
//	  -raw-json data/mock/readings_240426_raw.json \
//	  -normalized-json data/mock/readings_240426_normalized.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/unit-normalizer-service/internal/adapter/unitconv"
	"github.com/couchcryptid/unit-normalizer-service/internal/domain"
	"github.com/couchcryptid/unit-normalizer-service/internal/units"
)

var baseDate = time.Date(2024, time.April, 26, 0, 0, 0, 0, time.UTC)

// rawFixture mirrors the collector JSON shape used in the raw fixture file.
type rawFixture struct {
	StationID  string  `json:"station_id"`
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	ObservedAt string  `json:"observed_at"`
	Source     string  `json:"source"`
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	systemKey := flag.String("system", units.KeyMetric, "target unit system key")
	rawJSON := flag.String("raw-json", "", "path to raw readings JSON fixture")
	normalizedJSON := flag.String("normalized-json", "", "path to normalized readings JSON fixture")
	flag.Parse()

	if *rawJSON == "" || *normalizedJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*systemKey, *rawJSON, *normalizedJSON); code != 0 {
		os.Exit(code)
	}
}

func run(systemKey, rawPath, normalizedPath string) int {
	key, err := units.ValidateKey(systemKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	sys, err := units.Get(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	units.SetConverters(unitconv.Default())

	// Set a fixed clock matching genmock for ProcessedAt reproducibility.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 26, 18, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Reading Fixture Integrity Validation ===")
	fmt.Println()

	raws, err := loadJSON[rawFixture](rawPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	normalized, err := loadJSON[domain.NormalizedReading](normalizedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load normalized JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRawIntegrity(raws),
		validateNormalization(sys, raws, normalized),
		validateTargetAlignment(sys, key, normalized),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d raw, %d normalized (system=%s)\n", len(raws), len(normalized), key)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Raw Integrity ──
// Validates required fields and that every unit belongs to its category.

func validateRawIntegrity(raws []rawFixture) *phase {
	p := &phase{name: "Phase 1: Raw Integrity"}

	for i, r := range raws {
		if r.StationID == "" {
			p.errorf("record %d: missing station_id", i)
		}
		if r.Category == "" {
			p.errorf("record %d: missing category", i)
			continue
		}
		if r.Unit == "" {
			p.errorf("record %d (%s): missing unit", i, r.Category)
			continue
		}
		if !units.IsValid(units.Unit(r.Unit), units.Category(r.Category)) {
			p.errorf("record %d: unit %q is not valid for category %q", i, r.Unit, r.Category)
		}
		if r.ObservedAt != "" {
			if _, err := time.Parse(time.RFC3339, r.ObservedAt); err != nil {
				p.errorf("record %d: observed_at %q is not RFC 3339", i, r.ObservedAt)
			}
		}
	}
	return p
}

// ── Phase 2: Normalization Correctness ──
// Re-runs the normalization over the raw fixture and compares it with the
// normalized fixture record by record.

func validateNormalization(sys *units.UnitSystem, raws []rawFixture, normalized []domain.NormalizedReading) *phase {
	p := &phase{name: "Phase 2: Normalization Correctness"}

	if len(raws) != len(normalized) {
		p.errorf("count mismatch: %d raw records, %d normalized records", len(raws), len(normalized))
		return p
	}

	byKey := map[string]*domain.NormalizedReading{}
	for i := range normalized {
		byKey[fixtureKey(normalized[i].StationID, string(normalized[i].Category), normalized[i].ObservedAt)] = &normalized[i]
	}

	for i, r := range raws {
		expected, err := renormalize(sys, r)
		if err != nil {
			p.errorf("record %d (%s/%s): %v", i, r.StationID, r.Category, err)
			continue
		}

		actual, ok := byKey[fixtureKey(expected.StationID, string(expected.Category), expected.ObservedAt)]
		if !ok {
			p.errorf("record %d: %s/%s@%s not found in normalized fixture",
				i, r.StationID, r.Category, r.ObservedAt)
			continue
		}

		compareReadings(p, expected, actual)
	}
	return p
}

func renormalize(sys *units.UnitSystem, r rawFixture) (domain.NormalizedReading, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return domain.NormalizedReading{}, fmt.Errorf("marshal: %w", err)
	}
	reading, err := domain.ParseRawReading(domain.RawEvent{Value: payload, Timestamp: baseDate})
	if err != nil {
		return domain.NormalizedReading{}, fmt.Errorf("parse: %w", err)
	}
	return domain.NormalizeReading(sys, reading)
}

func compareReadings(p *phase, expected domain.NormalizedReading, actual *domain.NormalizedReading) {
	id := fmt.Sprintf("%s/%s", expected.StationID, expected.Category)

	if !floatEq(actual.Value, expected.Value) {
		p.errorf("%s: value: expected %g, got %g", id, expected.Value, actual.Value)
	}
	if actual.Unit != expected.Unit {
		p.errorf("%s: unit: expected %q, got %q", id, expected.Unit, actual.Unit)
	}
	if !floatEq(actual.OriginalValue, expected.OriginalValue) {
		p.errorf("%s: original_value: expected %g, got %g", id, expected.OriginalValue, actual.OriginalValue)
	}
	if actual.OriginalUnit != expected.OriginalUnit {
		p.errorf("%s: original_unit: expected %q, got %q", id, expected.OriginalUnit, actual.OriginalUnit)
	}
	if actual.UnitSystem != expected.UnitSystem {
		p.errorf("%s: unit_system: expected %q, got %q", id, expected.UnitSystem, actual.UnitSystem)
	}
	if !actual.ObservedAt.Equal(expected.ObservedAt) {
		p.errorf("%s: observed_at: expected %s, got %s",
			id, expected.ObservedAt.Format(time.RFC3339), actual.ObservedAt.Format(time.RFC3339))
	}
	if actual.ProcessedAt.IsZero() {
		p.errorf("%s: processed_at is zero", id)
	}
}

// ── Phase 3: Target Alignment ──
// Every normalized reading must carry the unit its category uses in the
// target system. Mass is exempt: it passes through unconverted.

func validateTargetAlignment(sys *units.UnitSystem, key string, normalized []domain.NormalizedReading) *phase {
	p := &phase{name: "Phase 3: Target Alignment"}

	targets := sys.AsMap()
	for i := range normalized {
		r := &normalized[i]
		if r.UnitSystem != key {
			p.errorf("%s/%s: unit_system is %q (expected %q)", r.StationID, r.Category, r.UnitSystem, key)
		}
		if r.Category == units.Mass {
			continue
		}
		target, ok := targets[r.Category]
		if !ok {
			p.errorf("%s/%s: category not in target system", r.StationID, r.Category)
			continue
		}
		if r.Unit != target {
			p.errorf("%s/%s: unit is %q (system uses %q)", r.StationID, r.Category, r.Unit, target)
		}
	}
	return p
}

// ── Helpers ──

func fixtureKey(station, category string, observedAt time.Time) string {
	return station + "|" + category + "|" + observedAt.UTC().Format(time.RFC3339)
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
