package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/unit-normalizer-service/internal/adapter/unitconv"
	"github.com/couchcryptid/unit-normalizer-service/internal/domain"
	"github.com/couchcryptid/unit-normalizer-service/internal/observability"
	"github.com/couchcryptid/unit-normalizer-service/internal/pipeline"
	"github.com/couchcryptid/unit-normalizer-service/internal/units"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawEvent
	index   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	i := int(m.index.Add(1) - 1)
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	failOn string
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.NormalizedReading, error) {
	var reading struct {
		StationID string  `json:"station_id"`
		Value     float64 `json:"value"`
	}
	if err := json.Unmarshal(raw.Value, &reading); err != nil {
		return domain.NormalizedReading{}, err
	}
	if m.failOn != "" && reading.StationID == m.failOn {
		return domain.NormalizedReading{}, errors.New("bad reading")
	}
	return domain.NormalizedReading{StationID: reading.StationID, Value: reading.Value}, nil
}

type mockLoader struct {
	loaded []domain.NormalizedReading
	err    error
}

func (m *mockLoader) LoadBatch(_ context.Context, readings []domain.NormalizedReading) error {
	if m.err != nil {
		return m.err
	}
	m.loaded = append(m.loaded, readings...)
	return nil
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func makeRawEvent(t *testing.T, stationID string, value float64) domain.RawEvent {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"station_id": stationID,
		"category":   "temperature",
		"value":      value,
		"unit":       "°F",
	})
	require.NoError(t, err)
	return domain.RawEvent{
		Key:   []byte(stationID),
		Value: data,
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	batch := []domain.RawEvent{
		makeRawEvent(t, "KOKC", 68),
		makeRawEvent(t, "KTUL", 72),
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{batch}}
	tfm := &mockTransformer{}
	ldr := &mockLoader{}

	p := pipeline.New(ext, tfm, ldr, slog.Default(), newTestMetrics(), 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ldr.loaded, 2)
	assert.Equal(t, "KOKC", ldr.loaded[0].StationID)
	assert.Equal(t, "KTUL", ldr.loaded[1].StationID)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ext := &mockExtractor{} // no batches, will block
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, slog.Default(), newTestMetrics(), 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_SkipsFailedReading(t *testing.T) {
	committed := make(map[string]bool)
	batch := []domain.RawEvent{
		makeRawEvent(t, "KOKC", 68),
		makeRawEvent(t, "BROKEN", 0),
		makeRawEvent(t, "KTUL", 72),
	}
	for i := range batch {
		id := string(batch[i].Key)
		batch[i].Commit = func(_ context.Context) error {
			committed[id] = true
			return nil
		}
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{batch}}
	tfm := &mockTransformer{failOn: "BROKEN"}
	ldr := &mockLoader{}
	metrics := newTestMetrics()

	p := pipeline.New(ext, tfm, ldr, slog.Default(), metrics, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)

	// Good readings load, the poison one is skipped but still committed so
	// it is not redelivered forever.
	require.Len(t, ldr.loaded, 2)
	assert.True(t, committed["KOKC"])
	assert.True(t, committed["BROKEN"])
	assert.True(t, committed["KTUL"])
}

func TestPipeline_Run_DoesNotCommitOnLoadFailure(t *testing.T) {
	committed := false
	raw := makeRawEvent(t, "KOKC", 68)
	raw.Commit = func(_ context.Context) error {
		committed = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{err: errors.New("broker unavailable")}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 50)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	commitCalled := false
	raw := makeRawEvent(t, "KOKC", 68)
	raw.Topic = "transformed-weather-data"
	raw.Commit = func(_ context.Context) error {
		commitCalled = true
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{}

	p := pipeline.New(ext, &mockTransformer{}, ldr, slog.Default(), newTestMetrics(), 50)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := p.Run(ctx)
	require.NoError(t, err)
	assert.True(t, commitCalled)
}

func TestReadingTransformer_Transform(t *testing.T) {
	units.SetConverters(unitconv.Default())
	t.Cleanup(func() {
		units.SetConverters(units.Converters{})
	})

	sys, err := units.Get(units.KeyMetric)
	require.NoError(t, err)

	tfm := pipeline.NewTransformer(sys, slog.Default(), newTestMetrics())

	raw := makeRawEvent(t, "KOKC", 68)
	reading, err := tfm.Transform(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "KOKC", reading.StationID)
	assert.Equal(t, units.Temperature, reading.Category)
	assert.InDelta(t, 20.0, reading.Value, 1e-9)
	assert.Equal(t, units.Celsius, reading.Unit)
	assert.Equal(t, units.Fahrenheit, reading.OriginalUnit)
	assert.Equal(t, "metric", reading.UnitSystem)
}

func TestReadingTransformer_Transform_InvalidPayload(t *testing.T) {
	units.SetConverters(unitconv.Default())
	t.Cleanup(func() {
		units.SetConverters(units.Converters{})
	})

	sys, err := units.Get(units.KeyMetric)
	require.NoError(t, err)

	tfm := pipeline.NewTransformer(sys, slog.Default(), newTestMetrics())

	_, err = tfm.Transform(context.Background(), domain.RawEvent{Value: []byte("not json")})
	assert.Error(t, err)
}
