package bloomsky

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/unit-normalizer-service/internal/observability"
)

const testAPIKey = "test-api-key"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string, intlUnits bool) *Client {
	c := NewClient(testAPIKey, 5*time.Second, intlUnits, testLogger(), observability.NewMetricsForTesting())
	c.baseURL = baseURL
	return c
}

func testDevice() Device {
	d := Device{
		DeviceID:   "dev-1",
		DeviceName: "Backyard",
	}
	d.Data.Temperature = 20.5
	d.Data.Pressure = 1013.2
	d.Data.Humidity = 55
	d.Data.TS = time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC).Unix()
	d.Storm.SustainedWindSpeed = 3.4
	d.Storm.RainDaily = 1.2
	return d
}

func TestClient_Devices_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.Header.Get("Authorization"))
		assert.Equal(t, "intl", r.URL.Query().Get("unit"))
		require.NoError(t, json.NewEncoder(w).Encode([]Device{testDevice()}))
	}))
	defer srv.Close()

	c := testClient(srv.URL, true)
	devices, err := c.Devices(context.Background())
	require.NoError(t, err)

	require.Len(t, devices, 1)
	assert.Equal(t, "dev-1", devices[0].DeviceID)
	assert.Equal(t, 20.5, devices[0].Data.Temperature)
	assert.Equal(t, 3.4, devices[0].Storm.SustainedWindSpeed)
}

func TestClient_Devices_USUnitsOmitsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("unit"))
		require.NoError(t, json.NewEncoder(w).Encode([]Device{}))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, false).Devices(context.Background())
	require.NoError(t, err)
}

func TestClient_Devices_InvalidAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, true).Devices(context.Background())
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestClient_Devices_NoDevicesConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	devices, err := testClient(srv.URL, true).Devices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestClient_Devices_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, true).Devices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Devices_CircuitOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, true)
	var lastErr error
	for i := 0; i < 10; i++ {
		_, lastErr = c.Devices(context.Background())
	}
	require.Error(t, lastErr)
	assert.Contains(t, lastErr.Error(), "circuit breaker is open")
}

func TestPoller_ExtractBatch_FansOutMeasurements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]Device{testDevice()}))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	p := NewPoller(testClient(srv.URL, true), clock, 5*time.Minute, testLogger())

	events, err := p.ExtractBatch(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, events, 4)

	var first struct {
		StationID  string  `json:"station_id"`
		Category   string  `json:"category"`
		Value      float64 `json:"value"`
		Unit       string  `json:"unit"`
		ObservedAt string  `json:"observed_at"`
		Source     string  `json:"source"`
	}
	require.NoError(t, json.Unmarshal(events[0].Value, &first))
	assert.Equal(t, "dev-1", first.StationID)
	assert.Equal(t, "temperature", first.Category)
	assert.Equal(t, 20.5, first.Value)
	assert.Equal(t, "°C", first.Unit)
	assert.Equal(t, "2024-04-26T15:00:00Z", first.ObservedAt)
	assert.Equal(t, "bloomsky", first.Source)

	assert.Equal(t, []byte("dev-1/temperature"), events[0].Key)
	assert.Equal(t, "Backyard", events[0].Headers["device_name"])
	assert.Equal(t, "bloomsky", events[0].Topic)

	categories := make([]string, 0, len(events))
	for _, e := range events {
		var r struct {
			Category string `json:"category"`
		}
		require.NoError(t, json.Unmarshal(e.Value, &r))
		categories = append(categories, r.Category)
	}
	assert.Equal(t, []string{"temperature", "pressure", "wind_speed", "accumulated_precipitation"}, categories)
}

func TestPoller_ExtractBatch_USUnits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]Device{testDevice()}))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	p := NewPoller(testClient(srv.URL, false), clock, 5*time.Minute, testLogger())

	events, err := p.ExtractBatch(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, events, 4)

	units := make([]string, 0, len(events))
	for _, e := range events {
		var r struct {
			Unit string `json:"unit"`
		}
		require.NoError(t, json.Unmarshal(e.Value, &r))
		units = append(units, r.Unit)
	}
	assert.Equal(t, []string{"°F", "inHg", "mph", "in"}, units)
}

func TestPoller_ExtractBatch_RespectsBatchSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]Device{testDevice(), testDevice()}))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	p := NewPoller(testClient(srv.URL, true), clock, 5*time.Minute, testLogger())

	events, err := p.ExtractBatch(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestPoller_ExtractBatch_ThrottlesBetweenPolls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode([]Device{testDevice()}))
	}))
	defer srv.Close()

	clock := clockwork.NewFakeClock()
	p := NewPoller(testClient(srv.URL, true), clock, 5*time.Minute, testLogger())

	_, err := p.ExtractBatch(context.Background(), 50)
	require.NoError(t, err)

	// The second call must wait out the poll interval before hitting the
	// API again; cancel instead of advancing the fake clock.
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.ExtractBatch(ctx, 50)
		done <- err
	}()

	clock.BlockUntil(1)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
