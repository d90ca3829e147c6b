package bloomsky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/unit-normalizer-service/internal/observability"
)

// ErrInvalidAPIKey indicates the BloomSky API rejected the configured key.
var ErrInvalidAPIKey = errors.New("bloomsky: invalid API key")

// Device is one weather station as reported by the skydata endpoint.
// Field names follow the upstream API.
type Device struct {
	DeviceID   string `json:"DeviceID"`
	DeviceName string `json:"DeviceName"`
	UTC        int    `json:"UTC"`
	Data       struct {
		Temperature float64 `json:"Temperature"`
		Pressure    float64 `json:"Pressure"`
		Humidity    float64 `json:"Humidity"`
		TS          int64   `json:"TS"`
	} `json:"Data"`
	Storm struct {
		SustainedWindSpeed float64 `json:"SustainedWindSpeed"`
		RainDaily          float64 `json:"RainDaily"`
	} `json:"Storm"`
}

// Client talks to the BloomSky skydata API. Requests run through a circuit
// breaker so a flapping upstream does not keep a poll loop hammering it.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	intlUnits  bool
	circuit    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a BloomSky API client. When intlUnits is true the API is
// asked for international units (Celsius, millibars, meters per second,
// millimeters); otherwise it reports US units.
func NewClient(apiKey string, timeout time.Duration, intlUnits bool, logger *slog.Logger, metrics *observability.Metrics) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "bloomsky",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   "http://api.bloomsky.com/api/skydata",
		intlUnits: intlUnits,
		circuit:   cb,
		logger:    logger,
		metrics:   metrics,
	}
}

// Devices fetches the current observation for every station bound to the
// API key. A key with no registered stations yields an empty slice, not an
// error, matching the API's 405 behavior for that case.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	start := time.Now()
	result, err := c.circuit.Execute(func() (any, error) {
		return c.fetchDevices(ctx)
	})
	c.metrics.BloomskyAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.BloomskyRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	devices := result.([]Device)
	if len(devices) == 0 {
		c.metrics.BloomskyRequests.WithLabelValues("empty").Inc()
	} else {
		c.metrics.BloomskyRequests.WithLabelValues("success").Inc()
	}
	return devices, nil
}

func (c *Client) fetchDevices(ctx context.Context) ([]Device, error) {
	u := c.baseURL
	if c.intlUnits {
		u += "?unit=intl"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bloomsky request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrInvalidAPIKey
	case http.StatusMethodNotAllowed:
		// The API answers 405 when the key has no devices.
		c.logger.Warn("no bloomsky devices configured for this API key")
		return nil, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bloomsky API error: status %d: %s", resp.StatusCode, body)
	}

	var devices []Device
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return devices, nil
}
