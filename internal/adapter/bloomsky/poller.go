package bloomsky

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/unit-normalizer-service/internal/domain"
)

// measurement pairs a category with the unit the API reports it in.
type measurement struct {
	category string
	unit     string
	value    func(Device) float64
}

// Stations only update every 5-8 minutes, so the poller throttles itself
// rather than trusting callers to pace their ExtractBatch calls.
type Poller struct {
	client   *Client
	clock    clockwork.Clock
	interval time.Duration
	logger   *slog.Logger

	lastPoll     time.Time
	measurements []measurement
}

// NewPoller wraps a BloomSky client as a batch source of raw readings.
// Each station observation fans out into one reading per measurement the
// API exposes.
func NewPoller(client *Client, clock clockwork.Clock, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		client:       client,
		clock:        clock,
		interval:     interval,
		logger:       logger,
		measurements: measurementsFor(client.intlUnits),
	}
}

func measurementsFor(intlUnits bool) []measurement {
	temp, pressure, wind, rain := "°F", "inHg", "mph", "in"
	if intlUnits {
		temp, pressure, wind, rain = "°C", "mbar", "m/s", "mm"
	}
	return []measurement{
		{"temperature", temp, func(d Device) float64 { return d.Data.Temperature }},
		{"pressure", pressure, func(d Device) float64 { return d.Data.Pressure }},
		{"wind_speed", wind, func(d Device) float64 { return d.Storm.SustainedWindSpeed }},
		{"accumulated_precipitation", rain, func(d Device) float64 { return d.Storm.RainDaily }},
	}
}

// ExtractBatch polls the API once per interval and returns one raw event per
// station measurement. It blocks until the next poll is due or the context
// is cancelled.
func (p *Poller) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	if wait := p.interval - p.clock.Since(p.lastPoll); !p.lastPoll.IsZero() && wait > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.clock.After(wait):
		}
	}
	p.lastPoll = p.clock.Now()

	devices, err := p.client.Devices(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]domain.RawEvent, 0, len(devices)*len(p.measurements))
	for _, device := range devices {
		observedAt := time.Unix(device.Data.TS, 0).UTC()
		for _, m := range p.measurements {
			event, err := p.toRawEvent(device, m, observedAt)
			if err != nil {
				p.logger.Warn("skipping bloomsky measurement",
					"device_id", device.DeviceID, "category", m.category, "error", err)
				continue
			}
			events = append(events, event)
			if len(events) == batchSize {
				return events, nil
			}
		}
	}
	return events, nil
}

func (p *Poller) toRawEvent(device Device, m measurement, observedAt time.Time) (domain.RawEvent, error) {
	payload, err := json.Marshal(map[string]any{
		"station_id":  device.DeviceID,
		"category":    m.category,
		"value":       m.value(device),
		"unit":        m.unit,
		"observed_at": observedAt.Format(time.RFC3339),
		"source":      "bloomsky",
	})
	if err != nil {
		return domain.RawEvent{}, fmt.Errorf("marshal reading: %w", err)
	}
	return domain.RawEvent{
		Key:       []byte(device.DeviceID + "/" + m.category),
		Value:     payload,
		Headers:   map[string]string{"device_name": device.DeviceName},
		Topic:     "bloomsky",
		Timestamp: p.clock.Now(),
	}, nil
}
