package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
)

// Client reads a device's telemetry API over HTTP
// This implements the ports.TelemetrySource interface
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// batteryPayload mirrors GET /battery
type batteryPayload struct {
	Level     *int   `json:"level"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// devicePayload mirrors GET /device-info
type devicePayload struct {
	DeviceID        string           `json:"device_id"`
	SerialNumber    string           `json:"serial_number"`
	Model           string           `json:"model"`
	FirmwareVersion string           `json:"firmware_version"`
	Status          string           `json:"status"`
	LastReport      string           `json:"last_report"`
	Location        *domain.Location `json:"location"`
}

// ReadBattery fetches GET /battery
func (c *Client) ReadBattery(ctx context.Context) (domain.BatteryReport, error) {
	var payload batteryPayload
	if err := c.get(ctx, "/battery", &payload); err != nil {
		return domain.BatteryReport{}, err
	}
	if payload.Level == nil {
		return domain.BatteryReport{}, fmt.Errorf("battery response has no level: %w", domain.ErrTelemetryUnavailable)
	}

	return domain.BatteryReport{
		Level:     *payload.Level,
		Status:    payload.Status,
		Timestamp: parseTimestamp(payload.Timestamp),
	}, nil
}

// DeviceInfo fetches GET /device-info
func (c *Client) DeviceInfo(ctx context.Context) (domain.DeviceInfo, error) {
	var payload devicePayload
	if err := c.get(ctx, "/device-info", &payload); err != nil {
		return domain.DeviceInfo{}, err
	}

	return domain.DeviceInfo{
		DeviceID:        payload.DeviceID,
		SerialNumber:    payload.SerialNumber,
		Model:           payload.Model,
		FirmwareVersion: payload.FirmwareVersion,
		Status:          payload.Status,
		LastReport:      parseTimestamp(payload.LastReport),
		Location:        payload.Location,
	}, nil
}

// Close releases idle connections
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("GET %s: unexpected status %d: %w", path, resp.StatusCode, domain.ErrTelemetryUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Devices report either RFC 3339 or naive ISO 8601 local times
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts
		}
	}
	return time.Time{}
}
