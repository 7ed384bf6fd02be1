package ports

import (
	"context"
	"time"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
)

// TelemetrySource defines how to read the device's battery and details
// This is a PORT - adapters (HTTP client, Mock) will implement it
type TelemetrySource interface {
	// ReadBattery returns the device's current battery report
	ReadBattery(ctx context.Context) (domain.BatteryReport, error)

	// DeviceInfo returns the device's identity and connection status
	DeviceInfo(ctx context.Context) (domain.DeviceInfo, error)

	// Close releases any resources
	Close() error
}

// Geocoder turns coordinates into a postal address
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (domain.Address, error)
}

// Renderer draws a dashboard snapshot
type Renderer interface {
	Render(ctx context.Context, snap Snapshot) error
}

// ReadingSink receives every classified reading the dashboard produces
type ReadingSink interface {
	Name() string
	Publish(ctx context.Context, event ReadingEvent) error
	Close() error
}

// ReadingEvent is the payload published to sinks
type ReadingEvent struct {
	SessionID string              `json:"session_id"`
	Level     int                 `json:"level"`
	Band      domain.SeverityBand `json:"band"`
	Source    domain.Source       `json:"source"`
	Timestamp time.Time           `json:"timestamp"`
}

// Snapshot is everything a renderer needs to paint the dashboard
type Snapshot struct {
	SessionID    string                   `json:"session_id"`
	Level        int                      `json:"level"`
	Band         domain.SeverityBand      `json:"band"`
	Source       domain.Source            `json:"source"`
	UpdatedAt    time.Time                `json:"updated_at"`
	History      []domain.ClassifiedLevel `json:"history"`
	Capacity     int                      `json:"capacity"`
	DeviceStatus string                   `json:"device_status"`
	Device       *domain.DeviceInfo       `json:"device,omitempty"`
	Address      *domain.Address          `json:"address,omitempty"`
	AutoUpdate   bool                     `json:"auto_update"`
	Notices      []string                 `json:"notices,omitempty"`
}
