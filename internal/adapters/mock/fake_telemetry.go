package mock

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
)

// Home position of the simulated tracker (Mexico City)
const (
	DefaultLatitude  = 19.4326
	DefaultLongitude = -99.1332
)

// FakeTelemetry simulates a tracker device for development
// This implements the ports.TelemetrySource interface
type FakeTelemetry struct {
	info        domain.DeviceInfo
	failureRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewFakeTelemetry creates a device whose battery reads uniformly in 0..100
// and whose reads fail with probability failureRate
func NewFakeTelemetry(failureRate float64, seed int64) *FakeTelemetry {
	return &FakeTelemetry{
		info: domain.DeviceInfo{
			DeviceID:        "TRAKII-001",
			SerialNumber:    "SN-78956423",
			Model:           "Tracker GPS Pro",
			FirmwareVersion: "1.2.5",
			Status:          "Active",
		},
		failureRate: failureRate,
		rnd:         rand.New(rand.NewSource(seed)),
	}
}

// ReadBattery returns a random level with a coarse status.
// The level may be 0; consumers clamp it.
func (f *FakeTelemetry) ReadBattery(ctx context.Context) (domain.BatteryReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.BatteryReport{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rnd.Float64() < f.failureRate {
		return domain.BatteryReport{}, fmt.Errorf("simulated outage: %w", domain.ErrTelemetryUnavailable)
	}

	level := f.rnd.Intn(101)
	return domain.BatteryReport{
		Level:     level,
		Status:    ReportStatus(level),
		Timestamp: time.Now(),
	}, nil
}

// DeviceInfo returns the fixed identity with a location jittered around home
func (f *FakeTelemetry) DeviceInfo(ctx context.Context) (domain.DeviceInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.DeviceInfo{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	info := f.info
	info.LastReport = time.Now()
	info.Location = &domain.Location{
		Latitude:  DefaultLatitude + (f.rnd.Float64()-0.5)*0.005,
		Longitude: DefaultLongitude + (f.rnd.Float64()-0.5)*0.005,
		Accuracy:  5 + f.rnd.Intn(10),
	}
	return info, nil
}

// Close is a no-op for fake telemetry
func (f *FakeTelemetry) Close() error {
	return nil
}

// ReportStatus is the device's own coarse battery status, which uses
// different cut-offs than the dashboard's classifier
func ReportStatus(level int) string {
	switch {
	case level < 20:
		return "critical"
	case level < 40:
		return "warning"
	}
	return "normal"
}
