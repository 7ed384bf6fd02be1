package domain

import (
	"context"
	"time"
)

// ReadingRepository defines operations for logging/retrieving readings
// This is a PORT - the in-memory adapter implements it
type ReadingRepository interface {
	// SaveReading records a reading and assigns its ID
	SaveReading(ctx context.Context, reading *Reading) error

	// GetReading retrieves a specific reading by ID
	GetReading(ctx context.Context, id int64) (*Reading, error)

	// GetReadingsInRange retrieves all readings within time range.
	// Uses a half-open interval: inclusive start, exclusive end [start, end).
	GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*Reading, error)

	// GetLatestReading retrieves the most recent reading
	GetLatestReading(ctx context.Context) (*Reading, error)

	// DeleteOldReadings removes readings older than specified duration
	DeleteOldReadings(ctx context.Context, olderThan time.Duration) error
}

// Statistics summarizes a set of readings
type Statistics struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

// CalculateStatistics computes stats for a set of readings
func CalculateStatistics(readings []*Reading) Statistics {
	if len(readings) == 0 {
		return Statistics{}
	}

	sum := 0
	min := readings[0].Level
	max := readings[0].Level

	for _, r := range readings {
		sum += r.Level
		if r.Level < min {
			min = r.Level
		}
		if r.Level > max {
			max = r.Level
		}
	}

	return Statistics{
		Count:   len(readings),
		Average: float64(sum) / float64(len(readings)),
		Min:     min,
		Max:     max,
	}
}
