package domain

import (
	"time"
)

const (
	// MinLevel is the lowest battery percentage a reading can hold
	MinLevel = 1
	// MaxLevel is the highest battery percentage a reading can hold
	MaxLevel = 100
)

// Source tells where a reading came from
type Source string

const (
	SourceTelemetry Source = "telemetry"
	SourceSynthetic Source = "synthetic"
)

// Reading represents a single battery level sample
// This is pure domain logic - no HTTP, no gRPC, just business concepts
type Reading struct {
	ID        int64
	Level     int
	Source    Source
	Timestamp time.Time
}

// NewReading creates a new reading with validation
func NewReading(level int, source Source) (*Reading, error) {
	// Business rule: a reading is a percentage in [1,100]
	if level < MinLevel || level > MaxLevel {
		return nil, ErrInvalidLevel
	}

	return &Reading{
		Level:     level,
		Source:    source,
		Timestamp: time.Now(),
	}, nil
}

// ClampLevel forces level into [MinLevel, MaxLevel]
func ClampLevel(level int) int {
	return clamp(level, MinLevel, MaxLevel)
}

// Band classifies the reading against t
func (r *Reading) Band(t Thresholds) SeverityBand {
	return t.Classify(r.Level)
}

// IsSynthetic returns true if the reading was produced by the random walk
func (r *Reading) IsSynthetic() bool {
	return r.Source == SourceSynthetic
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
