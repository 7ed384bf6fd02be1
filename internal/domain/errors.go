package domain

import "errors"

var (
	// ErrInvalidLevel indicates a battery level outside 1-100
	ErrInvalidLevel = errors.New("battery level must be between 1 and 100")

	// ErrReadingNotFound indicates requested reading doesn't exist
	ErrReadingNotFound = errors.New("reading not found")

	// ErrTelemetryUnavailable indicates the telemetry source cannot be read
	ErrTelemetryUnavailable = errors.New("telemetry unavailable")

	// ErrInvalidThresholds indicates critical/warning levels are out of order or range
	ErrInvalidThresholds = errors.New("thresholds must satisfy 1 <= critical < warning <= 100")

	// ErrInvalidCapacity indicates a history capacity below 1
	ErrInvalidCapacity = errors.New("history capacity must be at least 1")
)
