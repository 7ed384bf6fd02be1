package domain

import (
	"fmt"
	"strings"
)

// SeverityBand is the display class of a battery level
type SeverityBand int

const (
	BandNormal SeverityBand = iota
	BandWarning
	BandCritical
)

const (
	// DefaultWarningLevel is the highest level still shown as a warning
	DefaultWarningLevel = 50
	// DefaultCriticalLevel is the highest level shown as critical
	DefaultCriticalLevel = 20
)

// String returns the lower-case band name
func (b SeverityBand) String() string {
	switch b {
	case BandNormal:
		return "normal"
	case BandWarning:
		return "warning"
	case BandCritical:
		return "critical"
	}
	return fmt.Sprintf("band(%d)", int(b))
}

// MarshalText encodes the band by name
func (b SeverityBand) MarshalText() ([]byte, error) {
	switch b {
	case BandNormal, BandWarning, BandCritical:
		return []byte(b.String()), nil
	}
	return nil, fmt.Errorf("unknown severity band %d", int(b))
}

// UnmarshalText decodes a band name, case-insensitively
func (b *SeverityBand) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "normal":
		*b = BandNormal
	case "warning":
		*b = BandWarning
	case "critical":
		*b = BandCritical
	default:
		return fmt.Errorf("unknown severity band %q", text)
	}
	return nil
}

// Thresholds are the classification boundaries, both inclusive upper bounds
type Thresholds struct {
	Warning  int
	Critical int
}

// DefaultThresholds returns the 50/20 split used by the dashboard
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: DefaultWarningLevel, Critical: DefaultCriticalLevel}
}

// Validate checks 1 <= Critical < Warning <= 100
func (t Thresholds) Validate() error {
	if t.Critical < MinLevel || t.Warning > MaxLevel || t.Critical >= t.Warning {
		return fmt.Errorf("%w: critical=%d warning=%d", ErrInvalidThresholds, t.Critical, t.Warning)
	}
	return nil
}

// Classify assigns level to a band using t
func (t Thresholds) Classify(level int) SeverityBand {
	return Classify(level, t.Warning, t.Critical)
}

// Classify is total: anything at or below critical is critical, anything at or
// below warning is a warning, the rest is normal
func Classify(level, warning, critical int) SeverityBand {
	if level <= critical {
		return BandCritical
	}
	if level <= warning {
		return BandWarning
	}
	return BandNormal
}
