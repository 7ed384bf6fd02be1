package ports

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
)

// Generation is the outcome of one Generator.Next call
type Generation struct {
	Reading *domain.Reading

	// Fallback is set when a telemetry source exists but failed, so the
	// reading came from the random walk instead. Err holds the cause.
	Fallback bool
	Err      error
}

// Generator produces the next battery level, from telemetry when a source
// is configured and from the random walk otherwise or on failure.
// It is the only writer of the previous level.
type Generator struct {
	source TelemetrySource
	walk   domain.Walk

	mu      sync.Mutex
	rnd     domain.Float64Source
	current int
}

// NewGenerator creates a generator starting from a full battery.
// source may be nil for a purely synthetic dashboard.
func NewGenerator(source TelemetrySource, walk domain.Walk, rnd domain.Float64Source) *Generator {
	return &Generator{
		source:  source,
		walk:    walk,
		rnd:     rnd,
		current: domain.MaxLevel,
	}
}

// HasTelemetry reports whether a telemetry source is configured
func (g *Generator) HasTelemetry() bool {
	return g.source != nil
}

// Source returns the configured telemetry source, or nil
func (g *Generator) Source() TelemetrySource {
	return g.source
}

// Current returns the last generated level
func (g *Generator) Current() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Next never fails: telemetry errors are absorbed by walking from the last
// known level
func (g *Generator) Next(ctx context.Context) Generation {
	if g.source == nil {
		return Generation{Reading: g.step()}
	}

	// The fetch runs without the lock so a slow source doesn't block readers
	report, err := g.source.ReadBattery(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("telemetry read failed, falling back to random walk")
		return Generation{Reading: g.step(), Fallback: true, Err: err}
	}

	level := domain.ClampLevel(report.Level)
	if level != report.Level {
		log.Debug().Int("reported", report.Level).Int("level", level).Msg("clamped telemetry level")
	}

	g.mu.Lock()
	g.current = level
	g.mu.Unlock()

	reading := &domain.Reading{Level: level, Source: domain.SourceTelemetry, Timestamp: report.Timestamp}
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now()
	}
	return Generation{Reading: reading}
}

func (g *Generator) step() *domain.Reading {
	g.mu.Lock()
	g.current = g.walk.Next(g.current, g.rnd)
	level := g.current
	g.mu.Unlock()

	return &domain.Reading{Level: level, Source: domain.SourceSynthetic, Timestamp: time.Now()}
}
