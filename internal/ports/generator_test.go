package ports

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
)

// stubTelemetry returns queued levels, or err when set
type stubTelemetry struct {
	mu     sync.Mutex
	levels []int
	err    error
	info   domain.DeviceInfo
	infErr error
	calls  int
}

func (s *stubTelemetry) ReadBattery(ctx context.Context) (domain.BatteryReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return domain.BatteryReport{}, s.err
	}
	level := s.levels[0]
	if len(s.levels) > 1 {
		s.levels = s.levels[1:]
	}
	return domain.BatteryReport{Level: level}, nil
}

func (s *stubTelemetry) DeviceInfo(ctx context.Context) (domain.DeviceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info, s.infErr
}

func (s *stubTelemetry) Close() error { return nil }

func (s *stubTelemetry) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// constSource always yields the same variate
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func TestGenerator_SyntheticStaysInRange(t *testing.T) {
	g := NewGenerator(nil, domain.DefaultWalk(), rand.New(rand.NewSource(7)))
	assert.Equal(t, 100, g.Current())
	assert.False(t, g.HasTelemetry())

	for i := 0; i < 1000; i++ {
		gen := g.Next(context.Background())
		require.NotNil(t, gen.Reading)
		assert.False(t, gen.Fallback)
		assert.Equal(t, domain.SourceSynthetic, gen.Reading.Source)
		assert.GreaterOrEqual(t, gen.Reading.Level, domain.MinLevel)
		assert.LessOrEqual(t, gen.Reading.Level, domain.MaxLevel)
		assert.Equal(t, gen.Reading.Level, g.Current())
	}
}

func TestGenerator_UsesTelemetry(t *testing.T) {
	src := &stubTelemetry{levels: []int{73}}
	g := NewGenerator(src, domain.DefaultWalk(), constSource(0.5))

	gen := g.Next(context.Background())
	require.NoError(t, gen.Err)
	assert.False(t, gen.Fallback)
	assert.Equal(t, 73, gen.Reading.Level)
	assert.Equal(t, domain.SourceTelemetry, gen.Reading.Source)
	assert.Equal(t, 73, g.Current())
}

func TestGenerator_ClampsTelemetry(t *testing.T) {
	src := &stubTelemetry{levels: []int{0, 140}}
	g := NewGenerator(src, domain.DefaultWalk(), constSource(0.5))

	assert.Equal(t, 1, g.Next(context.Background()).Reading.Level)
	assert.Equal(t, 100, g.Next(context.Background()).Reading.Level)
}

func TestGenerator_FallbackWalksFromLastObserved(t *testing.T) {
	src := &stubTelemetry{levels: []int{60}}
	// 0.5 selects the downward branch with a drop of floor(0.5*8) = 4
	g := NewGenerator(src, domain.DefaultWalk(), constSource(0.5))

	first := g.Next(context.Background())
	require.Equal(t, 60, first.Reading.Level)

	src.fail(errors.New("connection refused"))
	second := g.Next(context.Background())
	assert.True(t, second.Fallback)
	assert.Error(t, second.Err)
	assert.Equal(t, domain.SourceSynthetic, second.Reading.Source)
	assert.Equal(t, 56, second.Reading.Level)

	third := g.Next(context.Background())
	assert.Equal(t, 52, third.Reading.Level)
}

func TestGenerator_TelemetryTimestamp(t *testing.T) {
	ts := time.Date(2024, 5, 2, 15, 4, 5, 0, time.UTC)
	src := &reportTelemetry{report: domain.BatteryReport{Level: 40, Timestamp: ts}}
	g := NewGenerator(src, domain.DefaultWalk(), constSource(0.5))

	gen := g.Next(context.Background())
	assert.True(t, gen.Reading.Timestamp.Equal(ts))
}

type reportTelemetry struct {
	stubTelemetry
	report domain.BatteryReport
}

func (r *reportTelemetry) ReadBattery(ctx context.Context) (domain.BatteryReport, error) {
	return r.report, nil
}
