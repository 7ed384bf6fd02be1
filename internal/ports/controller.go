package ports

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/TuliEscobar/prueba-trakii/internal/domain"
	"github.com/TuliEscobar/prueba-trakii/internal/metrics"
)

const (
	statusSimulated    = "simulated"
	statusDisconnected = "disconnected"

	minSweepPeriod = time.Second
)

// ControllerConfig holds the session parameters
type ControllerConfig struct {
	Thresholds      domain.Thresholds
	UpdateInterval  time.Duration
	HistoryCapacity int
	Ramp            domain.Ramp
	AutoUpdate      bool

	// Retention bounds the reading log; zero disables the sweep
	Retention time.Duration
}

// Option configures optional collaborators of a Controller
type Option func(*Controller)

// WithRenderer draws every snapshot with r
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithSinks publishes every reading to sinks
func WithSinks(sinks ...ReadingSink) Option {
	return func(c *Controller) { c.sinks = append(c.sinks, sinks...) }
}

// WithGeocoder resolves device locations to addresses
func WithGeocoder(g Geocoder) Option {
	return func(c *Controller) { c.geocoder = g }
}

// WithMetrics records cycle metrics into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// Controller owns one dashboard session: the generator, the history ring and
// the auto-update timer. Manual refreshes and timer ticks may overlap; history
// updates are applied in completion order, so the last cycle to finish owns
// the front slot even if it started first.
type Controller struct {
	id        string
	cfg       ControllerConfig
	generator *Generator
	repo      domain.ReadingRepository

	renderer Renderer
	sinks    []ReadingSink
	geocoder Geocoder
	metrics  *metrics.Metrics

	mu        sync.Mutex
	history   *domain.History
	current   *domain.Reading
	device    *domain.DeviceInfo
	address   *domain.Address
	notices   []string
	baseCtx   context.Context
	stopTimer context.CancelFunc
	timerDone chan struct{}
}

// NewController creates a session with a seeded history. repo may be nil.
func NewController(cfg ControllerConfig, generator *Generator, repo domain.ReadingRepository, opts ...Option) (*Controller, error) {
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, err
	}
	if cfg.HistoryCapacity < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidCapacity, cfg.HistoryCapacity)
	}
	if cfg.UpdateInterval <= 0 {
		return nil, fmt.Errorf("update interval must be positive, got %v", cfg.UpdateInterval)
	}

	c := &Controller{
		id:        uuid.NewString(),
		cfg:       cfg,
		generator: generator,
		repo:      repo,
		history:   domain.SeedHistory(cfg.HistoryCapacity, cfg.Ramp),
		baseCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SessionID identifies this dashboard session
func (c *Controller) SessionID() string {
	return c.id
}

// Thresholds returns the classification boundaries in use
func (c *Controller) Thresholds() domain.Thresholds {
	return c.cfg.Thresholds
}

// Repository returns the reading log, or nil
func (c *Controller) Repository() domain.ReadingRepository {
	return c.repo
}

// Run refreshes once, starts auto-update if configured, and blocks until
// ctx is cancelled
func (c *Controller) Run(ctx context.Context) {
	log.Info().
		Str("session", c.id).
		Dur("interval", c.cfg.UpdateInterval).
		Int("capacity", c.cfg.HistoryCapacity).
		Bool("telemetry", c.generator.HasTelemetry()).
		Msg("starting dashboard session")

	c.mu.Lock()
	c.baseCtx = ctx
	c.mu.Unlock()

	// Refresh immediately on start
	c.Refresh(ctx)

	if c.cfg.AutoUpdate {
		c.StartAutoUpdate()
	}

	var sweep <-chan time.Time
	if c.repo != nil && c.cfg.Retention > 0 {
		cleanupTicker := time.NewTicker(max(c.cfg.Retention/2, minSweepPeriod))
		defer cleanupTicker.Stop()
		sweep = cleanupTicker.C
	}

	for {
		select {
		case <-sweep:
			if err := c.repo.DeleteOldReadings(ctx, c.cfg.Retention); err != nil {
				log.Error().Err(err).Msg("failed to delete old readings")
			} else {
				log.Debug().Dur("retention", c.cfg.Retention).Msg("deleted expired readings")
			}

		case <-ctx.Done():
			c.StopAutoUpdate()
			log.Info().Str("session", c.id).Msg("stopping dashboard session")
			return
		}
	}
}

// StartAutoUpdate starts the interval timer. It returns false when the timer
// was already running or the session has ended.
func (c *Controller) StartAutoUpdate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopTimer != nil || c.baseCtx.Err() != nil {
		return false
	}

	ctx, cancel := context.WithCancel(c.baseCtx)
	done := make(chan struct{})
	c.stopTimer = cancel
	c.timerDone = done
	go c.tick(ctx, done)

	c.metrics.SetAutoUpdate(true)
	log.Info().Dur("interval", c.cfg.UpdateInterval).Msg("auto-update started")
	return true
}

// StopAutoUpdate cancels the timer and waits for its goroutine to exit. It
// returns false when the timer was not running.
func (c *Controller) StopAutoUpdate() bool {
	c.mu.Lock()
	cancel, done := c.stopTimer, c.timerDone
	c.stopTimer, c.timerDone = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return false
	}
	cancel()
	<-done

	c.metrics.SetAutoUpdate(false)
	log.Info().Msg("auto-update stopped")
	return true
}

// AutoUpdating reports whether the timer is running
func (c *Controller) AutoUpdating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopTimer != nil
}

func (c *Controller) tick(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.cfg.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Refresh runs one generate/classify/update cycle and returns the resulting
// snapshot. A cycle whose context is cancelled before it completes is
// discarded.
func (c *Controller) Refresh(ctx context.Context) Snapshot {
	start := time.Now()

	gen := c.generator.Next(ctx)
	var notices []string
	if gen.Fallback {
		c.metrics.ObserveFallback()
		notices = append(notices, fmt.Sprintf("telemetry unavailable, showing simulated level: %v", gen.Err))
	}

	device, address, deviceNotices := c.refreshDevice(ctx)
	notices = append(notices, deviceNotices...)

	if ctx.Err() != nil {
		log.Debug().Err(ctx.Err()).Msg("discarding cancelled cycle")
		return c.Snapshot()
	}

	reading := gen.Reading
	band := c.cfg.Thresholds.Classify(reading.Level)

	c.mu.Lock()
	c.history.Push(reading.Level)
	c.current = reading
	if device != nil || c.generator.HasTelemetry() {
		c.device = device
	}
	if address != nil {
		c.address = address
	}
	c.notices = notices
	snap := c.snapshotLocked()
	c.mu.Unlock()

	log.Info().
		Int("level", reading.Level).
		Str("band", band.String()).
		Str("source", string(reading.Source)).
		Bool("synthetic", reading.IsSynthetic()).
		Msg("recorded battery level")

	c.record(ctx, reading)
	c.publish(ctx, ReadingEvent{
		SessionID: c.id,
		Level:     reading.Level,
		Band:      band,
		Source:    reading.Source,
		Timestamp: reading.Timestamp,
	})

	if c.renderer != nil {
		if err := c.renderer.Render(ctx, snap); err != nil {
			log.Error().Err(err).Msg("failed to render dashboard")
		}
	}

	c.metrics.ObserveReading(reading.Level, band.String(), string(reading.Source))
	c.metrics.ObserveCycle(time.Since(start))
	return snap
}

// Snapshot returns the current dashboard state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:    c.id,
		History:      c.history.Renderable(c.cfg.Thresholds),
		Capacity:     c.history.Cap(),
		DeviceStatus: statusSimulated,
		Device:       c.device,
		Address:      c.address,
		AutoUpdate:   c.stopTimer != nil,
		Notices:      append([]string(nil), c.notices...),
	}

	if c.current != nil {
		snap.Level = c.current.Level
		snap.Source = c.current.Source
		snap.UpdatedAt = c.current.Timestamp
	} else if latest, ok := c.history.Latest(); ok {
		snap.Level = latest
		snap.Source = domain.SourceSynthetic
	}
	snap.Band = c.cfg.Thresholds.Classify(snap.Level)

	if c.device != nil {
		snap.DeviceStatus = c.device.Status
	} else if c.generator.HasTelemetry() {
		snap.DeviceStatus = statusDisconnected
	}
	return snap
}

// refreshDevice fetches device details and, when a geocoder is configured,
// the address of the reported location. Failures become notices.
func (c *Controller) refreshDevice(ctx context.Context) (*domain.DeviceInfo, *domain.Address, []string) {
	source := c.generator.Source()
	if source == nil {
		return nil, nil, nil
	}

	var notices []string
	info, err := source.DeviceInfo(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch device info")
		return nil, nil, append(notices, fmt.Sprintf("device info unavailable: %v", err))
	}

	if c.geocoder == nil || info.Location == nil {
		return &info, nil, nil
	}

	addr, err := c.geocoder.Reverse(ctx, info.Location.Latitude, info.Location.Longitude)
	if err != nil {
		log.Warn().Err(err).
			Float64("lat", info.Location.Latitude).
			Float64("lon", info.Location.Longitude).
			Msg("failed to resolve address")
		return &info, nil, append(notices, fmt.Sprintf("address unavailable: %v", err))
	}
	return &info, &addr, nil
}

func (c *Controller) record(ctx context.Context, reading *domain.Reading) {
	if c.repo == nil {
		return
	}
	if err := c.repo.SaveReading(ctx, reading); err != nil {
		log.Error().Err(err).Msg("failed to save reading")
	}
}

func (c *Controller) publish(ctx context.Context, event ReadingEvent) {
	for _, sink := range c.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			c.metrics.ObserveSinkError(sink.Name())
			log.Error().Err(err).Str("sink", sink.Name()).Msg("failed to publish reading")
		}
	}
}
