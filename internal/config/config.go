package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/rs/zerolog"

	"github.com/TuliEscobar/prueba-trakii/internal/adapters/geocode"
	"github.com/TuliEscobar/prueba-trakii/internal/domain"
	"github.com/TuliEscobar/prueba-trakii/internal/ports"
)

// MockTelemetry selects the in-process simulated device instead of HTTP
const MockTelemetry = "mock"

var version = "<not set>"

// Config holds application configuration. Every field can be set by flag or
// environment variable; flags win.
type Config struct {
	HTTPPort string `arg:"--http-port,env:HTTP_PORT" help:"port of the JSON API"`
	GRPCPort string `arg:"--grpc-port,env:PORT" help:"port of the gRPC API"`

	WarningLevel    int           `arg:"--warning-level,env:WARNING_LEVEL" help:"highest level shown as a warning"`
	CriticalLevel   int           `arg:"--critical-level,env:CRITICAL_LEVEL" help:"highest level shown as critical"`
	UpdateInterval  time.Duration `arg:"--update-interval,env:UPDATE_INTERVAL" help:"time between automatic updates"`
	HistoryCapacity int           `arg:"--history,env:HISTORY_CAPACITY" help:"number of levels kept in the history"`
	RampStart       int           `arg:"--ramp-start,env:RAMP_START" help:"first value of the seeded history"`
	RampStep        int           `arg:"--ramp-step,env:RAMP_STEP" help:"decrement between seeded history values"`
	RampFloor       int           `arg:"--ramp-floor,env:RAMP_FLOOR" help:"lowest seeded history value"`
	ManualOnly      bool          `arg:"--manual,env:MANUAL_ONLY" help:"start with auto-update off"`
	Retention       time.Duration `arg:"--retention,env:RETENTION" help:"how long readings stay in the reading log"`

	TelemetryURL     string        `arg:"--telemetry-url,env:TELEMETRY_URL" help:"device API base URL, \"mock\" for a simulated device, empty for the random walk only"`
	TelemetryTimeout time.Duration `arg:"--telemetry-timeout,env:TELEMETRY_TIMEOUT" help:"timeout of each telemetry request"`
	MockFailureRate  float64       `arg:"--mock-failure-rate,env:MOCK_FAILURE_RATE" help:"probability a simulated device read fails"`

	GeocodingEnabled  bool   `arg:"--geocoding,env:GEOCODING_ENABLED" help:"resolve device locations to addresses"`
	GeocodingURL      string `arg:"--geocoding-url,env:GEOCODING_URL" help:"Nominatim reverse endpoint"`
	GeocodingLanguage string `arg:"--geocoding-language,env:GEOCODING_LANGUAGE" help:"Accept-Language for addresses"`

	KafkaBrokers []string `arg:"--kafka-brokers,env:KAFKA_BROKERS" help:"publish readings to these Kafka brokers"`
	KafkaTopic   string   `arg:"--kafka-topic,env:KAFKA_TOPIC" help:"Kafka topic for readings"`
	MQTTBroker   string   `arg:"--mqtt-broker,env:MQTT_BROKER" help:"publish readings to this MQTT broker"`
	MQTTTopic    string   `arg:"--mqtt-topic,env:MQTT_TOPIC" help:"MQTT topic root for readings"`

	TLSCert string `arg:"--tls-cert,env:TLS_CERT" help:"path to this service's certificate"`
	TLSKey  string `arg:"--tls-key,env:TLS_KEY" help:"path to this service's private key"`
	TLSCA   string `arg:"--tls-ca,env:TLS_CA" help:"path to the CA certificate for client auth"`

	Quiet    bool   `arg:"-q,--quiet,env:QUIET" help:"don't draw the dashboard on stdout"`
	LogLevel string `arg:"--log-level,env:LOG_LEVEL" help:"debug, info, warn or error"`
}

// Version is reported by --version
func (Config) Version() string {
	return version
}

// Default returns the configuration used when nothing is set
func Default() Config {
	ramp := domain.DefaultRamp()
	return Config{
		HTTPPort:          "8080",
		GRPCPort:          "50051",
		WarningLevel:      domain.DefaultWarningLevel,
		CriticalLevel:     domain.DefaultCriticalLevel,
		UpdateInterval:    5 * time.Second,
		HistoryCapacity:   20,
		RampStart:         ramp.Start,
		RampStep:          ramp.Step,
		RampFloor:         ramp.Floor,
		Retention:         24 * time.Hour,
		TelemetryTimeout:  3 * time.Second,
		GeocodingURL:      geocode.DefaultURL,
		GeocodingLanguage: "es",
		KafkaTopic:        "battery.readings",
		MQTTTopic:         "trakii/battery",
		LogLevel:          "info",
	}
}

// Parse reads args (without the program name) and the environment on top of
// the defaults. arg.ErrHelp and arg.ErrVersion are returned unchanged.
func Parse(args []string) (Config, *arg.Parser, error) {
	cfg := Default()
	p, err := arg.NewParser(arg.Config{Program: "batterymon"}, &cfg)
	if err != nil {
		return cfg, nil, err
	}
	if err := p.Parse(args); err != nil {
		return cfg, p, err
	}
	return cfg, p, cfg.Validate()
}

// Validate checks the values that would break the dashboard
func (c Config) Validate() error {
	var errs []error

	if err := c.Thresholds().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.HistoryCapacity < 1 {
		errs = append(errs, fmt.Errorf("%w: got %d", domain.ErrInvalidCapacity, c.HistoryCapacity))
	}
	if c.UpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("update interval must be positive, got %v", c.UpdateInterval))
	}
	if c.RampStep < 0 || c.RampFloor > c.RampStart {
		errs = append(errs, fmt.Errorf("ramp must descend: start=%d step=%d floor=%d", c.RampStart, c.RampStep, c.RampFloor))
	}
	if c.Retention < time.Second {
		errs = append(errs, fmt.Errorf("retention must be at least 1s, got %v", c.Retention))
	}
	if c.MockFailureRate < 0 || c.MockFailureRate > 1 {
		errs = append(errs, fmt.Errorf("mock failure rate must be within [0,1], got %v", c.MockFailureRate))
	}
	if c.TelemetryURL != "" && c.TelemetryURL != MockTelemetry {
		if u, err := url.Parse(c.TelemetryURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("telemetry url must be http(s), %q or empty: %q", MockTelemetry, c.TelemetryURL))
		}
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		errs = append(errs, errors.New("tls cert and key must be set together"))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}

	return errors.Join(errs...)
}

// Thresholds returns the classification boundaries
func (c Config) Thresholds() domain.Thresholds {
	return domain.Thresholds{Warning: c.WarningLevel, Critical: c.CriticalLevel}
}

// Ramp returns the history seed ramp
func (c Config) Ramp() domain.Ramp {
	return domain.Ramp{Start: c.RampStart, Step: c.RampStep, Floor: c.RampFloor}
}

// ControllerConfig returns the dashboard session parameters
func (c Config) ControllerConfig() ports.ControllerConfig {
	return ports.ControllerConfig{
		Thresholds:      c.Thresholds(),
		UpdateInterval:  c.UpdateInterval,
		HistoryCapacity: c.HistoryCapacity,
		Ramp:            c.Ramp(),
		AutoUpdate:      !c.ManualOnly,
		Retention:       c.Retention,
	}
}

// Level returns the parsed log level
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
