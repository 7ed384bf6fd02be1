package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/reflection"

	"github.com/TuliEscobar/prueba-trakii/internal/adapters/console"
	"github.com/TuliEscobar/prueba-trakii/internal/adapters/geocode"
	grpcAdapter "github.com/TuliEscobar/prueba-trakii/internal/adapters/grpc"
	"github.com/TuliEscobar/prueba-trakii/internal/adapters/httpapi"
	"github.com/TuliEscobar/prueba-trakii/internal/adapters/kafka"
	"github.com/TuliEscobar/prueba-trakii/internal/adapters/memory"
	"github.com/TuliEscobar/prueba-trakii/internal/adapters/mock"
	"github.com/TuliEscobar/prueba-trakii/internal/adapters/mqtt"
	"github.com/TuliEscobar/prueba-trakii/internal/adapters/telemetry"
	"github.com/TuliEscobar/prueba-trakii/internal/config"
	"github.com/TuliEscobar/prueba-trakii/internal/domain"
	"github.com/TuliEscobar/prueba-trakii/internal/metrics"
	"github.com/TuliEscobar/prueba-trakii/internal/ports"
	"github.com/TuliEscobar/prueba-trakii/pkg/dashboardpb"
	"github.com/TuliEscobar/prueba-trakii/pkg/tlsconfig"
)

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, p, err := config.Parse(os.Args[1:])
	switch {
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(os.Stdout)
		return
	case errors.Is(err, arg.ErrVersion):
		fmt.Println(cfg.Version())
		return
	case err != nil:
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	log.Info().Str("version", cfg.Version()).Msg("starting battery monitor")

	// Telemetry source: none, simulated device or device API
	var source ports.TelemetrySource
	switch cfg.TelemetryURL {
	case "":
		log.Info().Msg("no telemetry configured, using random walk only")
	case config.MockTelemetry:
		source = mock.NewFakeTelemetry(cfg.MockFailureRate, time.Now().UnixNano())
		log.Info().Float64("failure_rate", cfg.MockFailureRate).Msg("initialized simulated device")
	default:
		source = telemetry.NewClient(cfg.TelemetryURL, cfg.TelemetryTimeout)
		log.Info().Str("url", cfg.TelemetryURL).Msg("initialized device API client")
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	generator := ports.NewGenerator(source, domain.DefaultWalk(), rnd)
	repo := memory.NewReadingRepository()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := []ports.Option{ports.WithMetrics(m)}
	if !cfg.Quiet {
		opts = append(opts, ports.WithRenderer(console.NewRenderer(os.Stdout)))
	}
	if cfg.GeocodingEnabled {
		opts = append(opts, ports.WithGeocoder(geocode.NewNominatim(cfg.GeocodingURL, cfg.GeocodingLanguage, cfg.TelemetryTimeout)))
		log.Info().Str("url", cfg.GeocodingURL).Msg("reverse geocoding enabled")
	}

	sinks := openSinks(cfg)
	opts = append(opts, ports.WithSinks(sinks...))

	controller, err := ports.NewController(cfg.ControllerConfig(), generator, repo, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create dashboard session")
	}

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if cfg.TLSCert != "" {
		tlsCfg, err := tlsconfig.LoadServerTLS(cfg.TLSCert, cfg.TLSKey, cfg.TLSCA)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load TLS config")
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Bool("client_auth", cfg.TLSCA != "").Msg("TLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, gRPC starts without TLS")
	}

	grpcServer := grpc.NewServer(serverOpts...)
	dashboardpb.RegisterDashboardServer(grpcServer, grpcAdapter.NewDashboardHandler(controller))

	// Enable gRPC reflection for grpcurl testing
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}
	log.Info().Str("port", cfg.GRPCPort).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal().Err(err).Msg("failed to serve gRPC")
		}
	}()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           httpapi.NewDashboardRouter(controller, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to serve HTTP")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionDone := make(chan struct{})
	go func() {
		controller.Run(ctx)
		close(sessionDone)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()
	<-sessionDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	grpcServer.GracefulStop()

	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			log.Error().Err(err).Str("sink", sink.Name()).Msg("failed to close sink")
		}
	}
	if source != nil {
		if err := source.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close telemetry source")
		}
	}

	log.Info().Msg("battery monitor stopped")
}

// openSinks connects the configured reading sinks. A sink that cannot be
// reached is logged and skipped.
func openSinks(cfg config.Config) []ports.ReadingSink {
	var sinks []ports.ReadingSink

	if len(cfg.KafkaBrokers) > 0 {
		sinks = append(sinks, kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing readings to kafka")
	}

	if cfg.MQTTBroker != "" {
		clientID := fmt.Sprintf("batterymon-%d", os.Getpid())
		pub, err := mqtt.NewPublisher(cfg.MQTTBroker, clientID, cfg.MQTTTopic)
		if err != nil {
			log.Error().Err(err).Str("broker", cfg.MQTTBroker).Msg("mqtt sink disabled")
		} else {
			sinks = append(sinks, pub)
			log.Info().Str("broker", cfg.MQTTBroker).Str("topic", cfg.MQTTTopic).Msg("publishing readings to mqtt")
		}
	}

	return sinks
}
