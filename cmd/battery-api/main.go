package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/TuliEscobar/prueba-trakii/internal/adapters/httpapi"
	"github.com/TuliEscobar/prueba-trakii/internal/adapters/mock"
)

type Args struct {
	Port        string  `arg:"--port,env:PORT" help:"listen port"`
	FailureRate float64 `arg:"--failure-rate,env:FAILURE_RATE" help:"probability a battery read fails"`
	Seed        int64   `arg:"--seed,env:SEED" help:"random seed, 0 for time based"`
}

func (Args) Description() string {
	return "simulated tracker device serving GET /battery and GET /device-info"
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	args := Args{Port: "5000"}
	arg.MustParse(&args)

	if args.FailureRate < 0 || args.FailureRate > 1 {
		log.Fatal().Float64("failure_rate", args.FailureRate).Msg("failure rate must be within [0,1]")
	}
	seed := args.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	device := mock.NewFakeTelemetry(args.FailureRate, seed)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", args.Port),
		Handler:           httpapi.NewDeviceRouter(device),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", args.Port).Msg("device API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("device API stopped")
}
