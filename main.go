package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pliu/ostree/pkg/config"
	"github.com/pliu/ostree/pkg/metrics"
	"github.com/pliu/ostree/pkg/source"
	"github.com/pliu/ostree/pkg/stats"
)

var (
	debug       = flag.Bool("debug", false, "Enable debug logging")
	metricsPort = flag.Int("metrics.port", 2112, "Port for the Prometheus metrics server")
	configPath  = flag.String("config.path", "config.yaml", "Path to the configuration file")
)

func main() {
	flag.Parse()

	log.DefaultLogger = log.Logger{
		Caller:     1,
		TimeFormat: "2006-01-02 15:04:05",
	}

	if *debug {
		log.DefaultLogger.Level = log.DebugLevel
		log.Debug().Msg("Debug logging enabled")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log.Info().Str("path", *configPath).Str("source", cfg.GetSource()).Msg("Loaded config")

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	window := time.Duration(cfg.GetStatsWindowSeconds()) * time.Second
	registry := stats.NewRegistry(func() *stats.Stats {
		return stats.NewStats(window, stats.WithMaxSamples(cfg.MaxSamples))
	})

	src, err := newSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create source")
	}

	exporter := metrics.NewExporter(registry, cfg.GetQuantiles(), time.Duration(cfg.GetUpdateFrequencyMs())*time.Millisecond)
	go exporter.Run(ctx)

	go func() {
		if err := src.Run(ctx, metrics.NewRecorder(registry)); err != nil {
			log.Error().Err(err).Msg("source stopped with an error")
			return
		}
		log.Info().Msg("source drained")
	}()

	// Setup Prometheus metrics server
	addr := fmt.Sprintf(":%d", *metricsPort)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		log.Info().Msgf("Starting Prometheus metrics server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Prometheus metrics server failed")
		}
	}()

	log.Info().Msg("ostree started")
	<-ctx.Done()

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("ostree stopped")
}

func newSource(cfg *config.OSTreeConfig) (source.Source, error) {
	switch cfg.GetSource() {
	case config.SourceKafka:
		return source.NewKafkaSourceFromConfig(cfg)
	default:
		return source.NewLineSource(config.SourceStdin, os.Stdin), nil
	}
}
