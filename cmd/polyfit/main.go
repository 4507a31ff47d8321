package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/polyfit/infra/config"
	"github.com/drakos74/polyfit/internal/metrics"
	"github.com/drakos74/polyfit/internal/server"
	"github.com/drakos74/polyfit/internal/storage"
)

const key = "polyfit"

func main() {

	dir := flag.String("config", config.Dir, "directory holding the polyfit.json config")
	flag.Parse()

	cfg := server.DefaultConfig()
	if err := config.Load(*dir, key, &cfg); err != nil {
		log.Warn().Err(err).Msg("using default config")
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn().Err(err).Str("level", cfg.Level).Msg("unknown log level")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	m, err := metrics.NewMetrics(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create metrics")
	}

	service, err := server.NewService(cfg, storage.NewMemoryCache(cfg.Cache), m)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create service")
	}

	ctx, cnl := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cnl()

	if err := service.Server(registry).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}
