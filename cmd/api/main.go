package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/freeeve/repertoire/internal/config"
	"github.com/freeeve/repertoire/internal/eco"
	"github.com/freeeve/repertoire/internal/httpapi"
	"github.com/freeeve/repertoire/internal/logx"
	"github.com/freeeve/repertoire/internal/oracle"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML config file (optional)")
		addr        = flag.String("addr", "", "listen address (overrides config)")
		openingsDir = flag.String("openings", "", "repertoire directory (overrides config)")
		ecoDir      = flag.String("eco-dir", "", "directory containing ECO .tsv files (overrides config)")
	)
	flag.Parse()

	logger := logx.NewLogger()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *openingsDir != "" {
		cfg.OpeningsDir = *openingsDir
	}
	if *ecoDir != "" {
		cfg.EcoDir = *ecoDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load ECO opening database
	var ecoDB *eco.Database
	if cfg.EcoDir != "" {
		ecoDB = eco.NewDatabase()
		if err := ecoDB.LoadDir(cfg.EcoDir); err != nil {
			logger.Warn().Err(err).Str("dir", cfg.EcoDir).Msg("failed to load ECO database")
			ecoDB = nil
		} else {
			logger.Info().Int("openings", ecoDB.Count()).Msg("ECO database loaded")
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      httpapi.NewRouter(logger, cfg.OpeningsDir, oracle.New(), ecoDB),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("openings", cfg.OpeningsDir).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("api server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http server shutdown error")
	}

	logger.Info().Msg("shutdown complete")
}
