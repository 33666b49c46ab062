package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vayustack/vayu-intel/internal/bus"
	"github.com/vayustack/vayu-intel/internal/config"
	"github.com/vayustack/vayu-intel/internal/engine"
	"github.com/vayustack/vayu-intel/internal/metrics"
	"github.com/vayustack/vayu-intel/internal/models"
	"github.com/vayustack/vayu-intel/internal/repo"
	"github.com/vayustack/vayu-intel/internal/services"
	"github.com/vayustack/vayu-intel/internal/utils"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional, defaults apply)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	slog.SetDefault(logger)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	threatFox := repo.NewThreatFoxClient(cfg.Feeds.ThreatFoxURL, cfg.Feeds.Timeout, cfg.Feeds.BatchLimit, logger)
	urlhaus := repo.NewURLhausClient(cfg.Feeds.URLhausURL, cfg.Feeds.Timeout, cfg.Feeds.BatchLimit, logger)
	synth := repo.NewSynthesizer(nil)
	aggregator := engine.NewAggregator(threatFox, urlhaus, synth, engine.NewNormalizer(nil), nil, logger)

	broadcast := bus.New()
	defer broadcast.Close()

	session := services.New(cfg.Session, aggregator, broadcast, cfg.Analysis.APIKey, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Drain one subscription so critical activity shows up in the log even
	// when no external consumer is attached.
	events, unsubscribe := broadcast.Subscribe()
	defer unsubscribe()
	go func() {
		for threat := range events {
			level := slog.LevelDebug
			if threat.Severity == models.SeverityCritical {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "threat ingested",
				slog.String("id", threat.ID),
				slog.String("srcIP", threat.SrcIP),
				slog.String("severity", string(threat.Severity)),
				slog.String("source", threat.Source),
				slog.String("country", threat.CountryCode),
			)
		}
	}()

	if err := session.Start(ctx); err != nil {
		logger.Error("failed to start session", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("intel engine started",
		slog.String("threatfox", cfg.Feeds.ThreatFoxURL),
		slog.String("urlhaus", cfg.Feeds.URLhausURL),
		slog.Duration("pollInterval", cfg.Session.PollInterval),
	)

	metricsSrv := &http.Server{
		Addr:    cfg.Metrics.Address,
		Handler: promhttp.Handler(),
	}
	go func() {
		logger.Info("metrics server listening", slog.String("address", cfg.Metrics.Address))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Session.GracefulTimeout)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown", slog.Any("error", err))
	}
	session.Stop()
	logger.Info("intel engine stopped")
}
