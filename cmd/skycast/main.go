package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/skycastapp/skycast/internal/adapter/httpapi"
	kafkaadapter "github.com/skycastapp/skycast/internal/adapter/kafka"
	"github.com/skycastapp/skycast/internal/adapter/openweather"
	"github.com/skycastapp/skycast/internal/adapter/weatherapi"
	"github.com/skycastapp/skycast/internal/config"
	"github.com/skycastapp/skycast/internal/controller"
	"github.com/skycastapp/skycast/internal/domain"
	"github.com/skycastapp/skycast/internal/locate"
	"github.com/skycastapp/skycast/internal/observability"
)

func main() {
	// Local development convenience; absence of a .env file is normal.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var source domain.WeatherSource
	switch cfg.Provider {
	case config.ProviderOpenWeather:
		source = openweather.NewClient(cfg.APIKey, cfg.ProviderTimeout, cfg.ForecastDays, metrics, logger)
	default:
		source = weatherapi.NewClient(cfg.APIKey, cfg.ProviderTimeout, cfg.ForecastDays, metrics, logger)
	}
	logger.Info("weather provider selected", "provider", cfg.Provider, "configured", source.Configured())

	// Severe-alert publishing is feature-flagged via KAFKA_BROKERS /
	// KAFKA_ALERT_TOPIC.
	var publisher controller.AlertPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.AlertPublishingEnabled() {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, metrics, logger)
		publisher = kafkaPublisher
		logger.Info("severe alert publishing enabled", "topic", cfg.KafkaAlertTopic)
	} else {
		logger.Info("severe alert publishing disabled")
	}

	ctrl := controller.New(controller.Options{
		Source:          source,
		Resolver:        locate.NewResolver(),
		Publisher:       publisher,
		RefreshInterval: cfg.RefreshInterval,
		Metrics:         metrics,
		Logger:          logger,
	})

	srv := httpapi.NewServer(cfg.HTTPAddr, cfg.StaticDir, ctrl, locate.NewResolver(), metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go ctrl.Run(ctx)

	go func() {
		source.CheckReachability(ctx)
		ctrl.LoadDefault(ctx, cfg.DefaultCity)
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
