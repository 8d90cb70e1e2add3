package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/statebridge/statebridge/internal/application/selector"
	"github.com/statebridge/statebridge/internal/config"
	"github.com/statebridge/statebridge/internal/telemetry"
	"github.com/statebridge/statebridge/pkg/adapters/metrics/prometheus"
	"github.com/statebridge/statebridge/pkg/api/http"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting statebridge",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	ctx := context.Background()

	// Initialize telemetry
	shutdownTelemetry := telemetry.Init(ctx,
		cfg.Telemetry.ExporterEndpoint,
		cfg.Telemetry.ServiceName,
		logger)

	// Commit to a state backend for the process lifetime
	stateClient, backend := selector.Select(ctx, selector.Config{
		SidecarExpected: cfg.Dapr.SidecarExpected(),
		HealthURL:       cfg.Dapr.HealthURL(),
		GRPCTarget:      cfg.Dapr.GRPCTarget(),
		ProbeInterval:   cfg.Dapr.ProbeInterval,
		ProbeTimeout:    cfg.Dapr.ProbeTimeout,
		ProbeDeadline:   cfg.Dapr.ProbeDeadline,
		DialTimeout:     cfg.Dapr.DialTimeout,
	}, logger)

	metricsCollector := prometheus.NewCollector()

	// Initialize HTTP server
	httpServer := http.NewServer(&http.Config{
		Port:        cfg.HTTPPort,
		StoreName:   cfg.Store.Name,
		ServiceName: cfg.Telemetry.ServiceName,
		State:       stateClient,
		Metrics:     metricsCollector,
		Logger:      logger,
	})

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("statebridge started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("store", cfg.Store.Name),
		zap.String("backend", string(backend)))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if closer, ok := stateClient.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Error("state client close error", zap.Error(err))
		}
	}

	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", zap.Error(err))
	}

	logger.Info("statebridge shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
