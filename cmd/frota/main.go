package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"frota/internal/amqp"
	"frota/internal/cache"
	"frota/internal/cli"
	"frota/internal/core"
	apphttp "frota/internal/http"
	applog "frota/internal/log"
	"frota/internal/services"
	"frota/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	source, closeSource, err := cli.InitBackend(startCtx, logger, cfg)
	startCancel()
	if err != nil {
		logger.Error("Failed to initialize data backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer closeSource()

	sets := cache.NewLRUCache[core.RecordSet](cfg.CacheSize, cfg.CacheTTL)
	caches := cache.NewManager()
	caches.Register("record_sets", sets)
	if cfg.CacheTTL > 0 {
		caches.StartCleanup(cfg.CacheTTL)
	}
	defer caches.Stop()

	thresholds := cfg.Thresholds()
	opts := services.Options{
		Locale:     cfg.MonthLocale(),
		Thresholds: &thresholds,
		Cache:      sets,
		InstanceID: cfg.InstanceID,
	}

	// The AMQP client is optional; interfaces are only set when it exists
	// so that a nil *amqp.Client never reaches them.
	var consumer worker.Consumer
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		opts.Publisher = client
		consumer = client
		logger.Info("AMQP refresh signal enabled", "exchange", cfg.AMQPExchange, "instance_id", cfg.InstanceID)
	} else {
		logger.Info("AMQP refresh signal disabled - no AMQP_URL provided")
	}

	reports := services.NewReportService(source, opts)
	srv := apphttp.NewServer(":"+cfg.Port, reports, apphttp.Options{Logger: logger})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	refresher := worker.NewRefreshWorker(consumer, reports)
	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := refresher.WarmUp(warmCtx); err != nil {
			logger.Warn("Initial fleet table load failed", applog.FieldError, err)
		}
		if err := refresher.Run(ctx); err != nil {
			logger.Error("Refresh worker stopped", applog.FieldError, err)
		}
	}()

	logger.Info("Starting frota server",
		"port", cfg.Port,
		applog.FieldBackend, cfg.DataBackend,
		"locale", cfg.Locale,
		"warning_threshold", thresholds.Warning,
		"critical_threshold", thresholds.Critical)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
