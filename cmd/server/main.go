package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	"expensetracker/internal/events"
	apphttp "expensetracker/internal/http"
	applog "expensetracker/internal/log"
	"expensetracker/internal/tracker"
)

func main() {
	logger := cli.SetupLogger(applog.ComponentApp)
	cli.LoadEnvFile(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	store, err := cli.OpenStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", applog.FieldError, err.Error())
		os.Exit(1)
	}

	// Event publishing is optional; without a broker the tracker works alone.
	var publisher tracker.Publisher
	var eventsClient *events.Client
	if cfg.AMQPURL != "" {
		eventsClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", applog.FieldError, err.Error())
			os.Exit(1)
		}
		publisher = eventsClient
		logger.Info("Event publishing enabled",
			"exchange", cfg.AMQPExchange,
			"queue", cfg.AMQPQueue)
	} else {
		logger.Info("Event publishing disabled, no AMQP URL configured")
	}

	tr := tracker.New(store, core.NewStatisticsManager(), publisher)
	defer tr.Close()

	srv := apphttp.NewServer(":"+cfg.Port, tr, cfg.StatsCacheTTL)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) error {
		if eventsClient != nil {
			if err := eventsClient.Close(); err != nil {
				logger.Error("AMQP close error", applog.FieldError, err.Error())
			}
		}
		return srv.Shutdown(ctx)
	})

	logger.Info("Starting expense tracker server",
		"port", cfg.Port,
		"store", cfg.Store)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
