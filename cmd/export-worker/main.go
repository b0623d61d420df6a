package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"expensetracker/internal/cli"
	"expensetracker/internal/events"
	applog "expensetracker/internal/log"
	"expensetracker/internal/sheets"
	"expensetracker/internal/storage"
	"expensetracker/internal/worker"
)

func main() {
	logger := cli.SetupLogger(applog.ComponentWorker)
	cli.LoadEnvFile(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}
	if err := cfg.ValidateSheets(); err != nil {
		logger.Error("Sheets configuration invalid", applog.FieldError, err.Error())
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite store", applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exporter, err := sheets.NewClient(ctx,
		cfg.SheetsSpreadsheetID,
		cfg.SheetsName,
		cfg.SheetsOAuthClientFile,
		cfg.SheetsOAuthTokenFile)
	if err != nil {
		logger.Error("Failed to initialize Sheets client", applog.FieldError, err.Error())
		os.Exit(1)
	}

	eventsClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer eventsClient.Close()

	exportWorker := worker.NewExportWorker(repo, exporter)

	go func() {
		err := eventsClient.ConsumeExpenseEvents(ctx, func(msg *events.ExpenseEventMessage) error {
			return exportWorker.HandleEvent(ctx, msg)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Event consumption failed", applog.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Export worker started",
		"queue", cfg.AMQPQueue,
		"sheet", cfg.SheetsName)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Export worker stopped")
}
