package main

import (
	"context"
	"os"
	"time"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/seed"
	"expensetracker/internal/tracker"
)

func main() {
	logger := cli.SetupLogger(applog.ComponentCLI)
	cli.LoadEnvFile(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	store, err := cli.OpenStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", applog.FieldError, err.Error())
		os.Exit(1)
	}

	tr := tracker.New(store, core.NewStatisticsManager(), nil)
	defer tr.Close()

	profile := seed.DefaultProfile()
	if cfg.SeedProfilePath != "" {
		profile, err = seed.LoadProfile(cfg.SeedProfilePath)
		if err != nil {
			logger.Error("Failed to load seed profile", applog.FieldError, err.Error())
			os.Exit(1)
		}
	}
	seeder := seed.New(tr, profile, cfg.SeedWorkers, time.Now().UnixNano())

	menu := cli.NewMenu(tr, seeder, os.Stdin, os.Stdout)
	if err := menu.Run(context.Background()); err != nil {
		logger.Error("Menu error", applog.FieldError, err.Error())
		os.Exit(1)
	}
}
