package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Sandip-2006/diigital-village-hub/internal/cli"
	"github.com/Sandip-2006/diigital-village-hub/internal/config"
	"github.com/Sandip-2006/diigital-village-hub/internal/db"
	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/Sandip-2006/diigital-village-hub/internal/registry"
	"github.com/Sandip-2006/diigital-village-hub/internal/repository"
	"github.com/Sandip-2006/diigital-village-hub/internal/service"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	reg := registry.Default()
	if cfg.RegistryPath != "" {
		var err error
		if reg, err = registry.LoadFile(cfg.RegistryPath); err != nil {
			return fmt.Errorf("loading village registry: %w", err)
		}
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	storage := repository.NewSQLiteStorage(database)
	resolver := geo.NewResolver(cfg.RadiusKm, cfg.Policy)
	detector := locate.NewCachedDetector(geo.NewCachedResolver(resolver, reg.All()), cfg.DetectTimeout)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	prefs := service.NewPreferenceService(storage, reg, detector, service.PreferenceConfig{
		StoreOptions: []store.Option{store.WithLogger(logger)},
		Logger:       logger,
	}, observers...)
	defer prefs.Close()

	app := &cli.App{
		Villages:    service.NewVillageService(reg, resolver),
		Preferences: prefs,
		Registry:    reg,
		Config:      cfg,
		Logger:      logger,
	}

	// Forms and the live view need a terminal on stdin.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
