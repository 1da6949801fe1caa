package main

import (
	"fmt"
	"os"

	"timecard/internal/api"
	"timecard/internal/cli"
	"timecard/internal/config"
	"timecard/internal/logging"
	"timecard/internal/services"
)

func main() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(cfg, newEngine, os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newEngine opens the configured store and wires the engine over it
func newEngine(cfg *config.Config) (api.Engine, func() error, error) {
	level := cfg.Application.LogLevel
	if cfg.Application.Verbose {
		level = "debug"
	}
	logger := logging.New(os.Stderr, level, cfg.Application.LogFormat)

	loc, err := cfg.GetLocation()
	if err != nil {
		return nil, nil, err
	}

	factory := config.NewRepositoryFactory(config.GetEnvironment(), cfg)
	repo, err := factory.CreateRepository()
	if err != nil {
		return nil, nil, fmt.Errorf("error creating repository: %w", err)
	}

	engine := api.New(repo, services.Options{
		Clock:  services.RealClock{Location: loc},
		Logger: logger,
		Config: cfg,
	})
	return engine, repo.Close, nil
}
