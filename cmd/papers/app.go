package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paper-search/config"
	"paper-search/providers"
	"paper-search/providers/arxiv"
	"paper-search/providers/crossref"
	"paper-search/services"
	"paper-search/storage"
)

// openStore is replaced in tests.
var openStore = func(cfg *config.Config, logger *zap.Logger) (*storage.Store, error) {
	return storage.Open(cfg, logger)
}

// app holds what every subcommand needs. It is filled by the root
// command's PersistentPreRunE.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *storage.Store
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// db öffnet die Datenbank beim ersten Zugriff und migriert das Schema.
func (a *app) db() (*storage.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := openStore(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Datenbank konnte nicht geschlossen werden", zap.Error(err))
		}
		a.store = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) fetchService() (*services.FetchService, error) {
	store, err := a.db()
	if err != nil {
		return nil, err
	}
	client := providers.NewHTTPClient(a.cfg.HTTPTimeout, a.cfg.UserAgent)
	return services.NewFetchService(a.cfg, store,
		services.NewIngestService(a.cfg, store, a.logger),
		a.logger,
		arxiv.NewFetcher(a.cfg, client, a.logger),
		crossref.NewFetcher(a.cfg, client, a.logger),
	), nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("count must be a positive integer, got %q", s)
	}
	return n, nil
}

func parseID(s, what string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", what, s)
	}
	return uint(n), nil
}

// validateArgs runs fn as an Args validator so that bad values print usage.
func validateArgs(base cobra.PositionalArgs, fn func(args []string) error) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := base(cmd, args); err != nil {
			return err
		}
		return fn(args)
	}
}
