package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"paper-search/apperr"
	"paper-search/config"
	"paper-search/models"
	"paper-search/providers"
	"paper-search/storage"
)

// Ingester nimmt normalisierte Records entgegen; *IngestService erfüllt es.
type Ingester interface {
	Ingest(ctx context.Context, records []models.Record) (int, error)
}

// RunResult ist das Ergebnis eines einzelnen Provider-Laufs.
type RunResult struct {
	Provider string
	Query    string
	Papers   int
	Err      error
}

// FetchService kümmert sich um die Orchestrierung des gesamten Fetch-Prozesses:
// Abruf, Parsen, Normalisieren und Speichern, streng nacheinander.
type FetchService struct {
	Config    *config.Config
	Store     *storage.Store
	Ingester  Ingester
	Logger    *zap.Logger
	Providers map[string]providers.Provider
	// Limiter erzwingt den Abstand zwischen zwei externen Abrufen.
	Limiter *rate.Limiter
}

// NewFetchService erstellt eine neue Instanz des FetchService.
func NewFetchService(cfg *config.Config, store *storage.Store, ingester Ingester, logger *zap.Logger, provs ...providers.Provider) *FetchService {
	byName := make(map[string]providers.Provider, len(provs))
	for _, p := range provs {
		byName[p.Name()] = p
	}
	return &FetchService{
		Config:    cfg,
		Store:     store,
		Ingester:  ingester,
		Logger:    logger,
		Providers: byName,
		Limiter:   NewLimiter(cfg.FetchDelay),
	}
}

// NewLimiter erlaubt einen Abruf pro delay; delay <= 0 schaltet die Drosselung ab.
func NewLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Run führt einen vollständigen Lauf für einen Provider aus und protokolliert
// ihn als IngestRun.
func (f *FetchService) Run(ctx context.Context, providerName, query string, count int) (int, error) {
	provider, ok := f.Providers[providerName]
	if !ok {
		return 0, apperr.Validation("fetch.Run", "unknown provider %q", providerName)
	}
	log := f.Logger.With(zap.String("provider", providerName), zap.String("query", query))

	run, err := f.Store.StartIngestRun(ctx, providerName, query, count, map[string]any{
		"query":          query,
		"count":          count,
		"skip_existing":  f.Config.SkipExistingPapers,
		"match_orcid":    f.Config.MatchAuthorORCID,
		"fetch_delay_ms": f.Config.FetchDelay.Milliseconds(),
	})
	if err != nil {
		return 0, fmt.Errorf("ingest run konnte nicht angelegt werden: %w", err)
	}

	created, runErr := f.fetchAndIngest(ctx, provider, query, count)

	status := models.RunSucceeded
	if runErr != nil {
		status = models.RunFailed
		log.Error("Provider-Lauf fehlgeschlagen", zap.Error(runErr))
	} else {
		log.Info("Provider-Lauf abgeschlossen", zap.Int("new_papers", created))
	}
	ingestRunsCounter.WithLabelValues(providerName, status).Inc()

	if err := f.Store.FinishIngestRun(context.WithoutCancel(ctx), run, created, runErr); err != nil {
		log.Error("Ingest-Run konnte nicht abgeschlossen werden", zap.Error(err))
	}
	return created, runErr
}

func (f *FetchService) fetchAndIngest(ctx context.Context, provider providers.Provider, query string, count int) (int, error) {
	if err := f.Limiter.Wait(ctx); err != nil {
		return 0, err
	}
	raw, err := provider.Fetch(ctx, query, count)
	if err != nil {
		return 0, err
	}
	records, err := provider.Parse(raw)
	if err != nil {
		return 0, err
	}
	return f.Ingester.Ingest(ctx, NormalizeAll(records))
}

// RunArxivCategories verarbeitet die Kategorien nacheinander. Ein Fehler in
// einer Kategorie bricht nur diese ab; es gibt keinen erneuten Versuch.
func (f *FetchService) RunArxivCategories(ctx context.Context, categories []string, count int) []RunResult {
	return f.runAll(ctx, "arxiv", categories, count)
}

// RunCrossrefQueries verarbeitet die Suchbegriffe nacheinander.
func (f *FetchService) RunCrossrefQueries(ctx context.Context, queries []string, count int) []RunResult {
	return f.runAll(ctx, "crossref", queries, count)
}

func (f *FetchService) runAll(ctx context.Context, providerName string, queries []string, count int) []RunResult {
	results := make([]RunResult, 0, len(queries))
	for _, q := range queries {
		if ctx.Err() != nil {
			results = append(results, RunResult{Provider: providerName, Query: q, Err: ctx.Err()})
			continue
		}
		n, err := f.Run(ctx, providerName, q, count)
		results = append(results, RunResult{Provider: providerName, Query: q, Papers: n, Err: err})
	}
	return results
}

// RunScheduled führt die konfigurierten arXiv-Kategorien und Crossref-Suchen aus.
func (f *FetchService) RunScheduled(ctx context.Context) (int, error) {
	var results []RunResult
	results = append(results, f.RunArxivCategories(ctx, f.Config.ArxivCategories(), f.Config.ScheduledCount)...)
	results = append(results, f.RunCrossrefQueries(ctx, f.Config.CrossrefQueries(), f.Config.ScheduledCount)...)
	return Summarize(results)
}

// Summarize summiert die neuen Papers und fasst alle Fehler zusammen.
func Summarize(results []RunResult) (int, error) {
	total := 0
	var errs []error
	for _, r := range results {
		total += r.Papers
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s %q: %w", r.Provider, r.Query, r.Err))
		}
	}
	return total, errors.Join(errs...)
}
