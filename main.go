package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"paper-search/config"
	"paper-search/providers"
	"paper-search/providers/arxiv"
	"paper-search/providers/crossref"
	"paper-search/services"
	"paper-search/storage"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	store, err := storage.Open(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()
	logging.Info("Successfully connected to papers database.")

	logging.Info("Running database auto-migration...")
	if err := store.Migrate(); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Setup Services
	client := providers.NewHTTPClient(cfg.HTTPTimeout, cfg.UserAgent)
	fetchService := services.NewFetchService(cfg, store,
		services.NewIngestService(cfg, store, logging),
		logging,
		arxiv.NewFetcher(cfg, client, logging),
		crossref.NewFetcher(cfg, client, logging),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Setup Cron
	cronScheduler := cron.New()
	_, err = cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled fetch job...",
			zap.Strings("categories", cfg.ArxivCategories()),
			zap.Strings("queries", cfg.CrossrefQueries()))
		count, err := fetchService.RunScheduled(ctx)
		if err != nil {
			logging.Error("Cron job finished with errors", zap.Int("new_papers", count), zap.Error(err))
			return
		}
		logging.Info("Cron job completed", zap.Int("new_papers", count))
	})
	if err != nil {
		logging.Fatal("Invalid cron schedule", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
	}
	cronScheduler.Start()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           newRouter(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down...")

	// laufende Cron-Jobs abwarten
	<-cronScheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown failed", zap.Error(err))
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is running"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}
