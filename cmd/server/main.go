// Package main is the entry point for the StockScope financial data
// service. It wires the disclosure-registry client, the quote and news
// scrapers, the two-tier SWR cache and the HTTP API, then runs until
// interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/cache"
	"github.com/jmkang/stockscope/internal/clients/dart"
	"github.com/jmkang/stockscope/internal/clients/naver"
	"github.com/jmkang/stockscope/internal/config"
	"github.com/jmkang/stockscope/internal/database"
	"github.com/jmkang/stockscope/internal/modules/company"
	companyhandlers "github.com/jmkang/stockscope/internal/modules/company/handlers"
	"github.com/jmkang/stockscope/internal/modules/financials"
	financialshandlers "github.com/jmkang/stockscope/internal/modules/financials/handlers"
	"github.com/jmkang/stockscope/internal/modules/registry"
	"github.com/jmkang/stockscope/internal/reliability"
	"github.com/jmkang/stockscope/internal/scheduler"
	"github.com/jmkang/stockscope/internal/server"
	"github.com/jmkang/stockscope/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting StockScope")

	// Durable cache tier
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	kv := database.NewKVStore(db, log)
	cacheManager := cache.NewManager(kv, log)

	// Upstream clients
	dartClient := dart.NewClient(cfg.DartBaseURL, cfg.DartAPIKey, log)
	quoteClient := naver.NewQuoteClient(cfg.QuoteBaseURL, log)
	newsClient := naver.NewNewsClient(cfg.NewsBaseURL, log)

	// Services
	searchIndex := registry.NewIndex(log)
	companyService := company.NewService(cacheManager, dartClient, newsClient, searchIndex, log)
	financialsService := financials.NewService(cacheManager, dartClient, quoteClient, log)

	// Background jobs
	sched := scheduler.New(log)
	registerJob(sched, log, "0 0 5 * * *", scheduler.NewRegistryRefreshJob(companyService, log))
	registerJob(sched, log, "@hourly", scheduler.NewCacheSweepJob(kv, log))

	if cfg.BackupEnabled() {
		store, err := reliability.NewObjectStore(context.Background(), reliability.ObjectStoreConfig{
			Bucket:          cfg.BackupBucket,
			Endpoint:        cfg.BackupEndpoint,
			Region:          cfg.BackupRegion,
			AccessKeyID:     cfg.BackupAccessKey,
			SecretAccessKey: cfg.BackupSecretKey,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize backup storage")
		}
		backups := reliability.NewBackupService(store, db, cfg.DataDir, log)
		registerJob(sched, log, "0 30 3 * * *", scheduler.NewBackupJob(backups, cfg.BackupRetention, log))
	} else {
		log.Info().Msg("Object-storage backups disabled")
	}

	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Log:     log,
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Cache:   cacheManager,
		CompanyHandler: companyhandlers.NewHandler(
			companyService, log,
		),
		FinancialsHandler: financialshandlers.NewHandler(
			financialsService, companyService, log,
		),
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJob(sched *scheduler.Scheduler, log zerolog.Logger, schedule string, job scheduler.Job) {
	if err := sched.AddJob(schedule, job); err != nil {
		log.Fatal().Err(err).Str("job", job.Name()).Msg("Failed to register job")
	}
}
