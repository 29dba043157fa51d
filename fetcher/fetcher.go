package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"coachstats/fetcher/data"
	"coachstats/fetcher/repositories"
	ingestionservice "coachstats/fetcher/services/ingestion"
	rankservice "coachstats/fetcher/services/rank"
	refreshservice "coachstats/fetcher/services/refresh"
	"coachstats/pkg/config"
	"coachstats/pkg/database"
	"coachstats/pkg/logger"
	"coachstats/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Couldn't initialize the configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}

	// Runs the migrations.
	rawDb, err := db.DB()
	if err != nil {
		log.Fatalf("Couldn't get raw db connection: %v", err)
	}

	if err := database.RunMigrations(cfg, rawDb); err != nil {
		log.Fatal(err)
	}

	if err := database.CreateEnums(db); err != nil {
		log.Fatal(err)
	}

	appLogger, err := logger.CreateLogger(cfg)
	if err != nil {
		log.Fatalf("Couldn't create the logger: %v", err)
	}

	accountRepository, err := repositories.NewAccountRepository(db)
	if err != nil {
		log.Fatal(err)
	}

	gameRepository, err := repositories.NewGameRepository(db)
	if err != nil {
		log.Fatal(err)
	}

	fetcher := data.NewFetcher(&cfg.Riot)
	redisClient := redis.NewClient(&cfg.Redis)
	defer redisClient.Close()

	ingestion := ingestionservice.NewIngestionService(fetcher.Match, gameRepository, appLogger, &cfg.Riot)
	rank := rankservice.NewRankService(fetcher.League, fetcher.Account, accountRepository, appLogger)
	refresh := refreshservice.NewRefreshService(accountRepository, gameRepository, ingestion, rank, redisClient, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting refresh worker, interval %s.", cfg.Riot.RefreshInterval)
	runRefreshLoop(ctx, refresh, appLogger, cfg.Riot.RefreshInterval)

	log.Println("Shutting down refresh worker...")
}

// runRefreshLoop refreshes every tracked account on a fixed interval
// until the context is cancelled. The first pass runs right away.
func runRefreshLoop(
	ctx context.Context,
	refresh *refreshservice.RefreshService,
	appLogger *logger.NewLogger,
	interval time.Duration,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runRefreshPass(ctx, refresh, appLogger)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// runRefreshPass runs one full refresh and ships the logs.
func runRefreshPass(ctx context.Context, refresh *refreshservice.RefreshService, appLogger *logger.NewLogger) {
	result, err := refresh.RefreshAll(ctx)
	if err != nil {
		log.Printf("Refresh pass failed: %v", err)
		appLogger.Errorf("Refresh pass failed: %v", err)
	} else {
		log.Printf("Refresh pass done: %d refreshed, %d failed, %d skipped.",
			result.Refreshed, result.Failed, result.Skipped)
	}

	objectKey := fmt.Sprintf("fetcher/%s-refresh.log", time.Now().UTC().Format("2006-01-02T15-04-05"))
	if err := appLogger.UploadToS3Bucket(objectKey); err != nil {
		log.Printf("Couldn't upload the refresh logs: %v", err)
	}
}
