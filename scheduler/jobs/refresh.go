package jobs

import (
	"context"
	"fmt"
	"log"
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

// RefreshAllAccounts refreshes the rank and match history of every tracked
// account once. Meant for the nightly full pass.
func RefreshAllAccounts(cfg *config.Config) error {
	log.Println("Starting full account refresh.")

	// Create a new connection pool.
	db, err := database.NewConnection(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("couldn't get database connection: %w", err)
	}
	defer func() {
		if sqlDb, err := db.DB(); err == nil {
			sqlDb.Close()
		}
	}()

	accountRepository, err := repositories.NewAccountRepository(db)
	if err != nil {
		return err
	}

	gameRepository, err := repositories.NewGameRepository(db)
	if err != nil {
		return err
	}

	appLogger, err := logger.CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("couldn't create the logger: %w", err)
	}

	fetcher := data.NewFetcher(&cfg.Riot)
	redisClient := redis.NewClient(&cfg.Redis)
	defer redisClient.Close()

	ingestion := ingestionservice.NewIngestionService(fetcher.Match, gameRepository, appLogger, &cfg.Riot)
	rank := rankservice.NewRankService(fetcher.League, fetcher.Account, accountRepository, appLogger)
	refresh := refreshservice.NewRefreshService(accountRepository, gameRepository, ingestion, rank, redisClient, appLogger)

	result, err := refresh.RefreshAll(context.Background())
	if err != nil {
		appLogger.Errorf("Full refresh failed: %v", err)
	} else {
		log.Printf("Full refresh done: %d refreshed, %d failed, %d skipped.",
			result.Refreshed, result.Failed, result.Skipped)
	}

	objectKey := fmt.Sprintf("scheduler/%s-refresh.log", time.Now().UTC().Format("2006-01-02"))
	if uploadErr := appLogger.UploadToS3Bucket(objectKey); uploadErr != nil {
		log.Printf("Couldn't upload the refresh logs: %v", uploadErr)
	}

	if err != nil {
		return fmt.Errorf("full refresh failed: %w", err)
	}

	log.Println("Finished job")
	return nil
}
