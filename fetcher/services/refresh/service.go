package refreshservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	ingestionservice "coachstats/fetcher/services/ingestion"
	rankservice "coachstats/fetcher/services/rank"

	"coachstats/fetcher/repositories"
	"coachstats/pkg/database/models"
	"coachstats/pkg/logger"
)

// Lock window for a single account refresh. Generous enough for a full
// page of matches on a throttled key.
const refreshLockTTL = 5 * time.Minute

// ErrRefreshInProgress is returned when the account is already locked.
var ErrRefreshInProgress = errors.New("a refresh for this account is already running")

// MatchIngester runs the match pipeline for one account.
type MatchIngester interface {
	IngestRecentMatches(ctx context.Context, account *models.RiotAccount) (*ingestionservice.IngestionResult, error)
}

// RankRefresher updates the ranked standing for one account.
type RankRefresher interface {
	RefreshRank(ctx context.Context, account *models.RiotAccount) (*rankservice.RankUpdateResult, error)
}

// RefreshLocker guards against two refreshes of the same account at once.
type RefreshLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// AccountRefreshResult is the combined outcome for one account.
type AccountRefreshResult struct {
	Rank      *rankservice.RankUpdateResult
	Ingestion *ingestionservice.IngestionResult
}

// BulkRefreshResult summarizes a refresh of every tracked account.
type BulkRefreshResult struct {
	Refreshed int
	Failed    int
	Skipped   int
}

// RefreshService runs the rank and match pipelines for the tracked accounts.
type RefreshService struct {
	accounts  repositories.AccountRepository
	games     repositories.GameRepository
	ingestion MatchIngester
	rank      RankRefresher
	locker    RefreshLocker
	logger    *logger.NewLogger
}

// NewRefreshService creates the refresh service.
func NewRefreshService(
	accounts repositories.AccountRepository,
	games repositories.GameRepository,
	ingestion MatchIngester,
	rank RankRefresher,
	locker RefreshLocker,
	logger *logger.NewLogger,
) *RefreshService {
	return &RefreshService{
		accounts:  accounts,
		games:     games,
		ingestion: ingestion,
		rank:      rank,
		locker:    locker,
		logger:    logger,
	}
}

// RefreshAccount refreshes the rank and match history of a single account.
func (s *RefreshService) RefreshAccount(ctx context.Context, accountId uint) (*AccountRefreshResult, error) {
	account, err := s.accounts.GetById(ctx, accountId)
	if err != nil {
		return nil, fmt.Errorf("couldn't load the account %d: %w", accountId, err)
	}

	return s.refresh(ctx, account)
}

// RefreshAll refreshes every tracked account.
// A failing account is logged and skipped, the rest still runs.
func (s *RefreshService) RefreshAll(ctx context.Context) (*BulkRefreshResult, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't list the tracked accounts: %w", err)
	}

	result := &BulkRefreshResult{}
	for i := range accounts {
		account := &accounts[i]

		// Keep each account's block readable in the log file.
		if i > 0 {
			s.logger.EmptyLine()
		}

		if _, err := s.refresh(ctx, account); err != nil {
			if errors.Is(err, ErrRefreshInProgress) {
				result.Skipped++
				continue
			}

			s.logger.Errorf("Couldn't refresh the account %s: %v", account.RiotId(), err)
			result.Failed++
			continue
		}

		result.Refreshed++
	}

	s.logger.Infof("Bulk refresh done: %d refreshed, %d failed, %d skipped",
		result.Refreshed, result.Failed, result.Skipped)

	return result, nil
}

// refresh runs both pipelines under the account lock.
func (s *RefreshService) refresh(ctx context.Context, account *models.RiotAccount) (*AccountRefreshResult, error) {
	lockKey := refreshLockKey(account.ID)

	acquired, err := s.locker.AcquireLock(ctx, lockKey, refreshLockTTL)
	if err != nil {
		return nil, fmt.Errorf("couldn't acquire the refresh lock for %s: %w", account.RiotId(), err)
	}
	if !acquired {
		return nil, ErrRefreshInProgress
	}
	defer s.locker.ReleaseLock(ctx, lockKey)

	rankResult, err := s.rank.RefreshRank(ctx, account)
	if err != nil {
		return nil, err
	}

	ingestionResult, err := s.ingestion.IngestRecentMatches(ctx, account)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.SetLastRefreshed(ctx, account.ID, time.Now()); err != nil {
		// The refresh itself worked, only the bookkeeping failed.
		s.logger.Errorf("Couldn't set the last refresh date for %s: %v", account.RiotId(), err)
	}

	s.logger.Infof("Refreshed %s: %d new games, %d skipped, rank changed: %t",
		account.RiotId(), ingestionResult.Stored, ingestionResult.Skipped, rankResult.Changed)

	s.logSeasonSummary(ctx, account)

	return &AccountRefreshResult{
		Rank:      rankResult,
		Ingestion: ingestionResult,
	}, nil
}

// logSeasonSummary writes the stored metric aggregates to the refresh log.
// The numbers come straight from the frozen per game columns, they are
// never re-derived from the raw counters. Purely informational, a failure
// here never fails the refresh.
func (s *RefreshService) logSeasonSummary(ctx context.Context, account *models.RiotAccount) {
	averages, err := s.games.GetAccountAverages(ctx, account.ID)
	if err != nil {
		s.logger.Errorf("Couldn't compute the averages for %s: %v", account.RiotId(), err)
		return
	}

	if averages.TotalGames == 0 {
		return
	}

	s.logger.Infof("Season averages for %s: %d games, %.1f%% winrate, %.2f kda, %.2f cs/min",
		account.RiotId(), averages.TotalGames, averages.Winrate, averages.AvgKda, averages.AvgCsPerMin)

	champions, err := s.games.GetChampionAverages(ctx, account.ID)
	if err != nil {
		s.logger.Errorf("Couldn't compute the champion averages for %s: %v", account.RiotId(), err)
		return
	}

	if len(champions) > 0 {
		top := champions[0]
		s.logger.Infof("Most played champion for %s: %d with %d games, %.2f kda, %.2f%% kp",
			account.RiotId(), top.ChampionId, top.GamesPlayed, top.AvgKda, top.AvgKp)
	}
}

// refreshLockKey builds the redis key guarding one account.
func refreshLockKey(accountId uint) string {
	return fmt.Sprintf("refresh:account:%d", accountId)
}
