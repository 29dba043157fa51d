package rankservice

import (
	"context"
	"errors"
	"fmt"

	accountfetcher "coachstats/fetcher/data/account"
	leaguefetcher "coachstats/fetcher/data/league"
	"coachstats/fetcher/repositories"
	"coachstats/fetcher/requests"
	"coachstats/pkg/database/models"
	"coachstats/pkg/logger"
	tiervalues "coachstats/pkg/riotvalues/tier"
)

// LeagueSource is the slice of the riot fetcher used for the rank snapshots.
type LeagueSource interface {
	GetLeagueByPuuid(ctx context.Context, puuid string) ([]leaguefetcher.LeagueEntry, error)
}

// AccountSource resolves riot ids, used to heal stale puuids.
type AccountSource interface {
	GetAccountByRiotId(ctx context.Context, gameName string, tagLine string) (*accountfetcher.Account, error)
}

// RankUpdateResult summarizes one rank refresh.
// Snapshot is nil when the standing didn't change.
type RankUpdateResult struct {
	Changed     bool
	PeakUpdated bool
	Snapshot    *models.RankHistory
}

// RankService keeps the ranked standing of the tracked accounts current.
type RankService struct {
	leagues  LeagueSource
	resolver AccountSource
	accounts repositories.AccountRepository
	logger   *logger.NewLogger
}

// NewRankService creates the rank service.
func NewRankService(
	leagues LeagueSource,
	resolver AccountSource,
	accounts repositories.AccountRepository,
	logger *logger.NewLogger,
) *RankService {
	return &RankService{
		leagues:  leagues,
		resolver: resolver,
		accounts: accounts,
		logger:   logger,
	}
}

// RefreshRank fetches the current solo queue standing and persists it.
// History only grows when the standing actually changed, and the peak
// only moves when it is strictly beaten.
func (s *RankService) RefreshRank(ctx context.Context, account *models.RiotAccount) (*RankUpdateResult, error) {
	entries, err := s.fetchEntries(ctx, account)
	if err != nil {
		return nil, err
	}

	entry := leaguefetcher.SoloQueueEntry(entries)
	if entry == nil {
		// No solo queue data this season is a valid state, not a error.
		s.logger.Infof("Account %s has no solo queue entry", account.RiotId())
		return &RankUpdateResult{}, nil
	}

	if entry.Tier == nil {
		return nil, fmt.Errorf("solo queue entry for %s is missing the tier", account.RiotId())
	}

	result := &RankUpdateResult{
		Changed: standingChanged(account, entry),
	}

	account.Tier = entry.Tier
	account.Division = entry.Rank
	account.LeaguePoints = entry.LeaguePoints
	account.Wins = entry.Wins
	account.Losses = entry.Losses

	newValue := tiervalues.CalculateRank(*entry.Tier, entry.Rank, entry.LeaguePoints)
	if s.beatsPeak(account, newValue) {
		account.PeakTier = entry.Tier
		account.PeakDivision = entry.Rank
		account.PeakLeaguePoints = entry.LeaguePoints
		result.PeakUpdated = true
	}

	if err := s.accounts.UpdateRank(ctx, account); err != nil {
		return nil, fmt.Errorf("couldn't save the standing of %s: %w", account.RiotId(), err)
	}

	if result.Changed {
		snapshot := &models.RankHistory{
			RiotAccountId: account.ID,
			Tier:          *entry.Tier,
			Division:      entry.Rank,
			LeaguePoints:  entry.LeaguePoints,
			Wins:          entry.Wins,
			Losses:        entry.Losses,
		}

		if err := s.accounts.AppendRankHistory(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("couldn't append the rank history of %s: %w", account.RiotId(), err)
		}
		result.Snapshot = snapshot
	}

	return result, nil
}

// fetchEntries gets the league entries, healing a stale puuid once.
func (s *RankService) fetchEntries(ctx context.Context, account *models.RiotAccount) ([]leaguefetcher.LeagueEntry, error) {
	entries, err := s.leagues.GetLeagueByPuuid(ctx, account.Puuid)
	if err == nil {
		return entries, nil
	}

	if !isStalePuuid(err) {
		return nil, fmt.Errorf("couldn't get the league entries for %s: %w", account.RiotId(), err)
	}

	// The puuid can rotate when the riot account changes region or name.
	// Re-resolve it through the riot id and retry a single time.
	s.logger.Infof("Puuid of %s looks stale, re-resolving", account.RiotId())

	resolved, resolveErr := s.resolver.GetAccountByRiotId(ctx, account.GameName, account.TagLine)
	if resolveErr != nil {
		return nil, fmt.Errorf("couldn't re-resolve the riot id of %s: %w", account.RiotId(), resolveErr)
	}

	if err := s.accounts.UpdatePuuid(ctx, account.ID, resolved.Puuid); err != nil {
		return nil, fmt.Errorf("couldn't save the new puuid of %s: %w", account.RiotId(), err)
	}
	account.Puuid = resolved.Puuid

	entries, err = s.leagues.GetLeagueByPuuid(ctx, account.Puuid)
	if err != nil {
		return nil, fmt.Errorf("couldn't get the league entries for %s after healing the puuid: %w", account.RiotId(), err)
	}

	return entries, nil
}

// beatsPeak reports whether the new standing strictly beats the stored peak.
// A account without a peak yet always gets one.
func (s *RankService) beatsPeak(account *models.RiotAccount, newValue int) bool {
	if account.PeakTier == nil {
		return true
	}

	peakValue := tiervalues.CalculateRank(*account.PeakTier, account.PeakDivision, account.PeakLeaguePoints)
	return newValue > peakValue
}

// standingChanged compares the stored standing against the fetched entry.
// Wins and losses alone don't count as a change.
func standingChanged(account *models.RiotAccount, entry *leaguefetcher.LeagueEntry) bool {
	if account.Tier == nil {
		return true
	}

	if *account.Tier != *entry.Tier {
		return true
	}

	if !equalDivision(account.Division, entry.Rank) {
		return true
	}

	return account.LeaguePoints != entry.LeaguePoints
}

// equalDivision compares two nullable divisions.
func equalDivision(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// isStalePuuid reports whether the error indicates riot no longer knows
// the puuid we stored.
func isStalePuuid(err error) bool {
	var notFound *requests.NotFoundError
	if errors.As(err, &notFound) {
		return true
	}

	var status *requests.StatusError
	return errors.As(err, &status) && status.StatusCode == 400
}
