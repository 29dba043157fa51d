package ingestionservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	matchfetcher "coachstats/fetcher/data/match"
	"coachstats/fetcher/metrics"
	"coachstats/fetcher/repositories"
	"coachstats/fetcher/requests"
	"coachstats/pkg/config"
	"coachstats/pkg/database/models"
	"coachstats/pkg/logger"
	queuevalues "coachstats/pkg/riotvalues/queue"
)

// MatchSource is the slice of the riot fetcher the ingestion needs.
type MatchSource interface {
	GetMatchList(ctx context.Context, puuid string, start int, count int) ([]string, error)
	GetRawMatch(ctx context.Context, matchId string) (json.RawMessage, error)
}

// IngestionResult summarizes one ingestion run for a account.
type IngestionResult struct {
	Stored  int
	Skipped int
	Failed  int
}

// IngestionService pulls the recent matches of a account into storage.
type IngestionService struct {
	source      MatchSource
	games       repositories.GameRepository
	logger      *logger.NewLogger
	pageSize    int
	seasonStart time.Time
}

// NewIngestionService creates the ingestion service.
func NewIngestionService(
	source MatchSource,
	games repositories.GameRepository,
	logger *logger.NewLogger,
	cfg *config.RiotConfiguration,
) *IngestionService {
	return &IngestionService{
		source:      source,
		games:       games,
		logger:      logger,
		pageSize:    cfg.PageSize,
		seasonStart: cfg.SeasonStart,
	}
}

// IngestRecentMatches runs the full pipeline for one account.
// All new games land in a single batch at the end, so a failure on the
// commit leaves nothing half stored. A single bad match only skips that
// match, but a auth failure aborts the whole run.
func (s *IngestionService) IngestRecentMatches(ctx context.Context, account *models.RiotAccount) (*IngestionResult, error) {
	matchIds, err := s.source.GetMatchList(ctx, account.Puuid, 0, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("couldn't get the match list for %s: %w", account.RiotId(), err)
	}

	existing, err := s.games.GetExistingMatchIds(ctx, account.ID, matchIds)
	if err != nil {
		return nil, fmt.Errorf("couldn't get the already stored matches: %w", err)
	}

	result := &IngestionResult{}
	var staged []*models.Game

	for _, matchId := range matchIds {
		if existing[matchId] {
			result.Skipped++
			continue
		}

		game, err := s.buildGame(ctx, account, matchId)
		if err != nil {
			// A bad key fails every following request too, and a drained
			// attempt budget means the API isn't answering right now.
			// Neither is a problem of this one match, so stop the account.
			var authErr *requests.AuthError
			var retriesErr *requests.MaxRetriesError
			if errors.As(err, &authErr) || errors.As(err, &retriesErr) {
				return nil, fmt.Errorf("aborting ingestion for %s: %w", account.RiotId(), err)
			}

			s.logger.Errorf("Couldn't process the match %s: %v", matchId, err)
			result.Failed++
			continue
		}

		// A nil game means the match was filtered out, not that it failed.
		if game == nil {
			result.Skipped++
			continue
		}

		staged = append(staged, game)
	}

	if err := s.games.CreateGamesBatch(ctx, staged); err != nil {
		return nil, fmt.Errorf("couldn't commit the batch of %d games: %w", len(staged), err)
	}

	result.Stored = len(staged)
	return result, nil
}

// buildGame fetches, normalizes and converts one match into a storable game.
// Returns nil without error when the match is filtered out.
func (s *IngestionService) buildGame(ctx context.Context, account *models.RiotAccount, matchId string) (*models.Game, error) {
	raw, err := s.source.GetRawMatch(ctx, matchId)
	if err != nil {
		return nil, err
	}

	match, err := matchfetcher.Normalize(raw)
	if err != nil {
		return nil, err
	}

	if match.Info.QueueId != queuevalues.RankedSoloDuo {
		s.logger.Infof("Skipping match %s: queue %d (%s) is not ranked solo/duo",
			matchId, match.Info.QueueId, queuevalues.Name(match.Info.QueueId))
		return nil, nil
	}

	if match.Info.GameCreation.Time().Before(s.seasonStart) {
		s.logger.Infof("Skipping match %s: played before the season start", matchId)
		return nil, nil
	}

	participant := findParticipant(match.Info.Participants, account.Puuid)
	if participant == nil {
		return nil, fmt.Errorf("puuid of %s not present in match %s", account.RiotId(), matchId)
	}

	teamKills := metrics.TeamKills(match.Info.Participants, participant.TeamId)
	computed := metrics.Compute(participant, match.Info.GameDuration, teamKills)

	return &models.Game{
		RiotAccountId: account.ID,
		MatchId:       match.Metadata.MatchId,
		ChampionId:    participant.ChampionId,
		Role:          participant.TeamPosition,
		Metrics:       computed,
		GameDuration:  match.Info.GameDuration,
		GameDate:      match.Info.GameCreation.Time(),
		Pentakill:     participant.PentaKills > 0,
	}, nil
}

// findParticipant returns the line of the tracked player.
func findParticipant(participants []matchfetcher.Participant, puuid string) *matchfetcher.Participant {
	for i := range participants {
		if participants[i].Puuid == puuid {
			return &participants[i]
		}
	}
	return nil
}
