package repositories

import (
	"context"
	"fmt"

	"coachstats/pkg/database/models"

	"gorm.io/gorm"
)

// GameRepository is the public interface for the stored games.
type GameRepository interface {
	GetExistingMatchIds(ctx context.Context, accountId uint, matchIds []string) (map[string]bool, error)
	CreateGamesBatch(ctx context.Context, games []*models.Game) error
	GetAccountAverages(ctx context.Context, accountId uint) (*AccountAverages, error)
	GetChampionAverages(ctx context.Context, accountId uint) ([]ChampionAverages, error)
}

// AccountAverages are aggregates over the frozen per game metrics.
// Always computed by averaging the stored values, never re-derived from
// the raw counters.
type AccountAverages struct {
	TotalGames      int
	Wins            int
	Winrate         float64
	AvgKda          float64
	AvgCsPerMin     float64
	AvgGoldPerMin   float64
	AvgVisionPerMin float64
	AvgKp           float64
}

// ChampionAverages are the same aggregates grouped by champion.
type ChampionAverages struct {
	ChampionId  int
	GamesPlayed int
	Wins        int
	AvgKda      float64
	AvgCsPerMin float64
	AvgKp       float64
}

// gameRepository is the repository instance.
type gameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a new repository and return it.
func NewGameRepository(db *gorm.DB) (GameRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("missing database connection")
	}
	return &gameRepository{db: db}, nil
}

// GetExistingMatchIds returns which of the given match ids are already
// stored for the account. Used for the idempotent dedup on ingestion.
func (gr *gameRepository) GetExistingMatchIds(ctx context.Context, accountId uint, matchIds []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(matchIds))
	if len(matchIds) == 0 {
		return existing, nil
	}

	const batchSize = 1000
	for i := 0; i < len(matchIds); i += batchSize {
		end := min(i+batchSize, len(matchIds))

		var batch []string
		result := gr.db.WithContext(ctx).
			Model(&models.Game{}).
			Where("riot_account_id = ? AND match_id IN (?)", accountId, matchIds[i:end]).
			Pluck("match_id", &batch)
		if result.Error != nil {
			return nil, result.Error
		}

		for _, matchId := range batch {
			existing[matchId] = true
		}
	}

	return existing, nil
}

// CreateGamesBatch commits all staged games in one transaction.
// Any failure rolls back the entire batch.
func (gr *gameRepository) CreateGamesBatch(ctx context.Context, games []*models.Game) error {
	if len(games) == 0 {
		return nil
	}

	return gr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&games, 100).Error
	})
}

// GetAccountAverages aggregates the frozen metrics of every stored game.
func (gr *gameRepository) GetAccountAverages(ctx context.Context, accountId uint) (*AccountAverages, error) {
	var averages AccountAverages

	result := gr.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_games,
			COUNT(*) FILTER (WHERE win) AS wins,
			COALESCE(ROUND(AVG(kda)::numeric, 2), 0) AS avg_kda,
			COALESCE(ROUND(AVG(cs_per_min)::numeric, 2), 0) AS avg_cs_per_min,
			COALESCE(ROUND(AVG(gold_per_min)::numeric, 2), 0) AS avg_gold_per_min,
			COALESCE(ROUND(AVG(vision_per_min)::numeric, 2), 0) AS avg_vision_per_min,
			COALESCE(ROUND(AVG(kill_participation)::numeric, 2), 0) AS avg_kp
		FROM games
		WHERE riot_account_id = ?
	`, accountId).Scan(&averages)
	if result.Error != nil {
		return nil, result.Error
	}

	if averages.TotalGames > 0 {
		averages.Winrate = float64(averages.Wins) / float64(averages.TotalGames) * 100
	}

	return &averages, nil
}

// GetChampionAverages groups the frozen metrics by champion, most played first.
func (gr *gameRepository) GetChampionAverages(ctx context.Context, accountId uint) ([]ChampionAverages, error) {
	var averages []ChampionAverages

	result := gr.db.WithContext(ctx).Raw(`
		SELECT
			champion_id,
			COUNT(*) AS games_played,
			COUNT(*) FILTER (WHERE win) AS wins,
			COALESCE(ROUND(AVG(kda)::numeric, 2), 0) AS avg_kda,
			COALESCE(ROUND(AVG(cs_per_min)::numeric, 2), 0) AS avg_cs_per_min,
			COALESCE(ROUND(AVG(kill_participation)::numeric, 2), 0) AS avg_kp
		FROM games
		WHERE riot_account_id = ?
		GROUP BY champion_id
		ORDER BY games_played DESC
	`, accountId).Scan(&averages)
	if result.Error != nil {
		return nil, result.Error
	}

	return averages, nil
}
