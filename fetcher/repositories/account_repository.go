package repositories

import (
	"context"
	"fmt"
	"time"

	"coachstats/pkg/database/models"

	"gorm.io/gorm"
)

// AccountRepository is the public interface for the tracked accounts.
type AccountRepository interface {
	GetById(ctx context.Context, id uint) (*models.RiotAccount, error)
	ListAll(ctx context.Context) ([]models.RiotAccount, error)
	UpdateRank(ctx context.Context, account *models.RiotAccount) error
	UpdatePuuid(ctx context.Context, accountId uint, puuid string) error
	SetLastRefreshed(ctx context.Context, accountId uint, refreshedAt time.Time) error
	AppendRankHistory(ctx context.Context, entry *models.RankHistory) error
}

// accountRepository is the repository instance.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new repository and return it.
func NewAccountRepository(db *gorm.DB) (AccountRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("missing database connection")
	}
	return &accountRepository{db: db}, nil
}

// GetById returns one tracked account.
func (ar *accountRepository) GetById(ctx context.Context, id uint) (*models.RiotAccount, error) {
	var account models.RiotAccount
	result := ar.db.WithContext(ctx).First(&account, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &account, nil
}

// ListAll returns every tracked account.
func (ar *accountRepository) ListAll(ctx context.Context) ([]models.RiotAccount, error) {
	var accounts []models.RiotAccount
	result := ar.db.WithContext(ctx).Order("id").Find(&accounts)
	if result.Error != nil {
		return nil, result.Error
	}
	return accounts, nil
}

// UpdateRank persists the current and peak standing of the account.
func (ar *accountRepository) UpdateRank(ctx context.Context, account *models.RiotAccount) error {
	return ar.db.WithContext(ctx).
		Model(&models.RiotAccount{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"tier":               account.Tier,
			"division":           account.Division,
			"league_points":      account.LeaguePoints,
			"wins":               account.Wins,
			"losses":             account.Losses,
			"peak_tier":          account.PeakTier,
			"peak_division":      account.PeakDivision,
			"peak_league_points": account.PeakLeaguePoints,
		}).Error
}

// UpdatePuuid persists a corrected puuid after a re-resolve.
func (ar *accountRepository) UpdatePuuid(ctx context.Context, accountId uint, puuid string) error {
	return ar.db.WithContext(ctx).
		Model(&models.RiotAccount{}).
		Where("id = ?", accountId).
		Update("puuid", puuid).Error
}

// SetLastRefreshed marks the moment the account finished a refresh.
func (ar *accountRepository) SetLastRefreshed(ctx context.Context, accountId uint, refreshedAt time.Time) error {
	return ar.db.WithContext(ctx).
		Model(&models.RiotAccount{}).
		Where("id = ?", accountId).
		Update("last_refreshed_at", refreshedAt).Error
}

// AppendRankHistory creates one immutable history entry.
func (ar *accountRepository) AppendRankHistory(ctx context.Context, entry *models.RankHistory) error {
	return ar.db.WithContext(ctx).Create(entry).Error
}
