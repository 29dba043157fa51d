package models

import (
	"time"

	"coachstats/fetcher/metrics"
)

// Game is one stored ranked game for a tracked account.
// The metric bundle is frozen at ingestion time and never recomputed.
type Game struct {
	ID uint `gorm:"primaryKey"`

	RiotAccountId uint        `gorm:"not null;index:idx_account_match,unique"`
	RiotAccount   RiotAccount `gorm:"RiotAccountId"`

	MatchId string `gorm:"type:varchar(20);not null;index:idx_account_match,unique"`

	ChampionId int    `gorm:"not null"`
	Role       string `gorm:"type:varchar(10);not null"`

	// Embedded frozen metrics.
	Metrics metrics.GameMetrics `gorm:"embedded"`

	GameDuration int       `gorm:"not null"`
	GameDate     time.Time `gorm:"not null;index"`
	Pentakill    bool      `gorm:"not null;default:false"`

	CreatedAt time.Time
}
