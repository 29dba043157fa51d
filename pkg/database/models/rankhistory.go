package models

import "time"

// RankHistory is one immutable point of an account's rank over time.
// A entry is only appended when tier, division or LP actually changed.
type RankHistory struct {
	ID uint `gorm:"primaryKey"`

	RiotAccountId uint        `gorm:"not null;index"`
	RiotAccount   RiotAccount `gorm:"RiotAccountId"`

	Tier         string  `gorm:"type:tier_type;not null"`
	Division     *string `gorm:"type:rank_type"`
	LeaguePoints int     `gorm:"not null"`
	Wins         int     `gorm:"not null"`
	Losses       int     `gorm:"not null"`

	RecordedAt time.Time `gorm:"autoCreateTime;index"`
}
