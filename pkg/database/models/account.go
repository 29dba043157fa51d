package models

import "time"

// RiotAccount is a tracked account of one of the team's players.
// Holds the current and peak ranked standing.
type RiotAccount struct {
	ID uint `gorm:"primaryKey"`

	Puuid      string `gorm:"type:varchar(100);uniqueIndex"`
	SummonerId string `gorm:"type:varchar(70)"`
	GameName   string `gorm:"type:varchar(30);not null"`
	TagLine    string `gorm:"type:varchar(10);not null"`

	// Current standing. Division is null on the apex tiers.
	Tier         *string `gorm:"type:tier_type"`
	Division     *string `gorm:"type:rank_type"`
	LeaguePoints int
	Wins         int
	Losses       int

	// Peak standing, monotonically non decreasing.
	PeakTier         *string `gorm:"type:tier_type"`
	PeakDivision     *string `gorm:"type:rank_type"`
	PeakLeaguePoints int

	LastRefreshedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RiotId is the human readable name#tag form.
func (a *RiotAccount) RiotId() string {
	return a.GameName + "#" + a.TagLine
}
