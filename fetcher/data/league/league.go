package leaguefetcher

import (
	"context"
	"fmt"

	"coachstats/fetcher/requests"
)

// SoloQueue is the queue type tracked for rank snapshots.
const SoloQueue = "RANKED_SOLO_5x5"

// LeagueEntry is the return type of the league_v4 entries.
type LeagueEntry struct {
	SummonerId   string  `json:"summonerId"`
	Puuid        string  `json:"puuid"`
	QueueType    string  `json:"queueType"`
	Tier         *string `json:"tier,omitempty"`
	Rank         *string `json:"rank,omitempty"`
	LeaguePoints int     `json:"leaguePoints"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
}

// LeagueFetcher wraps the league_v4 endpoints for one platform region.
type LeagueFetcher struct {
	client *requests.Client
	region string
}

// NewLeagueFetcher creates a instance of the league fetcher.
func NewLeagueFetcher(client *requests.Client, region string) *LeagueFetcher {
	return &LeagueFetcher{
		client: client,
		region: region,
	}
}

// GetLeagueByPuuid returns the player entries for every ranked queue.
func (l *LeagueFetcher) GetLeagueByPuuid(ctx context.Context, puuid string) ([]LeagueEntry, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/league/v4/entries/by-puuid/%s",
		l.region, puuid)

	var entries []LeagueEntry
	if err := l.client.Get(ctx, url, &entries); err != nil {
		return nil, fmt.Errorf("couldn't get the league entries: %w", err)
	}

	return entries, nil
}

// SoloQueueEntry picks the solo/duo entry from the list.
// A nil return means the account has no ranked data this season.
func SoloQueueEntry(entries []LeagueEntry) *LeagueEntry {
	for i := range entries {
		if entries[i].QueueType == SoloQueue {
			return &entries[i]
		}
	}
	return nil
}
