package matchfetcher

import (
	"context"
	"encoding/json"
	"fmt"

	"coachstats/fetcher/requests"
)

// MatchFetcher wraps the match_v5 endpoints for one routing region.
type MatchFetcher struct {
	client        *requests.Client
	routingRegion string
}

// NewMatchFetcher creates a instance of the match fetcher.
func NewMatchFetcher(client *requests.Client, routingRegion string) *MatchFetcher {
	return &MatchFetcher{
		client:        client,
		routingRegion: routingRegion,
	}
}

// GetMatchList returns a page of recent match ids for the given player,
// most recent first.
func (m *MatchFetcher) GetMatchList(ctx context.Context, puuid string, start int, count int) ([]string, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/by-puuid/%s/ids?start=%d&count=%d",
		m.routingRegion, puuid, start, count)

	var matchIds []string
	if err := m.client.Get(ctx, url, &matchIds); err != nil {
		return nil, fmt.Errorf("couldn't get the match list: %w", err)
	}

	return matchIds, nil
}

// GetRawMatch returns the raw match document.
// The shape is unknown upfront, so the normalization happens separately.
func (m *MatchFetcher) GetRawMatch(ctx context.Context, matchId string) (json.RawMessage, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/%s",
		m.routingRegion, matchId)

	raw, err := m.client.GetRaw(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("couldn't get the match %s: %w", matchId, err)
	}

	return raw, nil
}
