package accountfetcher

import (
	"context"
	"fmt"

	"coachstats/fetcher/requests"
)

// Account is the return of the account_v1 endpoint.
type Account struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// AccountFetcher wraps the account_v1 endpoints for one routing region.
type AccountFetcher struct {
	client        *requests.Client
	routingRegion string
}

// NewAccountFetcher creates a instance of the account fetcher.
func NewAccountFetcher(client *requests.Client, routingRegion string) *AccountFetcher {
	return &AccountFetcher{
		client:        client,
		routingRegion: routingRegion,
	}
}

// GetAccountByRiotId resolves a display name plus tag into the opaque puuid.
func (a *AccountFetcher) GetAccountByRiotId(ctx context.Context, gameName string, tagLine string) (*Account, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/riot/account/v1/accounts/by-riot-id/%s/%s",
		a.routingRegion, gameName, tagLine)

	var account Account
	if err := a.client.Get(ctx, url, &account); err != nil {
		return nil, fmt.Errorf("couldn't resolve the riot id %s#%s: %w", gameName, tagLine, err)
	}

	return &account, nil
}
