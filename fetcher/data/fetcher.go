package data

import (
	accountfetcher "coachstats/fetcher/data/account"
	leaguefetcher "coachstats/fetcher/data/league"
	matchfetcher "coachstats/fetcher/data/match"
	"coachstats/fetcher/requests"
	"coachstats/pkg/config"
)

// Fetcher groups all the endpoint fetchers behind one shared client.
type Fetcher struct {
	Account *accountfetcher.AccountFetcher
	Match   *matchfetcher.MatchFetcher
	League  *leaguefetcher.LeagueFetcher
}

// NewFetcher instanciates the fetchers for the configured regions.
func NewFetcher(cfg *config.RiotConfiguration) *Fetcher {
	client := requests.NewClient(cfg.ApiKey, cfg.MaxRetries)

	return &Fetcher{
		Account: accountfetcher.NewAccountFetcher(client, cfg.RoutingRegion),
		Match:   matchfetcher.NewMatchFetcher(client, cfg.RoutingRegion),
		League:  leaguefetcher.NewLeagueFetcher(client, cfg.Region),
	}
}
