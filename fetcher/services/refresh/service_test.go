package refreshservice

import (
	"context"
	"errors"
	"testing"

	"coachstats/fetcher/repositories"
	ingestionservice "coachstats/fetcher/services/ingestion"
	rankservice "coachstats/fetcher/services/rank"
	"coachstats/fetcher/services/testutil"
	"coachstats/pkg/database/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// The ingester and refresher mocks live here instead of the shared testutil
// package, since testutil can't import the service packages it serves.
type mockMatchIngester struct {
	mock.Mock
}

func (m *mockMatchIngester) IngestRecentMatches(ctx context.Context, account *models.RiotAccount) (*ingestionservice.IngestionResult, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(*ingestionservice.IngestionResult), args.Error(1)
}

type mockRankRefresher struct {
	mock.Mock
}

func (m *mockRankRefresher) RefreshRank(ctx context.Context, account *models.RiotAccount) (*rankservice.RankUpdateResult, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(*rankservice.RankUpdateResult), args.Error(1)
}

// setupTestService wires a service with mocks and a test logger.
func setupTestService(t *testing.T) (
	*RefreshService,
	*testutil.MockAccountRepository,
	*testutil.MockGameRepository,
	*mockMatchIngester,
	*mockRankRefresher,
	*testutil.MockRefreshLocker,
) {
	t.Helper()

	mockAccounts := new(testutil.MockAccountRepository)
	mockGames := new(testutil.MockGameRepository)
	mockIngester := new(mockMatchIngester)
	mockRank := new(mockRankRefresher)
	mockLocker := new(testutil.MockRefreshLocker)

	service := NewRefreshService(mockAccounts, mockGames, mockIngester, mockRank, mockLocker, testutil.NewTestLogger(t))

	return service, mockAccounts, mockGames, mockIngester, mockRank, mockLocker
}

// expectSeasonSummary sets up the aggregate reads done after a refresh.
func expectSeasonSummary(ctx context.Context, mockGames *testutil.MockGameRepository, accountId uint) {
	mockGames.On("GetAccountAverages", ctx, accountId).
		Return(&repositories.AccountAverages{
			TotalGames:  4,
			Wins:        3,
			Winrate:     75,
			AvgKda:      4.21,
			AvgCsPerMin: 7.3,
		}, nil)
	mockGames.On("GetChampionAverages", ctx, accountId).
		Return([]repositories.ChampionAverages{
			{ChampionId: 7, GamesPlayed: 3, Wins: 2, AvgKda: 4.5, AvgKp: 61.2},
			{ChampionId: 103, GamesPlayed: 1, Wins: 1, AvgKda: 3.2, AvgKp: 55.0},
		}, nil)
}

func TestRefreshAccount(t *testing.T) {
	service, mockAccounts, mockGames, mockIngester, mockRank, mockLocker := setupTestService(t)
	ctx := context.Background()

	account := &models.RiotAccount{ID: 7, Puuid: "puuid-7", GameName: "Jankos", TagLine: "EUW"}

	mockAccounts.On("GetById", ctx, uint(7)).Return(account, nil)
	mockLocker.On("AcquireLock", ctx, "refresh:account:7", refreshLockTTL).Return(true, nil)
	mockLocker.On("ReleaseLock", ctx, "refresh:account:7").Return(nil)
	mockRank.On("RefreshRank", ctx, account).
		Return(&rankservice.RankUpdateResult{Changed: true}, nil)
	mockIngester.On("IngestRecentMatches", ctx, account).
		Return(&ingestionservice.IngestionResult{Stored: 3, Skipped: 5}, nil)
	mockAccounts.On("SetLastRefreshed", ctx, uint(7), mock.Anything).Return(nil)
	expectSeasonSummary(ctx, mockGames, 7)

	result, err := service.RefreshAccount(ctx, 7)

	require.NoError(t, err)
	assert.True(t, result.Rank.Changed)
	assert.Equal(t, 3, result.Ingestion.Stored)

	// The summary must read the stored aggregates, not recompute anything.
	mockGames.AssertCalled(t, "GetAccountAverages", ctx, uint(7))
	mockGames.AssertCalled(t, "GetChampionAverages", ctx, uint(7))

	testutil.VerifyAllMocks(t, mockAccounts, mockGames, mockIngester, mockRank, mockLocker)
}

func TestRefreshAccountSummaryFailureIsNotFatal(t *testing.T) {
	service, mockAccounts, mockGames, mockIngester, mockRank, mockLocker := setupTestService(t)
	ctx := context.Background()

	account := &models.RiotAccount{ID: 7, Puuid: "puuid-7", GameName: "Jankos", TagLine: "EUW"}

	mockAccounts.On("GetById", ctx, uint(7)).Return(account, nil)
	mockLocker.On("AcquireLock", ctx, "refresh:account:7", refreshLockTTL).Return(true, nil)
	mockLocker.On("ReleaseLock", ctx, "refresh:account:7").Return(nil)
	mockRank.On("RefreshRank", ctx, account).
		Return(&rankservice.RankUpdateResult{}, nil)
	mockIngester.On("IngestRecentMatches", ctx, account).
		Return(&ingestionservice.IngestionResult{Stored: 1}, nil)
	mockAccounts.On("SetLastRefreshed", ctx, uint(7), mock.Anything).Return(nil)
	mockGames.On("GetAccountAverages", ctx, uint(7)).
		Return((*repositories.AccountAverages)(nil), errors.New("connection reset"))

	result, err := service.RefreshAccount(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Ingestion.Stored)

	mockGames.AssertNotCalled(t, "GetChampionAverages", mock.Anything, mock.Anything)
}

func TestRefreshAccountAlreadyLocked(t *testing.T) {
	service, mockAccounts, _, mockIngester, mockRank, mockLocker := setupTestService(t)
	ctx := context.Background()

	account := &models.RiotAccount{ID: 7, Puuid: "puuid-7", GameName: "Jankos", TagLine: "EUW"}

	mockAccounts.On("GetById", ctx, uint(7)).Return(account, nil)
	mockLocker.On("AcquireLock", ctx, "refresh:account:7", refreshLockTTL).Return(false, nil)

	result, err := service.RefreshAccount(ctx, 7)

	require.ErrorIs(t, err, ErrRefreshInProgress)
	assert.Nil(t, result)

	mockRank.AssertNotCalled(t, "RefreshRank", mock.Anything, mock.Anything)
	mockIngester.AssertNotCalled(t, "IngestRecentMatches", mock.Anything, mock.Anything)
	mockLocker.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything)
}

func TestRefreshAccountRankFailureSkipsIngestion(t *testing.T) {
	service, mockAccounts, mockGames, mockIngester, mockRank, mockLocker := setupTestService(t)
	ctx := context.Background()

	account := &models.RiotAccount{ID: 7, Puuid: "puuid-7", GameName: "Jankos", TagLine: "EUW"}

	mockAccounts.On("GetById", ctx, uint(7)).Return(account, nil)
	mockLocker.On("AcquireLock", ctx, "refresh:account:7", refreshLockTTL).Return(true, nil)
	mockLocker.On("ReleaseLock", ctx, "refresh:account:7").Return(nil)
	mockRank.On("RefreshRank", ctx, account).
		Return((*rankservice.RankUpdateResult)(nil), errors.New("riot is down"))

	result, err := service.RefreshAccount(ctx, 7)

	require.Error(t, err)
	assert.Nil(t, result)

	mockIngester.AssertNotCalled(t, "IngestRecentMatches", mock.Anything, mock.Anything)
	mockAccounts.AssertNotCalled(t, "SetLastRefreshed", mock.Anything, mock.Anything, mock.Anything)
	mockGames.AssertNotCalled(t, "GetAccountAverages", mock.Anything, mock.Anything)

	// The lock must still be released after a failure.
	mockLocker.AssertCalled(t, "ReleaseLock", ctx, "refresh:account:7")
}

func TestRefreshAllIsolatesFailures(t *testing.T) {
	service, mockAccounts, mockGames, mockIngester, mockRank, mockLocker := setupTestService(t)
	ctx := context.Background()

	accounts := []models.RiotAccount{
		{ID: 1, Puuid: "puuid-1", GameName: "One", TagLine: "EUW"},
		{ID: 2, Puuid: "puuid-2", GameName: "Two", TagLine: "EUW"},
		{ID: 3, Puuid: "puuid-3", GameName: "Three", TagLine: "EUW"},
	}

	mockAccounts.On("ListAll", ctx).Return(accounts, nil)

	// Account 1 refreshes fine.
	mockLocker.On("AcquireLock", ctx, "refresh:account:1", refreshLockTTL).Return(true, nil)
	mockLocker.On("ReleaseLock", ctx, "refresh:account:1").Return(nil)
	mockRank.On("RefreshRank", ctx, mock.MatchedBy(func(a *models.RiotAccount) bool { return a.ID == 1 })).
		Return(&rankservice.RankUpdateResult{}, nil)
	mockIngester.On("IngestRecentMatches", ctx, mock.MatchedBy(func(a *models.RiotAccount) bool { return a.ID == 1 })).
		Return(&ingestionservice.IngestionResult{Stored: 2}, nil)
	mockAccounts.On("SetLastRefreshed", ctx, uint(1), mock.Anything).Return(nil)
	expectSeasonSummary(ctx, mockGames, 1)

	// Account 2 fails on the rank refresh.
	mockLocker.On("AcquireLock", ctx, "refresh:account:2", refreshLockTTL).Return(true, nil)
	mockLocker.On("ReleaseLock", ctx, "refresh:account:2").Return(nil)
	mockRank.On("RefreshRank", ctx, mock.MatchedBy(func(a *models.RiotAccount) bool { return a.ID == 2 })).
		Return((*rankservice.RankUpdateResult)(nil), errors.New("riot is down"))

	// Account 3 is already being refreshed elsewhere.
	mockLocker.On("AcquireLock", ctx, "refresh:account:3", refreshLockTTL).Return(false, nil)

	result, err := service.RefreshAll(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Refreshed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Skipped)

	testutil.VerifyAllMocks(t, mockAccounts, mockGames, mockIngester, mockRank, mockLocker)
}

func TestRefreshAllListError(t *testing.T) {
	service, mockAccounts, _, _, _, _ := setupTestService(t)
	ctx := context.Background()

	mockAccounts.On("ListAll", ctx).Return([]models.RiotAccount(nil), errors.New("connection reset"))

	result, err := service.RefreshAll(ctx)

	require.Error(t, err)
	assert.Nil(t, result)
}
