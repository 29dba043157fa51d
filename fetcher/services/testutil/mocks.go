package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	accountfetcher "coachstats/fetcher/data/account"
	leaguefetcher "coachstats/fetcher/data/league"
	"coachstats/fetcher/repositories"
	"coachstats/pkg/config"
	"coachstats/pkg/database/models"
	"coachstats/pkg/logger"

	"github.com/stretchr/testify/mock"
)

// Assert the expectations of all mocks.
func VerifyAllMocks(t *testing.T, mocks ...any) {
	t.Helper()

	for _, m := range mocks {
		if mockObj, ok := m.(interface{ AssertExpectations(*testing.T) bool }); ok {
			mockObj.AssertExpectations(t)
		}
	}
}

// NewTestLogger creates a throwaway logger writing to a temp file.
func NewTestLogger(t *testing.T) *logger.NewLogger {
	t.Helper()

	testLogger, err := logger.CreateLogger(&config.Config{})
	if err != nil {
		t.Fatalf("couldn't create the test logger: %v", err)
	}
	return testLogger
}

// ============================================================================
// Repository mock implementations.
// ============================================================================

// Account repository mock implementation.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetById(ctx context.Context, id uint) (*models.RiotAccount, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.RiotAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAll(ctx context.Context) ([]models.RiotAccount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.RiotAccount), args.Error(1)
}

func (m *MockAccountRepository) UpdateRank(ctx context.Context, account *models.RiotAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdatePuuid(ctx context.Context, accountId uint, puuid string) error {
	args := m.Called(ctx, accountId, puuid)
	return args.Error(0)
}

func (m *MockAccountRepository) SetLastRefreshed(ctx context.Context, accountId uint, refreshedAt time.Time) error {
	args := m.Called(ctx, accountId, refreshedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) AppendRankHistory(ctx context.Context, entry *models.RankHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Game repository mock implementation.
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) GetExistingMatchIds(ctx context.Context, accountId uint, matchIds []string) (map[string]bool, error) {
	args := m.Called(ctx, accountId, matchIds)
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *MockGameRepository) CreateGamesBatch(ctx context.Context, games []*models.Game) error {
	args := m.Called(ctx, games)
	return args.Error(0)
}

func (m *MockGameRepository) GetAccountAverages(ctx context.Context, accountId uint) (*repositories.AccountAverages, error) {
	args := m.Called(ctx, accountId)
	return args.Get(0).(*repositories.AccountAverages), args.Error(1)
}

func (m *MockGameRepository) GetChampionAverages(ctx context.Context, accountId uint) ([]repositories.ChampionAverages, error) {
	args := m.Called(ctx, accountId)
	return args.Get(0).([]repositories.ChampionAverages), args.Error(1)
}

// ============================================================================
// Riot fetcher mock implementations.
// ============================================================================

// Match source mock implementation.
type MockMatchSource struct {
	mock.Mock
}

func (m *MockMatchSource) GetMatchList(ctx context.Context, puuid string, start int, count int) ([]string, error) {
	args := m.Called(ctx, puuid, start, count)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMatchSource) GetRawMatch(ctx context.Context, matchId string) (json.RawMessage, error) {
	args := m.Called(ctx, matchId)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// League source mock implementation.
type MockLeagueSource struct {
	mock.Mock
}

func (m *MockLeagueSource) GetLeagueByPuuid(ctx context.Context, puuid string) ([]leaguefetcher.LeagueEntry, error) {
	args := m.Called(ctx, puuid)
	return args.Get(0).([]leaguefetcher.LeagueEntry), args.Error(1)
}

// Account source mock implementation.
type MockAccountSource struct {
	mock.Mock
}

func (m *MockAccountSource) GetAccountByRiotId(ctx context.Context, gameName string, tagLine string) (*accountfetcher.Account, error) {
	args := m.Called(ctx, gameName, tagLine)
	return args.Get(0).(*accountfetcher.Account), args.Error(1)
}

// ============================================================================
// Mock implementations used on the refresh service tests.
// ============================================================================

// Refresh locker mock implementation.
type MockRefreshLocker struct {
	mock.Mock
}

func (m *MockRefreshLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockRefreshLocker) ReleaseLock(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
