package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aaraalto/money-manager/internal/config"
	"github.com/aaraalto/money-manager/internal/finance"
	"github.com/aaraalto/money-manager/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeStore struct {
	users     map[int64]*models.User
	snapshots map[int64]models.Snapshot
	profiles  map[int64]*models.UserProfile
	nextID    int64

	savedPlans map[int64][]models.SpendingCategory
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[int64]*models.User),
		snapshots:  make(map[int64]models.Snapshot),
		profiles:   make(map[int64]*models.UserProfile),
		savedPlans: make(map[int64][]models.SpendingCategory),
		nextID:     1,
	}
}

func (f *fakeStore) CreateUser(user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (f *fakeStore) FindUserByID(id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (f *fakeStore) ListUserIDs() ([]int64, error) {
	var ids []int64
	for id := range f.snapshots {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) GetSnapshot(userID int64) (models.Snapshot, error) {
	snap, ok := f.snapshots[userID]
	if !ok {
		return models.Snapshot{}, fmt.Errorf("no snapshot for user %d", userID)
	}
	return snap, nil
}

func (f *fakeStore) GetSpendingPlan(userID int64) ([]models.SpendingCategory, error) {
	return f.snapshots[userID].Plan, nil
}

func (f *fakeStore) SaveSpendingPlan(userID int64, plan []models.SpendingCategory) error {
	snap := f.snapshots[userID]
	snap.Plan = plan
	f.snapshots[userID] = snap
	f.savedPlans[userID] = plan
	return nil
}

func (f *fakeStore) GetUserProfile(userID int64) (*models.UserProfile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return &models.UserProfile{UserID: userID}, nil
}

func (f *fakeStore) SaveUserProfile(profile *models.UserProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

type fakeCache struct {
	data    map[string]string
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(key string) (string, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) Set(key, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(key string) error {
	delete(f.data, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeNotifier struct {
	levelUps []int
}

func (f *fakeNotifier) SendLevelUp(_, _ string, level int, _ string) error {
	f.levelUps = append(f.levelUps, level)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.NewConfig()
	require.NoError(t, err)
	return cfg
}

func testService(t *testing.T, store *fakeStore) (*Service, *fakeCache, *fakeNotifier) {
	t.Helper()
	cache := newFakeCache()
	notifier := &fakeNotifier{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewService(store, cache, nil, notifier, log, testConfig(t))
	return svc, cache, notifier
}

// healthySnapshot is a solvent, debt-free household with a full cushion.
func healthySnapshot() models.Snapshot {
	return models.Snapshot{
		TakenAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Assets: []models.Asset{
			{Name: "Savings", Type: models.AssetCash, Value: dec("30000"), Liquid: true},
		},
		Income: []models.IncomeSource{
			{Source: "Job", Gross: dec("6000"), Net: dec("5000"), Frequency: models.PayMonthly},
		},
		Plan: []models.SpendingCategory{
			{Name: "Rent", Amount: dec("2000"), Kind: models.KindNeed},
			{Name: "Food", Amount: dec("1000"), Kind: models.KindNeed},
		},
	}
}

func userContext(id int64) context.Context {
	return context.WithValue(context.Background(), "userID", fmt.Sprintf("%d", id))
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := testService(t, store)

	user, err := svc.Register("sam", "sam@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "hunter22", user.PasswordHash, "password must be hashed")

	token, err := svc.Login("sam@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login("sam@example.com", "wrong")
	assert.Error(t, err)
}

func TestDashboardComputesAndCaches(t *testing.T) {
	store := newFakeStore()
	store.snapshots[1] = healthySnapshot()
	svc, cache, _ := testService(t, store)

	dash, err := svc.Dashboard(userContext(1))
	require.NoError(t, err)

	assert.True(t, dash.Metrics.NetWorth.Equal(dec("30000")))
	assert.Equal(t, 3, dash.Metrics.Level, "full cushion and no debt is Security")
	assert.Nil(t, dash.Debt, "no liabilities means no comparison")
	assert.NotEmpty(t, dash.Projection.Points)
	assert.NotEmpty(t, dash.Insights)

	_, cached := cache.Get("dashboard:1")
	assert.True(t, cached)

	// A second call must serve the cached payload, not recompute.
	again, err := svc.Dashboard(userContext(1))
	require.NoError(t, err)
	assert.True(t, again.Metrics.NetWorth.Equal(dash.Metrics.NetWorth))
}

func TestDashboardIncludesDebtComparison(t *testing.T) {
	store := newFakeStore()
	snap := healthySnapshot()
	snap.Liabilities = []models.Liability{
		{Name: "Card", Balance: dec("5000"), AnnualRate: dec("0.24"), MinPayment: dec("150")},
	}
	store.snapshots[1] = snap
	svc, _, _ := testService(t, store)

	dash, err := svc.Dashboard(userContext(1))
	require.NoError(t, err)
	require.NotNil(t, dash.Debt)
	assert.False(t, dash.Debt.Avalanche.Incomplete)
}

func TestDashboardRequiresAuthContext(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := testService(t, store)

	_, err := svc.Dashboard(context.Background())
	assert.Error(t, err)
}

func TestLevelUpNotification(t *testing.T) {
	store := newFakeStore()
	store.snapshots[1] = healthySnapshot()
	store.users[1] = &models.User{ID: 1, Email: "sam@example.com", Username: "sam"}
	store.profiles[1] = &models.UserProfile{UserID: 1, CurrentLevel: 2}
	svc, _, notifier := testService(t, store)

	_, err := svc.Dashboard(userContext(1))
	require.NoError(t, err)

	require.Len(t, notifier.levelUps, 1)
	assert.Equal(t, 3, notifier.levelUps[0])
	assert.Equal(t, 3, store.profiles[1].CurrentLevel)
}

func TestLevelDownUpdatesWithoutNotification(t *testing.T) {
	store := newFakeStore()
	store.snapshots[1] = healthySnapshot()
	store.users[1] = &models.User{ID: 1, Email: "sam@example.com", Username: "sam"}
	store.profiles[1] = &models.UserProfile{UserID: 1, CurrentLevel: 5}
	svc, _, notifier := testService(t, store)

	_, err := svc.Dashboard(userContext(1))
	require.NoError(t, err)

	assert.Empty(t, notifier.levelUps)
	assert.Equal(t, 3, store.profiles[1].CurrentLevel)
}

func TestSimulatePayoffSingleStrategy(t *testing.T) {
	store := newFakeStore()
	snap := healthySnapshot()
	snap.Liabilities = []models.Liability{
		{Name: "Card", Balance: dec("5000"), AnnualRate: dec("0.24"), MinPayment: dec("150")},
		{Name: "Loan", Balance: dec("9000"), AnnualRate: dec("0.06"), MinPayment: dec("100")},
	}
	store.snapshots[1] = snap
	svc, _, _ := testService(t, store)

	resp, err := svc.SimulatePayoff(userContext(1), SimulatePayoffRequest{
		Strategy:     finance.StrategyAvalanche,
		ExtraPayment: dec("400"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Schedule)
	assert.Nil(t, resp.Comparison)
	assert.False(t, resp.Schedule.Incomplete)
	assert.Greater(t, resp.Schedule.PayoffMonth, 0)
}

func TestSimulatePayoffCompare(t *testing.T) {
	store := newFakeStore()
	snap := healthySnapshot()
	snap.Liabilities = []models.Liability{
		{Name: "Card", Balance: dec("5000"), AnnualRate: dec("0.24"), MinPayment: dec("150")},
	}
	store.snapshots[1] = snap
	svc, _, _ := testService(t, store)

	resp, err := svc.SimulatePayoff(userContext(1), SimulatePayoffRequest{Compare: true})
	require.NoError(t, err)
	require.NotNil(t, resp.Comparison)
	assert.Nil(t, resp.Schedule)
}

func TestCommitScenarioPersistsAndRecomputes(t *testing.T) {
	store := newFakeStore()
	store.snapshots[1] = healthySnapshot()
	svc, cache, _ := testService(t, store)

	// Warm the cache first so the commit has something to invalidate.
	_, err := svc.Dashboard(userContext(1))
	require.NoError(t, err)

	result, err := svc.CommitScenario(userContext(1), finance.PlanChange{
		Category: "Food",
		Amount:   dec("1200"),
	})
	require.NoError(t, err)

	require.Len(t, result.Plan, 2)
	saved := store.savedPlans[1]
	require.Len(t, saved, 2)
	assert.True(t, saved[1].Amount.Equal(dec("1200")))
	assert.Contains(t, cache.deleted, "dashboard:1")
	assert.True(t, result.Dashboard.Metrics.MonthlySpending.Equal(dec("3200")))
}

func TestCommitScenarioInsufficientBudget(t *testing.T) {
	store := newFakeStore()
	store.snapshots[1] = healthySnapshot()
	svc, _, _ := testService(t, store)

	_, err := svc.CommitScenario(userContext(1), finance.PlanChange{
		Category: "Travel",
		Amount:   dec("2500"),
	})

	var budgetErr *finance.InsufficientBudgetError
	require.ErrorAs(t, err, &budgetErr)
	assert.True(t, budgetErr.Shortfall.Equal(dec("500")), "shortfall is the exact overrun")
	assert.Empty(t, store.savedPlans, "a rejected commit must not write")
}

func TestAssessPurchase(t *testing.T) {
	store := newFakeStore()
	store.snapshots[1] = healthySnapshot()
	svc, _, _ := testService(t, store)

	check, err := svc.AssessPurchase(userContext(1), dec("1000"))
	require.NoError(t, err)
	assert.True(t, check.Safe)
	assert.Equal(t, finance.RiskLow, check.RiskLevel)
}

func TestRecomputeAllLevels(t *testing.T) {
	store := newFakeStore()
	store.snapshots[1] = healthySnapshot()
	store.users[1] = &models.User{ID: 1, Email: "sam@example.com", Username: "sam"}
	svc, _, notifier := testService(t, store)

	require.NoError(t, svc.RecomputeAllLevels())

	assert.Equal(t, 3, store.profiles[1].CurrentLevel)
	require.Len(t, notifier.levelUps, 1)
}
