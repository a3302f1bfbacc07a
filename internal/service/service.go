package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aaraalto/money-manager/internal/config"
	"github.com/aaraalto/money-manager/internal/finance"
	"github.com/aaraalto/money-manager/internal/models"
	"github.com/aaraalto/money-manager/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Store is the persistence surface the service needs. *repository.Repository
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)
	ListUserIDs() ([]int64, error)
	GetSnapshot(userID int64) (models.Snapshot, error)
	GetSpendingPlan(userID int64) ([]models.SpendingCategory, error)
	SaveSpendingPlan(userID int64, plan []models.SpendingCategory) error
	GetUserProfile(userID int64) (*models.UserProfile, error)
	SaveUserProfile(profile *models.UserProfile) error
}

// RateSource supplies the central-bank key rate used as the projection
// growth default when the request does not name one.
type RateSource interface {
	KeyRate(ctx context.Context) (decimal.Decimal, error)
}

// Notifier delivers coaching emails.
type Notifier interface {
	SendLevelUp(email, username string, level int, levelName string) error
}

const dashboardCacheTTL = 15 * time.Minute

// Service handles business logic
type Service struct {
	store    Store
	cache    repository.Cache
	rates    RateSource
	notifier Notifier
	log      *logrus.Logger
	config   *config.Config
}

// NewService initializes a new service. cache, rates and notifier may be nil
// when the corresponding backend is not configured.
func NewService(store Store, cache repository.Cache, rates RateSource, notifier Notifier, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{store: store, cache: cache, rates: rates, notifier: notifier, log: log, config: cfg}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

func userIDFromContext(ctx context.Context) (int64, error) {
	userIDStr, ok := ctx.Value("userID").(string)
	if !ok || userIDStr == "" {
		return 0, fmt.Errorf("user ID not found in context")
	}
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return userID, nil
}

// Dashboard is the full coaching picture for one user.
type Dashboard struct {
	Metrics    finance.Metrics     `json:"metrics"`
	Debt       *finance.Comparison `json:"debt,omitempty"`
	Projection finance.Series      `json:"projection"`
	Insights   []finance.Insight   `json:"insights"`
	GrowthRate decimal.Decimal     `json:"growth_rate"`
}

// Dashboard computes metrics, the payoff strategy comparison, the net worth
// projection and coaching insights for the authenticated user. Results are
// cached until the next plan change.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, ok := s.cache.Get(dashboardKey(userID)); ok {
			var dash Dashboard
			if err := json.Unmarshal([]byte(raw), &dash); err == nil {
				return &dash, nil
			}
			s.log.Warnf("Discarding unreadable dashboard cache for user %d", userID)
		}
	}

	snap, err := s.store.GetSnapshot(userID)
	if err != nil {
		return nil, err
	}

	dash, err := s.buildDashboard(ctx, snap)
	if err != nil {
		return nil, err
	}

	if err := s.trackLevel(userID, dash.Metrics); err != nil {
		s.log.Warnf("Failed to track level for user %d: %v", userID, err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(dash); err == nil {
			if err := s.cache.Set(dashboardKey(userID), string(raw), dashboardCacheTTL); err != nil {
				s.log.Warnf("Failed to cache dashboard for user %d: %v", userID, err)
			}
		}
	}
	return dash, nil
}

func (s *Service) buildDashboard(ctx context.Context, snap models.Snapshot) (*Dashboard, error) {
	metrics, err := finance.ComputeMetrics(snap, s.config.Policy())
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{Metrics: metrics}

	if len(snap.Liabilities) > 0 {
		cmp, err := finance.CompareStrategies(snap.Liabilities, s.config.DefaultExtraPayment, snap.TakenAt, s.config.Policy())
		if err != nil {
			return nil, err
		}
		dash.Debt = &cmp
	}

	dash.GrowthRate = s.growthRate(ctx)
	contribution := decimal.Max(metrics.Surplus, decimal.Zero)
	proj, err := finance.NewProjection(metrics.NetWorth, contribution, dash.GrowthRate, s.config.ProjectionHorizonYears*12)
	if err != nil {
		return nil, err
	}
	dash.Projection = proj.StartingAt(snap.TakenAt).Run()

	insights, err := finance.GenerateInsights(snap, s.config.Policy())
	if err != nil {
		return nil, err
	}
	dash.Insights = insights

	return dash, nil
}

// growthRate prefers the live key rate and falls back to the configured
// default when the rates backend is absent or unreachable.
func (s *Service) growthRate(ctx context.Context) decimal.Decimal {
	if s.rates == nil {
		return s.config.DefaultGrowthRate
	}
	rate, err := s.rates.KeyRate(ctx)
	if err != nil {
		s.log.Warnf("Failed to fetch key rate, using default: %v", err)
		return s.config.DefaultGrowthRate
	}
	return rate
}

// trackLevel persists the newly computed level and fires a congratulation
// when the user climbed at least one tier.
func (s *Service) trackLevel(userID int64, metrics finance.Metrics) error {
	profile, err := s.store.GetUserProfile(userID)
	if err != nil {
		return err
	}
	if metrics.Level == profile.CurrentLevel {
		return nil
	}

	climbed := metrics.Level > profile.CurrentLevel
	profile.CurrentLevel = metrics.Level
	if err := s.store.SaveUserProfile(profile); err != nil {
		return err
	}

	if climbed && s.notifier != nil {
		user, err := s.store.FindUserByID(userID)
		if err != nil {
			return err
		}
		if err := s.notifier.SendLevelUp(user.Email, user.Username, metrics.Level, metrics.LevelName); err != nil {
			s.log.Warnf("Failed to send level-up email to %s: %v", user.Email, err)
		}
	}
	return nil
}

// SimulatePayoffRequest carries the knobs of a what-if payoff run.
type SimulatePayoffRequest struct {
	Strategy      finance.Strategy `json:"strategy"`
	ExtraPayment  decimal.Decimal  `json:"extra_payment"`
	MonthlyBudget decimal.Decimal  `json:"monthly_budget"`
	Compare       bool             `json:"compare"`
}

// SimulatePayoffResponse returns either a single schedule or, when Compare
// is set, both strategies side by side.
type SimulatePayoffResponse struct {
	Schedule   *finance.Schedule   `json:"schedule,omitempty"`
	Comparison *finance.Comparison `json:"comparison,omitempty"`
}

// SimulatePayoff runs the debt engine against the user's stored liabilities.
func (s *Service) SimulatePayoff(ctx context.Context, req SimulatePayoffRequest) (*SimulatePayoffResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.GetSnapshot(userID)
	if err != nil {
		return nil, err
	}

	extra := req.ExtraPayment
	if extra.IsZero() && req.MonthlyBudget.IsZero() {
		extra = s.config.DefaultExtraPayment
	}

	if req.Compare {
		cmp, err := finance.CompareStrategies(snap.Liabilities, extra, snap.TakenAt, s.config.Policy())
		if err != nil {
			return nil, err
		}
		return &SimulatePayoffResponse{Comparison: &cmp}, nil
	}

	sched, err := finance.SimulatePayoff(finance.PayoffInput{
		Liabilities:   snap.Liabilities,
		ExtraPayment:  extra,
		MonthlyBudget: req.MonthlyBudget,
		Strategy:      req.Strategy,
		Start:         snap.TakenAt,
	}, s.config.Policy())
	if err != nil {
		return nil, err
	}
	return &SimulatePayoffResponse{Schedule: &sched}, nil
}

// CommitResult is the post-commit state: the saved plan plus a fresh
// recompute of everything the plan feeds.
type CommitResult struct {
	Plan      []models.SpendingCategory `json:"plan"`
	Dashboard *Dashboard                `json:"dashboard"`
}

// CommitScenario applies a plan change, persists it, and recomputes the
// dashboard in one pass. A change that would overrun the user's net income
// is rejected with the exact shortfall and nothing is written.
func (s *Service) CommitScenario(ctx context.Context, change finance.PlanChange) (*CommitResult, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.GetSnapshot(userID)
	if err != nil {
		return nil, err
	}

	metrics, err := finance.ComputeMetrics(snap, s.config.Policy())
	if err != nil {
		return nil, err
	}

	newPlan, err := finance.CommitPlanChange(snap.Plan, change, metrics.MonthlyNetIncome)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveSpendingPlan(userID, newPlan); err != nil {
		return nil, err
	}
	s.invalidateDashboard(userID)

	snap.Plan = newPlan
	dash, err := s.buildDashboard(ctx, snap)
	if err != nil {
		return nil, err
	}
	if err := s.trackLevel(userID, dash.Metrics); err != nil {
		s.log.Warnf("Failed to track level for user %d: %v", userID, err)
	}

	s.log.Infof("Scenario committed for user %d: %s -> %s", userID, change.Category, change.Amount)
	return &CommitResult{Plan: newPlan, Dashboard: dash}, nil
}

// AssessPurchase answers "can I afford this" against current liquidity.
func (s *Service) AssessPurchase(ctx context.Context, cost decimal.Decimal) (*finance.AffordabilityCheck, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.GetSnapshot(userID)
	if err != nil {
		return nil, err
	}
	metrics, err := finance.ComputeMetrics(snap, s.config.Policy())
	if err != nil {
		return nil, err
	}

	check := finance.AssessAffordability(cost, metrics.LiquidAssets, metrics.MonthlyBurn, s.config.Policy())
	return &check, nil
}

// RecomputeAllLevels refreshes every user's stored level. Run nightly so a
// level change caused by time passing, not by an edit, still notifies.
func (s *Service) RecomputeAllLevels() error {
	ids, err := s.store.ListUserIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		snap, err := s.store.GetSnapshot(id)
		if err != nil {
			s.log.Warnf("Skipping level recompute for user %d: %v", id, err)
			continue
		}
		metrics, err := finance.ComputeMetrics(snap, s.config.Policy())
		if err != nil {
			s.log.Warnf("Skipping level recompute for user %d: %v", id, err)
			continue
		}
		if err := s.trackLevel(id, metrics); err != nil {
			s.log.Warnf("Failed to track level for user %d: %v", id, err)
		}
		s.invalidateDashboard(id)
	}
	s.log.Infof("Level recompute finished for %d users", len(ids))
	return nil
}

func (s *Service) invalidateDashboard(userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(dashboardKey(userID)); err != nil {
		s.log.Warnf("Failed to invalidate dashboard cache for user %d: %v", userID, err)
	}
}

func dashboardKey(userID int64) string {
	return fmt.Sprintf("dashboard:%d", userID)
}
