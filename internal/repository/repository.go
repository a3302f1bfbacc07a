package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aaraalto/money-manager/internal/models"
	"github.com/lib/pq"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO coach.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM coach.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM coach.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUserIDs returns every user id, for scheduled recomputes.
func (r *Repository) ListUserIDs() ([]int64, error) {
	rows, err := r.db.Query(`SELECT id FROM coach.users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetSnapshot assembles the user's complete financial snapshot.
func (r *Repository) GetSnapshot(userID int64) (models.Snapshot, error) {
	snap := models.Snapshot{TakenAt: time.Now().UTC()}

	assets, err := r.listAssets(userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	liabilities, err := r.listLiabilities(userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	income, err := r.listIncomeSources(userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	plan, err := r.GetSpendingPlan(userID)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap.Assets = assets
	snap.Liabilities = liabilities
	snap.Income = income
	snap.Plan = plan
	return snap, nil
}

func (r *Repository) listAssets(userID int64) ([]models.Asset, error) {
	query := `
		SELECT name, type, value, apy, liquid
		FROM coach.assets
		WHERE user_id = $1
		ORDER BY name`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.Name, &a.Type, &a.Value, &a.APY, &a.Liquid); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *Repository) listLiabilities(userID int64) ([]models.Liability, error) {
	query := `
		SELECT name, balance, annual_rate, min_payment, tags
		FROM coach.liabilities
		WHERE user_id = $1
		ORDER BY name`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []models.Liability
	for rows.Next() {
		var l models.Liability
		var tags pq.StringArray
		if err := rows.Scan(&l.Name, &l.Balance, &l.AnnualRate, &l.MinPayment, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		for _, t := range tags {
			l.Tags = append(l.Tags, models.LiabilityTag(t))
		}
		liabilities = append(liabilities, l)
	}
	return liabilities, rows.Err()
}

func (r *Repository) listIncomeSources(userID int64) ([]models.IncomeSource, error) {
	query := `
		SELECT source, gross, net, frequency
		FROM coach.income_sources
		WHERE user_id = $1
		ORDER BY source`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list income sources: %w", err)
	}
	defer rows.Close()

	var sources []models.IncomeSource
	for rows.Next() {
		var s models.IncomeSource
		if err := rows.Scan(&s.Source, &s.Gross, &s.Net, &s.Frequency); err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// GetSpendingPlan returns the user's spending plan in stored order.
func (r *Repository) GetSpendingPlan(userID int64) ([]models.SpendingCategory, error) {
	query := `
		SELECT name, amount, kind
		FROM coach.spending_plan
		WHERE user_id = $1
		ORDER BY position`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get spending plan: %w", err)
	}
	defer rows.Close()

	var plan []models.SpendingCategory
	for rows.Next() {
		var c models.SpendingCategory
		if err := rows.Scan(&c.Name, &c.Amount, &c.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan spending category: %w", err)
		}
		plan = append(plan, c)
	}
	return plan, rows.Err()
}

// SaveSpendingPlan replaces the user's spending plan in one transaction. The
// caller holds the only validated copy, so the write is all-or-nothing.
func (r *Repository) SaveSpendingPlan(userID int64, plan []models.SpendingCategory) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM coach.spending_plan WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear spending plan: %w", err)
	}

	insert := `
		INSERT INTO coach.spending_plan (user_id, position, name, amount, kind)
		VALUES ($1, $2, $3, $4, $5)`
	for i, c := range plan {
		if _, err := tx.Exec(insert, userID, i, c.Name, c.Amount, c.Kind); err != nil {
			return fmt.Errorf("failed to insert spending category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit spending plan: %w", err)
	}
	return nil
}

// GetUserProfile retrieves the stored coaching profile, creating a zeroed
// one on first access.
func (r *Repository) GetUserProfile(userID int64) (*models.UserProfile, error) {
	profile := &models.UserProfile{UserID: userID}
	query := `
		SELECT current_level, onboarding_completed, updated_at
		FROM coach.user_profiles
		WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).
		Scan(&profile.CurrentLevel, &profile.OnboardingCompleted, &profile.UpdatedAt)
	if err == sql.ErrNoRows {
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return profile, nil
}

// SaveUserProfile upserts the coaching profile.
func (r *Repository) SaveUserProfile(profile *models.UserProfile) error {
	query := `
		INSERT INTO coach.user_profiles (user_id, current_level, onboarding_completed, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET current_level = EXCLUDED.current_level,
		    onboarding_completed = EXCLUDED.onboarding_completed,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`
	err := r.db.QueryRow(query, profile.UserID, profile.CurrentLevel, profile.OnboardingCompleted).
		Scan(&profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}
