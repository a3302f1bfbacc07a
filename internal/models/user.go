package models

import "time"

// User represents a user in the system
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Not serialized
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserProfile carries the coaching state kept between snapshots. The engine
// itself is stateless; CurrentLevel is stored only so a recompute can detect
// level-up transitions.
type UserProfile struct {
	UserID              int64     `json:"user_id"`
	CurrentLevel        int       `json:"current_level"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	UpdatedAt           time.Time `json:"updated_at"`
}
