package models

import (
	"time"

	"github.com/google/uuid"

	"revisio-backend/internal/scheduling"
)

type User struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	FullName  string          `json:"full_name"`
	Spacing   SpacingSettings `json:"spacing"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SpacingSettings holds one set of spacing parameters per difficulty bucket.
// Stored as a JSONB column on the user row.
type SpacingSettings map[Difficulty]scheduling.Params

// DefaultSpacingSettings returns the parameters applied to new profiles.
// Harder questions get slower interval growth so they come back sooner.
func DefaultSpacingSettings() SpacingSettings {
	return SpacingSettings{
		DifficultyHard:   {K: 1, C: 1.3, Iterations: 25},
		DifficultyMedium: {K: 1, C: 1.7, Iterations: 13},
		DifficultyEasy:   {K: 2, C: 2, Iterations: 10},
	}
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type UpdateSpacingRequest struct {
	Spacing SpacingSettings `json:"spacing"`
}
