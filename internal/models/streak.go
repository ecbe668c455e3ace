package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStreak is a user's consecutive-day completion state together with their
// current problem-of-the-day assignment.
type UserStreak struct {
	UserID         uuid.UUID  `json:"user_id"`
	StreakCount    int        `json:"streak_count"`
	LastPOTDDate   *time.Time `json:"last_potd_date"`
	POTDQuestionID *uuid.UUID `json:"potd_question_id"`
	POTDAssignedAt *time.Time `json:"potd_assigned_at"`
	POTDCompleted  bool       `json:"potd_completed"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
