package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"revisio-backend/internal/models"
)

type StreakRepo struct {
	pool *pgxpool.Pool
}

func NewStreakRepo(pool *pgxpool.Pool) *StreakRepo {
	return &StreakRepo{pool: pool}
}

// Ensure creates the streak row for a new user. Safe to call repeatedly.
func (r *StreakRepo) Ensure(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO user_streaks (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING",
		userID,
	)
	return err
}

func (r *StreakRepo) Get(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error) {
	s := &models.UserStreak{}

	query := `SELECT user_id, streak_count, last_potd_date, potd_question_id,
		potd_assigned_at, potd_completed, updated_at
		FROM user_streaks WHERE user_id = $1`

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.StreakCount, &s.LastPOTDDate, &s.POTDQuestionID,
		&s.POTDAssignedAt, &s.POTDCompleted, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ResetIfStale zeroes the streak when the last POTD completion is missing or
// more than one calendar day before today. The condition lives in SQL so the
// reset is a single round trip per user.
func (r *StreakRepo) ResetIfStale(ctx context.Context, userID uuid.UUID, today time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE user_streaks
		SET streak_count = 0, updated_at = NOW()
		WHERE user_id = $1
		  AND streak_count <> 0
		  AND (last_potd_date IS NULL OR last_potd_date < $2::date - 1)
	`, userID, today)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CompareAndSwapCompletion writes the post-completion streak state only if
// last_potd_date still holds the value the caller read. A zero row count
// means another writer got there first; the caller re-reads and retries.
func (r *StreakRepo) CompareAndSwapCompletion(ctx context.Context, userID uuid.UUID, prevLast *time.Time, streak int, today time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE user_streaks
		SET streak_count = $1, last_potd_date = $2, potd_completed = TRUE, updated_at = NOW()
		WHERE user_id = $3
		  AND last_potd_date IS NOT DISTINCT FROM $4
	`, streak, today, userID, prevLast)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SetPOTD records the day's assignment and clears the completion flag.
func (r *StreakRepo) SetPOTD(ctx context.Context, userID, questionID uuid.UUID, assignedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE user_streaks
		SET potd_question_id = $1, potd_assigned_at = $2, potd_completed = FALSE, updated_at = NOW()
		WHERE user_id = $3
	`, questionID, assignedAt, userID)
	return err
}
