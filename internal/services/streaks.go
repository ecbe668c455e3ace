package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"revisio-backend/internal/models"
	"revisio-backend/internal/scheduling"
)

type streakStore interface {
	Ensure(ctx context.Context, userID uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error)
	ResetIfStale(ctx context.Context, userID uuid.UUID, today time.Time) (bool, error)
	CompareAndSwapCompletion(ctx context.Context, userID uuid.UUID, prevLast *time.Time, streak int, today time.Time) (bool, error)
	SetPOTD(ctx context.Context, userID, questionID uuid.UUID, assignedAt time.Time) error
}

// completionAttempts bounds the compare-and-swap retry loop. One retry is
// enough: a second conflict means another request already completed today's
// POTD.
const completionAttempts = 2

type StreakService struct {
	streaks streakStore
	clock   scheduling.Clock
}

func NewStreakService(streaks streakStore, clock scheduling.Clock) *StreakService {
	return &StreakService{streaks: streaks, clock: clock}
}

func (s *StreakService) Get(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error) {
	state, err := s.streaks.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "User not found"}
		}
		return nil, storageError("load streak", err)
	}
	return state, nil
}

// CompletePOTD marks the current problem of the day done and advances the
// streak: a completion exactly one day after the previous one extends it,
// anything else restarts at 1. The write is a compare-and-swap on the
// previously read last_potd_date so concurrent completions cannot
// double-increment.
func (s *StreakService) CompletePOTD(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error) {
	for attempt := 0; attempt < completionAttempts; attempt++ {
		state, err := s.Get(ctx, userID)
		if err != nil {
			return nil, err
		}

		if state.POTDQuestionID == nil {
			return nil, &ConflictError{Message: "No problem of the day is assigned"}
		}
		if state.POTDCompleted {
			return nil, &ConflictError{Message: "Today's problem is already completed"}
		}

		today := s.clock.Now()
		next := scheduling.NextStreak(state.StreakCount, state.LastPOTDDate, today)

		swapped, err := s.streaks.CompareAndSwapCompletion(ctx, userID, state.LastPOTDDate, next, scheduling.DayStart(today))
		if err != nil {
			return nil, storageError("complete potd", err)
		}
		if swapped {
			return s.Get(ctx, userID)
		}
		// Lost the race; re-read and try once more.
	}

	return nil, &ConflictError{Message: "Concurrent streak update, please retry"}
}
