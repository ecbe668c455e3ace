package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"revisio-backend/internal/scheduling"
)

func newTestScheduler(users *fakeUserIDStream, sampler *fakeSampler, streaks streakStore, lock *fakeLock) *POTDScheduler {
	clock := scheduling.FixedClock{Time: time.Date(2024, 6, 10, 0, 0, 5, 0, time.UTC)}
	return NewPOTDScheduler(users, sampler, streaks, lock, time.Hour, clock)
}

type recordingStreakStore struct {
	fakeStreakStore
	resets      []uuid.UUID
	assignments map[uuid.UUID]uuid.UUID
}

func newRecordingStreakStore() *recordingStreakStore {
	s := &recordingStreakStore{assignments: make(map[uuid.UUID]uuid.UUID)}
	s.resetIfStaleFn = func(ctx context.Context, userID uuid.UUID, today time.Time) (bool, error) {
		s.resets = append(s.resets, userID)
		return true, nil
	}
	s.setPOTDFn = func(ctx context.Context, userID, questionID uuid.UUID, assignedAt time.Time) error {
		s.assignments[userID] = questionID
		return nil
	}
	return s
}

func TestRunOnceAssignsEachUser(t *testing.T) {
	userA, userB, userC := uuid.New(), uuid.New(), uuid.New()
	users := &fakeUserIDStream{ids: []uuid.UUID{userA, userB, userC}}

	questionFor := map[uuid.UUID]uuid.UUID{
		userA: uuid.New(),
		userB: uuid.New(),
		userC: uuid.New(),
	}
	sampler := &fakeSampler{
		sampleFn: func(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
			return questionFor[userID], true, nil
		},
	}
	streaks := newRecordingStreakStore()
	lock := &fakeLock{acquired: true}

	newTestScheduler(users, sampler, streaks, lock).runOnce(context.Background())

	if len(streaks.resets) != 3 {
		t.Errorf("Expected 3 reset passes, got %d", len(streaks.resets))
	}
	if len(streaks.assignments) != 3 {
		t.Fatalf("Expected 3 assignments, got %d", len(streaks.assignments))
	}
	for userID, questionID := range questionFor {
		if streaks.assignments[userID] != questionID {
			t.Errorf("User %s: expected question %s, got %s", userID, questionID, streaks.assignments[userID])
		}
	}
	if len(lock.keys) != 1 || lock.keys[0] != "potd:run:2024-06-10" {
		t.Errorf("Expected one day-scoped lock key, got %v", lock.keys)
	}
}

func TestRunOnceSkipsUsersWithoutQuestions(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserIDStream{ids: []uuid.UUID{userID}}
	sampler := &fakeSampler{
		sampleFn: func(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
			return uuid.Nil, false, nil
		},
	}
	streaks := newRecordingStreakStore()

	newTestScheduler(users, sampler, streaks, &fakeLock{acquired: true}).runOnce(context.Background())

	if len(streaks.resets) != 1 {
		t.Errorf("Expected the reset pass to still run, got %d resets", len(streaks.resets))
	}
	if len(streaks.assignments) != 0 {
		t.Errorf("Expected no assignment for a user without questions, got %d", len(streaks.assignments))
	}
}

func TestRunOnceIsolatesPerUserFailures(t *testing.T) {
	userA, userB, userC := uuid.New(), uuid.New(), uuid.New()
	users := &fakeUserIDStream{ids: []uuid.UUID{userA, userB, userC}}

	sampler := &fakeSampler{
		sampleFn: func(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
			if userID == userB {
				return uuid.Nil, false, errors.New("store hiccup")
			}
			return uuid.New(), true, nil
		},
	}
	streaks := newRecordingStreakStore()

	newTestScheduler(users, sampler, streaks, &fakeLock{acquired: true}).runOnce(context.Background())

	if len(streaks.assignments) != 2 {
		t.Errorf("Expected 2 assignments despite one failure, got %d", len(streaks.assignments))
	}
	if _, ok := streaks.assignments[userB]; ok {
		t.Errorf("Expected failed user to have no assignment")
	}
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	users := &fakeUserIDStream{ids: []uuid.UUID{uuid.New()}}
	streaks := newRecordingStreakStore()
	sampler := &fakeSampler{
		sampleFn: func(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
			return uuid.New(), true, nil
		},
	}

	newTestScheduler(users, sampler, streaks, &fakeLock{acquired: false}).runOnce(context.Background())

	if len(streaks.resets) != 0 || len(streaks.assignments) != 0 {
		t.Errorf("Expected no work while another run holds the lock")
	}
}

func TestRunOnceContinuesWhenLockUnavailable(t *testing.T) {
	users := &fakeUserIDStream{ids: []uuid.UUID{uuid.New()}}
	streaks := newRecordingStreakStore()
	sampler := &fakeSampler{
		sampleFn: func(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
			return uuid.New(), true, nil
		},
	}
	lock := &fakeLock{err: errors.New("redis down")}

	newTestScheduler(users, sampler, streaks, lock).runOnce(context.Background())

	if len(streaks.assignments) != 1 {
		t.Errorf("Expected the run to proceed when the lock is unavailable, got %d assignments", len(streaks.assignments))
	}
}

func TestProcessUserResetBeforeAssignment(t *testing.T) {
	userID := uuid.New()
	var order []string

	streaks := &fakeStreakStore{
		resetIfStaleFn: func(ctx context.Context, id uuid.UUID, today time.Time) (bool, error) {
			order = append(order, "reset")
			return true, nil
		},
		setPOTDFn: func(ctx context.Context, id, questionID uuid.UUID, assignedAt time.Time) error {
			order = append(order, "assign")
			return nil
		},
	}
	sampler := &fakeSampler{
		sampleFn: func(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
			order = append(order, "sample")
			return uuid.New(), true, nil
		},
	}

	s := newTestScheduler(&fakeUserIDStream{}, sampler, streaks, &fakeLock{acquired: true})
	if err := s.processUser(context.Background(), userID, time.Now().UTC()); err != nil {
		t.Fatalf("processUser returned error: %v", err)
	}

	if len(order) != 3 || order[0] != "reset" || order[1] != "sample" || order[2] != "assign" {
		t.Errorf("Expected reset → sample → assign, got %v", order)
	}
}

func TestProcessUserResetFailureStopsAssignment(t *testing.T) {
	streaks := &fakeStreakStore{
		resetIfStaleFn: func(ctx context.Context, id uuid.UUID, today time.Time) (bool, error) {
			return false, errors.New("connection reset")
		},
	}
	sampled := false
	sampler := &fakeSampler{
		sampleFn: func(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
			sampled = true
			return uuid.New(), true, nil
		},
	}

	s := newTestScheduler(&fakeUserIDStream{}, sampler, streaks, &fakeLock{acquired: true})
	if err := s.processUser(context.Background(), uuid.New(), time.Now().UTC()); err == nil {
		t.Fatalf("Expected error from failed reset")
	}
	if sampled {
		t.Errorf("Expected no sampling after reset failure")
	}
}

func TestNextMidnightUTC(t *testing.T) {
	now := time.Date(2024, 6, 10, 18, 45, 12, 0, time.UTC)
	next := nextMidnightUTC(now)
	if !next.Equal(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected next midnight 2024-06-11, got %v", next)
	}

	// Exactly midnight still advances a full day.
	now = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	next = nextMidnightUTC(now)
	if !next.Equal(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected next midnight 2024-06-11, got %v", next)
	}
}

var _ streakStore = (*recordingStreakStore)(nil)
var _ streakStore = (*completionStore)(nil)
