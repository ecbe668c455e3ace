package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"revisio-backend/internal/models"
)

// Function-field fakes for the store seams, so each test wires exactly the
// behavior it needs.

type fakeQuestionStore struct {
	createFn         func(ctx context.Context, q *models.Question, dates []time.Time) error
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*models.Question, error)
	listByUserFn     func(ctx context.Context, userID uuid.UUID) ([]*models.Question, error)
	deleteFn         func(ctx context.Context, id, userID uuid.UUID) error
	replacePlanFn    func(ctx context.Context, questionID uuid.UUID, dates []time.Time) error
	toggleRevisionFn func(ctx context.Context, revisionID, userID uuid.UUID) (*models.Revision, error)
	dueTodayFn       func(ctx context.Context, userID uuid.UUID, day time.Time, limit, offset int) ([]*models.Question, int, error)
	upcomingFn       func(ctx context.Context, userID uuid.UUID, day time.Time, limit, offset int) ([]*models.Question, int, error)
}

func (f *fakeQuestionStore) Create(ctx context.Context, q *models.Question, dates []time.Time) error {
	return f.createFn(ctx, q, dates)
}

func (f *fakeQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeQuestionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Question, error) {
	return f.listByUserFn(ctx, userID)
}

func (f *fakeQuestionStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return f.deleteFn(ctx, id, userID)
}

func (f *fakeQuestionStore) ReplacePlan(ctx context.Context, questionID uuid.UUID, dates []time.Time) error {
	return f.replacePlanFn(ctx, questionID, dates)
}

func (f *fakeQuestionStore) ToggleRevision(ctx context.Context, revisionID, userID uuid.UUID) (*models.Revision, error) {
	return f.toggleRevisionFn(ctx, revisionID, userID)
}

func (f *fakeQuestionStore) DueToday(ctx context.Context, userID uuid.UUID, day time.Time, limit, offset int) ([]*models.Question, int, error) {
	return f.dueTodayFn(ctx, userID, day, limit, offset)
}

func (f *fakeQuestionStore) Upcoming(ctx context.Context, userID uuid.UUID, day time.Time, limit, offset int) ([]*models.Question, int, error) {
	return f.upcomingFn(ctx, userID, day, limit, offset)
}

type fakeUserStore struct {
	getByIDFn func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.getByIDFn(ctx, id)
}

type fakeStreakStore struct {
	ensureFn       func(ctx context.Context, userID uuid.UUID) error
	getFn          func(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error)
	resetIfStaleFn func(ctx context.Context, userID uuid.UUID, today time.Time) (bool, error)
	casFn          func(ctx context.Context, userID uuid.UUID, prevLast *time.Time, streak int, today time.Time) (bool, error)
	setPOTDFn      func(ctx context.Context, userID, questionID uuid.UUID, assignedAt time.Time) error
}

func (f *fakeStreakStore) Ensure(ctx context.Context, userID uuid.UUID) error {
	return f.ensureFn(ctx, userID)
}

func (f *fakeStreakStore) Get(ctx context.Context, userID uuid.UUID) (*models.UserStreak, error) {
	return f.getFn(ctx, userID)
}

func (f *fakeStreakStore) ResetIfStale(ctx context.Context, userID uuid.UUID, today time.Time) (bool, error) {
	return f.resetIfStaleFn(ctx, userID, today)
}

func (f *fakeStreakStore) CompareAndSwapCompletion(ctx context.Context, userID uuid.UUID, prevLast *time.Time, streak int, today time.Time) (bool, error) {
	return f.casFn(ctx, userID, prevLast, streak, today)
}

func (f *fakeStreakStore) SetPOTD(ctx context.Context, userID, questionID uuid.UUID, assignedAt time.Time) error {
	return f.setPOTDFn(ctx, userID, questionID, assignedAt)
}

type fakeUserIDStream struct {
	ids []uuid.UUID
	err error
}

func (f *fakeUserIDStream) ForEachUserID(ctx context.Context, fn func(uuid.UUID) error) error {
	for _, id := range f.ids {
		if err := fn(id); err != nil {
			return err
		}
	}
	return f.err
}

type fakeSampler struct {
	sampleFn func(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
}

func (f *fakeSampler) SampleRandomQuestionID(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	return f.sampleFn(ctx, userID)
}

type fakeLock struct {
	acquired bool
	err      error
	keys     []string
}

func (f *fakeLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.acquired, f.err
}
