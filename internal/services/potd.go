package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"revisio-backend/internal/scheduling"
)

type potdUserStore interface {
	ForEachUserID(ctx context.Context, fn func(uuid.UUID) error) error
}

type potdQuestionStore interface {
	SampleRandomQuestionID(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error)
}

type runLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// POTDScheduler runs the daily pass: reset stale streaks, then assign each
// user a random question as problem of the day. Users are processed
// independently; one user's failure never aborts the rest.
type POTDScheduler struct {
	users     potdUserStore
	questions potdQuestionStore
	streaks   streakStore
	lock      runLocker
	lockTTL   time.Duration
	clock     scheduling.Clock
	stopChan  chan struct{}
}

func NewPOTDScheduler(users potdUserStore, questions potdQuestionStore, streaks streakStore, lock runLocker, lockTTL time.Duration, clock scheduling.Clock) *POTDScheduler {
	return &POTDScheduler{
		users:     users,
		questions: questions,
		streaks:   streaks,
		lock:      lock,
		lockTTL:   lockTTL,
		clock:     clock,
		stopChan:  make(chan struct{}),
	}
}

func (s *POTDScheduler) Start() {
	go s.loop()
	log.Printf("POTD scheduler started")
}

func (s *POTDScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

// loop fires once on startup (the per-day lock makes a restart harmless) and
// then at every UTC midnight.
func (s *POTDScheduler) loop() {
	s.runOnce(context.Background())

	for {
		timer := time.NewTimer(time.Until(nextMidnightUTC(s.clock.Now())))
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.runOnce(context.Background())
		}
	}
}

func (s *POTDScheduler) runOnce(ctx context.Context) {
	now := s.clock.Now()
	day := scheduling.DayStart(now)

	acquired, err := s.lock.Acquire(ctx, "potd:run:"+day.Format("2006-01-02"), s.lockTTL)
	if err != nil {
		// Lock is best-effort; a missed day hurts more than a double run,
		// which the per-user updates tolerate.
		log.Printf("potd scheduler: run lock unavailable, continuing: %v", err)
	} else if !acquired {
		log.Printf("potd scheduler: run for %s already in progress or done, skipping", day.Format("2006-01-02"))
		return
	}

	var processed, failed int
	streamErr := s.users.ForEachUserID(ctx, func(userID uuid.UUID) error {
		if err := s.processUser(ctx, userID, now); err != nil {
			failed++
			log.Printf("potd scheduler: user %s: %v", userID, err)
			return nil
		}
		processed++
		return nil
	})
	if streamErr != nil {
		log.Printf("potd scheduler: user stream aborted: %v", streamErr)
	}

	log.Printf("potd scheduler: run for %s finished, %d users processed, %d failed",
		day.Format("2006-01-02"), processed, failed)
}

// processUser runs both phases for one user: the backward-looking streak
// reset, then the random assignment. Sampling covers all of the user's
// questions; yesterday's POTD can legitimately come up again.
func (s *POTDScheduler) processUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	if _, err := s.streaks.ResetIfStale(ctx, userID, now); err != nil {
		return fmt.Errorf("reset streak: %w", err)
	}

	questionID, ok, err := s.questions.SampleRandomQuestionID(ctx, userID)
	if err != nil {
		return fmt.Errorf("sample question: %w", err)
	}
	if !ok {
		// No questions yet, no POTD today.
		return nil
	}

	if err := s.streaks.SetPOTD(ctx, userID, questionID, now); err != nil {
		return fmt.Errorf("assign potd: %w", err)
	}
	return nil
}

func nextMidnightUTC(now time.Time) time.Time {
	return scheduling.DayStart(now).AddDate(0, 0, 1)
}

// RedisRunLock implements the daily run lock with SET NX and a TTL.
type RedisRunLock struct {
	client *redis.Client
}

func NewRedisRunLock(client *redis.Client) *RedisRunLock {
	return &RedisRunLock{client: client}
}

func (l *RedisRunLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}
