package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"revisio-backend/internal/models"
)

type QuestionRepo struct {
	pool *pgxpool.Pool
}

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

// Create inserts the question and its full revision plan in one transaction.
// A question is never persisted without its plan.
func (r *QuestionRepo) Create(ctx context.Context, q *models.Question, dates []time.Time) error {
	q.ID = uuid.New()
	if q.Tags == nil {
		q.Tags = []string{}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO questions (id, user_id, name, difficulty, tags, description, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		q.ID, q.UserID, q.Name, q.Difficulty, q.Tags, q.Description, q.Link,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return err
	}

	q.Revisions = make([]models.Revision, 0, len(dates))
	for position, date := range dates {
		rev := models.Revision{
			ID:         uuid.New(),
			QuestionID: q.ID,
			Date:       date,
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO revisions (id, question_id, revision_date, position)
			 VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`,
			rev.ID, q.ID, date, position,
		).Scan(&rev.CreatedAt, &rev.UpdatedAt)
		if err != nil {
			return err
		}
		q.Revisions = append(q.Revisions, rev)
	}

	return tx.Commit(ctx)
}

func (r *QuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	q := &models.Question{}

	query := `SELECT id, user_id, name, difficulty, tags, description, link, created_at, updated_at
		FROM questions WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.UserID, &q.Name, &q.Difficulty, &q.Tags, &q.Description, &q.Link,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	revisions, err := r.revisionsForQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Revisions = revisions
	return q, nil
}

func (r *QuestionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Question, error) {
	query := `SELECT id, user_id, name, difficulty, tags, description, link, created_at, updated_at
		FROM questions WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

func (r *QuestionRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	// Revisions go with the question via ON DELETE CASCADE.
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM questions WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ReplacePlan swaps the question's revision list for a fresh plan. Replanning
// replaces, it never appends.
func (r *QuestionRepo) ReplacePlan(ctx context.Context, questionID uuid.UUID, dates []time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM revisions WHERE question_id = $1", questionID); err != nil {
		return err
	}

	for position, date := range dates {
		_, err := tx.Exec(ctx,
			`INSERT INTO revisions (id, question_id, revision_date, position)
			 VALUES ($1, $2, $3, $4)`,
			uuid.New(), questionID, date, position,
		)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, "UPDATE questions SET updated_at = NOW() WHERE id = $1", questionID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ToggleRevision flips the completion flag in a single statement so two
// concurrent toggles each land (completed ends up back where it started, and
// both callers observe an effect). Ownership is enforced via the join.
func (r *QuestionRepo) ToggleRevision(ctx context.Context, revisionID, userID uuid.UUID) (*models.Revision, error) {
	rev := &models.Revision{}

	query := `UPDATE revisions rev
		SET completed = NOT rev.completed, updated_at = NOW()
		FROM questions q
		WHERE rev.id = $1 AND q.id = rev.question_id AND q.user_id = $2
		RETURNING rev.id, rev.question_id, rev.revision_date, rev.completed, rev.created_at, rev.updated_at`

	err := r.pool.QueryRow(ctx, query, revisionID, userID).Scan(
		&rev.ID, &rev.QuestionID, &rev.Date, &rev.Completed, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// DueToday returns the page of questions that have at least one revision
// dated exactly day, each carrying only the in-window revisions. Page order
// is creation order.
func (r *QuestionRepo) DueToday(ctx context.Context, userID uuid.UUID, day time.Time, limit, offset int) ([]*models.Question, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM questions q
		WHERE q.user_id = $1
		  AND EXISTS (
			SELECT 1 FROM revisions rev
			WHERE rev.question_id = q.id AND rev.revision_date = $2
		  )
	`, userID, day).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, difficulty, tags, description, link, created_at, updated_at
		FROM questions q
		WHERE q.user_id = $1
		  AND EXISTS (
			SELECT 1 FROM revisions rev
			WHERE rev.question_id = q.id AND rev.revision_date = $2
		  )
		ORDER BY q.created_at, q.id
		LIMIT $3 OFFSET $4
	`, userID, day, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, 0, err
	}

	for _, q := range questions {
		revisions, err := r.revisionsOnDay(ctx, q.ID, day)
		if err != nil {
			return nil, 0, err
		}
		q.Revisions = revisions
	}
	return questions, total, nil
}

// Upcoming returns the page of questions with no revision due on day, each
// annotated with up to 3 revisions dated on or after day, earliest first.
func (r *QuestionRepo) Upcoming(ctx context.Context, userID uuid.UUID, day time.Time, limit, offset int) ([]*models.Question, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM questions q
		WHERE q.user_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM revisions rev
			WHERE rev.question_id = q.id AND rev.revision_date = $2
		  )
	`, userID, day).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, difficulty, tags, description, link, created_at, updated_at
		FROM questions q
		WHERE q.user_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM revisions rev
			WHERE rev.question_id = q.id AND rev.revision_date = $2
		  )
		ORDER BY q.created_at, q.id
		LIMIT $3 OFFSET $4
	`, userID, day, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, 0, err
	}

	for _, q := range questions {
		revisions, err := r.nextRevisions(ctx, q.ID, day, 3)
		if err != nil {
			return nil, 0, err
		}
		q.Revisions = revisions
	}
	return questions, total, nil
}

// SampleRandomQuestionID picks one of the user's questions uniformly at
// random. ok is false when the user owns no questions.
func (r *QuestionRepo) SampleRandomQuestionID(ctx context.Context, userID uuid.UUID) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		"SELECT id FROM questions WHERE user_id = $1 ORDER BY RANDOM() LIMIT 1",
		userID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func (r *QuestionRepo) revisionsForQuestion(ctx context.Context, questionID uuid.UUID) ([]models.Revision, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question_id, revision_date, completed, created_at, updated_at
		FROM revisions WHERE question_id = $1 ORDER BY position
	`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRevisions(rows)
}

func (r *QuestionRepo) revisionsOnDay(ctx context.Context, questionID uuid.UUID, day time.Time) ([]models.Revision, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question_id, revision_date, completed, created_at, updated_at
		FROM revisions WHERE question_id = $1 AND revision_date = $2 ORDER BY position
	`, questionID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRevisions(rows)
}

func (r *QuestionRepo) nextRevisions(ctx context.Context, questionID uuid.UUID, day time.Time, count int) ([]models.Revision, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question_id, revision_date, completed, created_at, updated_at
		FROM revisions WHERE question_id = $1 AND revision_date >= $2
		ORDER BY revision_date, position LIMIT $3
	`, questionID, day, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRevisions(rows)
}

func scanQuestions(rows pgx.Rows) ([]*models.Question, error) {
	var questions []*models.Question
	for rows.Next() {
		q := &models.Question{}
		err := rows.Scan(
			&q.ID, &q.UserID, &q.Name, &q.Difficulty, &q.Tags, &q.Description, &q.Link,
			&q.CreatedAt, &q.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func scanRevisions(rows pgx.Rows) ([]models.Revision, error) {
	revisions := []models.Revision{}
	for rows.Next() {
		rev := models.Revision{}
		err := rows.Scan(&rev.ID, &rev.QuestionID, &rev.Date, &rev.Completed, &rev.CreatedAt, &rev.UpdatedAt)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}
