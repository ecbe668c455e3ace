package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"revisio-backend/internal/models"
	"revisio-backend/internal/scheduling"
)

type questionStore interface {
	Create(ctx context.Context, q *models.Question, dates []time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Question, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ReplacePlan(ctx context.Context, questionID uuid.UUID, dates []time.Time) error
	ToggleRevision(ctx context.Context, revisionID, userID uuid.UUID) (*models.Revision, error)
	DueToday(ctx context.Context, userID uuid.UUID, day time.Time, limit, offset int) ([]*models.Question, int, error)
	Upcoming(ctx context.Context, userID uuid.UUID, day time.Time, limit, offset int) ([]*models.Question, int, error)
}

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// QuestionService owns plan generation and the due/upcoming query engine.
// It reads the store on every call; callers that want caching put it in
// front of the HTTP layer, never in here.
type QuestionService struct {
	questions       questionStore
	users           userStore
	clock           scheduling.Clock
	defaultPageSize int
	maxPageSize     int
}

func NewQuestionService(questions questionStore, users userStore, clock scheduling.Clock, defaultPageSize, maxPageSize int) *QuestionService {
	return &QuestionService{
		questions:       questions,
		users:           users,
		clock:           clock,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Create validates the request, generates the revision plan from the owner's
// spacing parameters, and persists question plus plan together. A plan
// failure blocks creation; no question exists without revisions.
func (s *QuestionService) Create(ctx context.Context, userID uuid.UUID, req models.CreateQuestionRequest) (*models.Question, error) {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !req.Difficulty.Valid() {
		fieldErrors["difficulty"] = "Difficulty must be easy, medium or hard"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	params, err := s.spacingFor(ctx, userID, req.Difficulty)
	if err != nil {
		return nil, err
	}

	dates, err := scheduling.BuildPlan(s.clock.Now(), params)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidParams) {
			return nil, &ValidationError{Fields: map[string]string{"spacing": err.Error()}}
		}
		return nil, err
	}

	question := &models.Question{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Difficulty:  req.Difficulty,
		Tags:        req.Tags,
		Description: req.Description,
		Link:        req.Link,
	}

	if err := s.questions.Create(ctx, question, dates); err != nil {
		return nil, storageError("create question", err)
	}
	return question, nil
}

func (s *QuestionService) Get(ctx context.Context, userID, questionID uuid.UUID) (*models.Question, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Question not found"}
		}
		return nil, storageError("get question", err)
	}
	if question.UserID != userID {
		return nil, &NotFoundError{Message: "Question not found"}
	}
	return question, nil
}

func (s *QuestionService) List(ctx context.Context, userID uuid.UUID) ([]*models.Question, error) {
	questions, err := s.questions.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError("list questions", err)
	}
	if questions == nil {
		questions = []*models.Question{}
	}
	return questions, nil
}

func (s *QuestionService) Delete(ctx context.Context, userID, questionID uuid.UUID) error {
	err := s.questions.Delete(ctx, questionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Message: "Question not found"}
		}
		return storageError("delete question", err)
	}
	return nil
}

// Replan regenerates the question's plan from its creation date and the
// owner's current parameters, replacing whatever list existed before.
func (s *QuestionService) Replan(ctx context.Context, userID, questionID uuid.UUID) (*models.Question, error) {
	question, err := s.Get(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	params, err := s.spacingFor(ctx, userID, question.Difficulty)
	if err != nil {
		return nil, err
	}

	dates, err := scheduling.BuildPlan(question.CreatedAt, params)
	if err != nil {
		if errors.Is(err, scheduling.ErrInvalidParams) {
			return nil, &ValidationError{Fields: map[string]string{"spacing": err.Error()}}
		}
		return nil, err
	}

	if err := s.questions.ReplacePlan(ctx, questionID, dates); err != nil {
		return nil, storageError("replace plan", err)
	}
	return s.Get(ctx, userID, questionID)
}

// ToggleRevision flips one revision's completed flag. Calling it twice
// returns the revision to its original state.
func (s *QuestionService) ToggleRevision(ctx context.Context, userID, revisionID uuid.UUID) (*models.Revision, error) {
	rev, err := s.questions.ToggleRevision(ctx, revisionID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Revision not found"}
		}
		return nil, storageError("toggle revision", err)
	}
	return rev, nil
}

// DueToday pages through the questions with a revision scheduled on the
// current day. Each result carries only the matching revisions.
func (s *QuestionService) DueToday(ctx context.Context, userID uuid.UUID, page, pageSize int) (*models.QuestionPage, error) {
	page, pageSize = s.normalizePage(page, pageSize)
	day := scheduling.DayStart(s.clock.Now())

	questions, total, err := s.questions.DueToday(ctx, userID, day, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, storageError("query due revisions", err)
	}
	return buildPage(questions, total, page, pageSize), nil
}

// Upcoming pages through the questions with nothing due today, annotated
// with their next revisions (at most 3, earliest first).
func (s *QuestionService) Upcoming(ctx context.Context, userID uuid.UUID, page, pageSize int) (*models.QuestionPage, error) {
	page, pageSize = s.normalizePage(page, pageSize)
	day := scheduling.DayStart(s.clock.Now())

	questions, total, err := s.questions.Upcoming(ctx, userID, day, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, storageError("query upcoming revisions", err)
	}
	return buildPage(questions, total, page, pageSize), nil
}

func (s *QuestionService) spacingFor(ctx context.Context, userID uuid.UUID, difficulty models.Difficulty) (scheduling.Params, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return scheduling.Params{}, &NotFoundError{Message: "User not found"}
		}
		return scheduling.Params{}, storageError("load user", err)
	}

	params, ok := user.Spacing[difficulty]
	if !ok {
		return scheduling.Params{}, &MissingConfigError{
			Message: fmt.Sprintf("No spacing parameters configured for difficulty %q", difficulty),
		}
	}
	return params, nil
}

func (s *QuestionService) normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return page, pageSize
}

func buildPage(questions []*models.Question, total, page, pageSize int) *models.QuestionPage {
	if questions == nil {
		questions = []*models.Question{}
	}
	totalPages := (total + pageSize - 1) / pageSize
	return &models.QuestionPage{
		Metadata: models.PageMetadata{
			Total:      total,
			TotalPages: totalPages,
			Page:       page,
			PageSize:   pageSize,
		},
		Questions: questions,
	}
}

// storageError keeps validation failures distinct from collaborator
// failures: anything that reaches here is transient from the caller's
// perspective.
func storageError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &UnavailableError{Message: "Storage timeout, try again"}
	}
	return fmt.Errorf("%s: %w", op, err)
}
