package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"revisio-backend/internal/middleware"
	"revisio-backend/internal/models"
)

type profileStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateSpacing(ctx context.Context, id uuid.UUID, spacing models.SpacingSettings) error
}

type streakEnsurer interface {
	Ensure(ctx context.Context, userID uuid.UUID) error
}

type UserHandler struct {
	users   profileStore
	streaks streakEnsurer
}

func NewUserHandler(users profileStore, streaks streakEnsurer) *UserHandler {
	return &UserHandler{users: users, streaks: streaks}
}

// CreateProfile provisions the profile row for the authenticated user with
// default spacing parameters, plus the streak row the daily job operates on.
// Ensure runs on every path, including the duplicate-profile one: a retry
// after a partial failure must be able to repair a missing streak row.
func (h *UserHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if strings.TrimSpace(req.Email) == "" {
		fieldErrors["email"] = "Email is required"
	}
	if strings.TrimSpace(req.FullName) == "" {
		fieldErrors["full_name"] = "Full name is required"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	user := &models.User{
		ID:       middleware.GetUserID(r.Context()),
		Email:    strings.TrimSpace(req.Email),
		FullName: strings.TrimSpace(req.FullName),
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if err := h.streaks.Ensure(r.Context(), user.ID); err != nil {
				writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to initialize streak state", r))
				return
			}
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Profile already exists", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create profile", r))
		return
	}

	if err := h.streaks.Ensure(r.Context(), user.ID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to initialize streak state", r))
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Profile not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load profile", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateSpacing replaces the per-difficulty spacing parameters. Existing
// revision plans are untouched; new plans and explicit replans pick the
// new values up.
func (h *UserHandler) UpdateSpacing(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSpacingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if len(req.Spacing) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Spacing settings are required", r))
		return
	}

	fieldErrors := make(map[string]string)
	for difficulty, params := range req.Spacing {
		if !difficulty.Valid() {
			fieldErrors[string(difficulty)] = "Unknown difficulty"
			continue
		}
		if err := params.Validate(); err != nil {
			fieldErrors[string(difficulty)] = err.Error()
		}
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.users.UpdateSpacing(r.Context(), userID, req.Spacing); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Profile not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update spacing settings", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"spacing": req.Spacing})
}
