package handlers

import (
	"net/http"

	"revisio-backend/internal/middleware"
	"revisio-backend/internal/services"
)

type StreakHandler struct {
	streaks *services.StreakService
}

func NewStreakHandler(streaks *services.StreakService) *StreakHandler {
	return &StreakHandler{streaks: streaks}
}

func (h *StreakHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.streaks.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// CompletePOTD marks today's problem done and advances the streak. Conflicts
// from concurrent completions come back as 409; the client may retry once.
func (h *StreakHandler) CompletePOTD(w http.ResponseWriter, r *http.Request) {
	state, err := h.streaks.CompletePOTD(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
