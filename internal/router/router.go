package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"revisio-backend/internal/handlers"
	"revisio-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	userHandler *handlers.UserHandler,
	questionHandler *handlers.QuestionHandler,
	streakHandler *handlers.StreakHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Write rate limiter (60 req/min per IP)
	writeLimiter := middleware.NewRateLimiter(60, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Profile Routes ────
		r.Route("/profile", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.With(writeLimiter.Middleware).Post("/", userHandler.CreateProfile)
			r.Get("/", userHandler.GetProfile)
			r.With(writeLimiter.Middleware).Put("/spacing", userHandler.UpdateSpacing)
		})

		// ──── Question Routes ────
		r.Route("/questions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.With(writeLimiter.Middleware).Post("/", questionHandler.Create)
			r.Get("/", questionHandler.List)
			r.Get("/due-today", questionHandler.DueToday)
			r.Get("/upcoming", questionHandler.Upcoming)
			r.Get("/{id}", questionHandler.Get)
			r.With(writeLimiter.Middleware).Delete("/{id}", questionHandler.Delete)
			r.With(writeLimiter.Middleware).Post("/{id}/replan", questionHandler.Replan)
		})

		// ──── Revision Routes ────
		r.Route("/revisions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.With(writeLimiter.Middleware).Put("/{id}/toggle", questionHandler.ToggleRevision)
		})

		// ──── Streak Routes ────
		r.Route("/streak", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", streakHandler.Get)
			r.With(writeLimiter.Middleware).Post("/potd/complete", streakHandler.CompletePOTD)
		})
	})

	return r
}
