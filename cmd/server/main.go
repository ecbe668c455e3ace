package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"revisio-backend/internal/config"
	"revisio-backend/internal/database"
	"revisio-backend/internal/handlers"
	"revisio-backend/internal/middleware"
	"revisio-backend/internal/repository"
	"revisio-backend/internal/router"
	"revisio-backend/internal/scheduling"
	"revisio-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Revisio Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	questionRepo := repository.NewQuestionRepo(pool)
	streakRepo := repository.NewStreakRepo(pool)

	// ──── Initialize Services ────
	clock := scheduling.NewClock()
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	questionService := services.NewQuestionService(questionRepo, userRepo, clock, cfg.DefaultPageSize, cfg.MaxPageSize)
	streakService := services.NewStreakService(streakRepo, clock)

	// ──── Step 5: Start Daily Assignment Scheduler ────
	potdScheduler := services.NewPOTDScheduler(
		userRepo,
		questionRepo,
		streakRepo,
		services.NewRedisRunLock(redisClient),
		time.Duration(cfg.POTDLockTTLMinutes)*time.Minute,
		clock,
	)
	potdScheduler.Start()
	log.Println("✓ Daily assignment scheduler started")

	// ──── Initialize Handlers ────
	userHandler := handlers.NewUserHandler(userRepo, streakRepo)
	questionHandler := handlers.NewQuestionHandler(questionService)
	streakHandler := handlers.NewStreakHandler(streakService)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		userHandler,
		questionHandler,
		streakHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		potdScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Revisio Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
