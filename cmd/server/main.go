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

	"practica/internal/config"
	"practica/internal/database"
	"practica/internal/handlers"
	"practica/internal/middleware"
	"practica/internal/repository"
	"practica/internal/router"
	"practica/internal/services"
)

func main() {
	log.Println("Starting Practica backend...")

	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// Repositories
	userRepo := repository.NewUserRepo(pool)
	pieceRepo := repository.NewPieceRepo(pool)
	practiceSessionRepo := repository.NewPracticeSessionRepo(pool)

	// Services
	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	sessionStore := services.NewSessionStore(redisClient, sessionTTL)
	authService := services.NewAuthService(userRepo, sessionStore)

	// Handlers
	sessionAuth := middleware.NewSessionAuth(sessionStore)
	authHandler := handlers.NewAuthHandler(authService, sessionTTL)
	pieceHandler := handlers.NewPieceHandler(pieceRepo)
	practiceSessionHandler := handlers.NewPracticeSessionHandler(practiceSessionRepo)

	authLimiter := middleware.NewRateLimiter(
		cfg.AuthRateLimit,
		time.Duration(cfg.AuthRateWindowSecs)*time.Second,
	)

	r := router.New(
		sessionAuth,
		authHandler,
		pieceHandler,
		practiceSessionHandler,
		cfg.FrontendURL,
		authLimiter,
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
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Practica backend ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
