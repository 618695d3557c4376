package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finlitportal/finlit-backend/internal/catalog"
	"github.com/finlitportal/finlit-backend/internal/config"
	"github.com/finlitportal/finlit-backend/internal/database"
	"github.com/finlitportal/finlit-backend/internal/handler"
	"github.com/finlitportal/finlit-backend/internal/logger"
	"github.com/finlitportal/finlit-backend/internal/repository"
	"github.com/finlitportal/finlit-backend/internal/router"
	"github.com/finlitportal/finlit-backend/internal/service"
	"github.com/finlitportal/finlit-backend/internal/session"
	"github.com/finlitportal/finlit-backend/internal/validator"
	"github.com/finlitportal/finlit-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("tests_root", cfg.TestsRoot).
		Msg("Starting FinLit Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Test Catalog ──────────────────────────────────────────────────
	if _, err := os.Stat(cfg.TestsRoot); err != nil {
		log.Fatal().Err(err).Str("tests_root", cfg.TestsRoot).Msg("Tests root not accessible")
	}
	resolver := catalog.NewResolver(os.DirFS(cfg.TestsRoot), catalog.LoadMeta(cfg.TestsMetaPath))
	sessionStore := session.NewStore()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	resultRepo := repository.NewResultRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	quizService := service.NewQuizService(resolver, sessionStore, log)
	userService := service.NewUserService(userRepo, resultRepo, authService)
	resultService := service.NewResultService(resultRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Test:   handler.NewTestHandler(quizService, log),
		User:   handler.NewUserHandler(userService, authService, log),
		Result: handler.NewResultHandler(resultService, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	if cfg.SessionTTL > 0 {
		sweeper := worker.NewSessionSweeper(sessionStore, cfg.SessionTTL, 0, log)
		go sweeper.Start(workerCtx)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
