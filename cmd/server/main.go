package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/zvitly/gradewatch-backend/internal/config"
	"github.com/zvitly/gradewatch-backend/internal/database"
	"github.com/zvitly/gradewatch-backend/internal/handler"
	"github.com/zvitly/gradewatch-backend/internal/logger"
	"github.com/zvitly/gradewatch-backend/internal/notify"
	"github.com/zvitly/gradewatch-backend/internal/repository"
	"github.com/zvitly/gradewatch-backend/internal/router"
	"github.com/zvitly/gradewatch-backend/internal/service"
	"github.com/zvitly/gradewatch-backend/internal/sheets"
	"github.com/zvitly/gradewatch-backend/internal/telegram"
	"github.com/zvitly/gradewatch-backend/internal/validator"
	"github.com/zvitly/gradewatch-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting GradeWatch Backend")

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

	// ─── Initialize Repositories ───────────────────────────────────────
	groupRepo := repository.NewGroupRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	// ─── Google Sheets Client ──────────────────────────────────────────
	sheetsClient, err := sheets.NewClient(ctx, cfg.GoogleCredentialsPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Sheets client")
	}

	// ─── Telegram Bot ──────────────────────────────────────────────────
	registrar := telegram.NewRegistrar(
		telegram.NewRedisStateStore(rdb),
		studentRepo,
		groupRepo,
		log,
	)
	bot, err := telegram.NewBot(cfg.TelegramToken, registrar, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	orchestrator := notify.NewOrchestrator(eventRepo, studentRepo, bot, log)
	ingestService := service.NewIngestService(groupRepo, eventRepo, orchestrator, log)
	authService := service.NewAuthService(cfg)
	gradesService := service.NewGradesService(groupRepo, sheetsClient, rdb, cfg.GradesCacheTTL, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Webhook:   handler.NewWebhookHandler(ingestService, log),
		Auth:      handler.NewAuthHandler(authService, studentRepo),
		Dashboard: handler.NewDashboardHandler(gradesService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	notifyWorker := worker.NewNotifyWorker(orchestrator, rdb, cfg.NotifyInterval, log)

	go bot.Start(workerCtx)
	go notifyWorker.Start(workerCtx)

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

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the bot and the retry worker. A pass cut short mid-delivery
	// is safe: unprocessed events are picked up on the next start.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
