package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/config"
	"github.com/farisarabic/faris-backend/internal/database"
	"github.com/farisarabic/faris-backend/internal/handler"
	"github.com/farisarabic/faris-backend/internal/logger"
	"github.com/farisarabic/faris-backend/internal/mailer"
	"github.com/farisarabic/faris-backend/internal/repository"
	"github.com/farisarabic/faris-backend/internal/router"
	"github.com/farisarabic/faris-backend/internal/service"
	"github.com/farisarabic/faris-backend/internal/storage"
	"github.com/farisarabic/faris-backend/internal/tutor"
	"github.com/farisarabic/faris-backend/internal/validator"
	"github.com/farisarabic/faris-backend/internal/worker"
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
		Str("storage", cfg.StorageDriver).
		Str("mail", cfg.MailDriver).
		Msg("Starting Faris Backend")

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

	// ─── Blob Storage ──────────────────────────────────────────────────
	blobs, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob storage")
	}

	// ─── Mail ──────────────────────────────────────────────────────────
	mailQueue := mailer.NewQueue(rdb)
	sender, err := mailer.NewSender(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize mail sender")
	}

	// ─── AI Tutor ──────────────────────────────────────────────────────
	// Without a provider every tutor question gets the fixed fallback answer.
	var provider tutor.Provider
	if p, err := tutor.NewProvider(ctx, cfg); err != nil {
		log.Warn().Err(err).Msg("Tutor provider unavailable, using fallback answers")
	} else {
		provider = p
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	practiceRepo := repository.NewPracticeRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	practiceResultRepo := repository.NewPracticeResultRepository(pool)
	libraryRepo := repository.NewLibraryRepository(pool)
	explanationRepo := repository.NewExplanationRepository(pool)
	contactRepo := repository.NewContactRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, userRepo, mailQueue, log)
	questionService := service.NewQuestionService(questionRepo, examRepo, practiceRepo, rdb, cfg.QuestionCacheTTL, log)
	catalogService := service.NewCatalogService(examRepo, practiceRepo, libraryRepo, explanationRepo, resultRepo, log)
	attemptService := service.NewAttemptService(catalogService, questionService, resultRepo, practiceResultRepo, blobs, rdb, cfg.MaxUploadBytes, log)
	resultService := service.NewResultService(resultRepo, practiceResultRepo, examRepo, questionService, log)
	examService := service.NewExamService(examRepo, questionService, blobs, cfg.MaxUploadBytes, log)
	practiceService := service.NewPracticeService(practiceRepo, questionService, log)
	contentService := service.NewContentService(libraryRepo, explanationRepo, blobs, cfg.MaxUploadBytes, log)
	contactService := service.NewContactService(contactRepo)
	settingService := service.NewSettingService(settingRepo, blobs, cfg.MaxImageBytes, log)
	dashboardService := service.NewDashboardService(dashboardRepo)
	studentService := service.NewStudentService(userRepo, resultService, authService, log)
	tutorService := service.NewTutorService(provider, cfg.TutorMaxTokens, cfg.TutorTimeout, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, log),
		Public:        handler.NewPublicHandler(contactService, log),
		StudentPortal: handler.NewStudentPortalHandler(catalogService, resultService, tutorService, log),
		Attempt:       handler.NewAttemptHandler(attemptService, log),
		WS:            handler.NewWSHandler(attemptService, log, cfg.AllowedOrigins),
		Exam:          handler.NewExamHandler(examService, log),
		Question:      handler.NewQuestionHandler(questionService, log),
		Practice:      handler.NewPracticeHandler(practiceService, log),
		Media:         handler.NewMediaHandler(contentService, log),
		Result:        handler.NewResultHandler(resultService, log),
		StudentMgmt:   handler.NewStudentManagementHandler(studentService, log),
		Dashboard:     handler.NewDashboardHandler(dashboardService, contactService, log),
		Setting:       handler.NewSettingHandler(settingService, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	mailWorker := worker.NewMailWorker(rdb, sender, log)
	go func() {
		defer close(workerDone)
		mailWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, rdb, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests. Open WebSocket attempts are
	// hijacked connections and are dropped with the process.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the mail worker and let an in-flight delivery finish.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(5 * time.Second):
		log.Warn().Msg("Mail worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
