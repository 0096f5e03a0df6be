package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dharanish-AM/InterVueAI/config"
	v1 "github.com/Dharanish-AM/InterVueAI/internal/delivery/http/v1"
	"github.com/Dharanish-AM/InterVueAI/internal/document"
	"github.com/Dharanish-AM/InterVueAI/internal/domain"
	"github.com/Dharanish-AM/InterVueAI/internal/oracle/catalog"
	"github.com/Dharanish-AM/InterVueAI/internal/oracle/gemini"
	"github.com/Dharanish-AM/InterVueAI/internal/registry"
	"github.com/Dharanish-AM/InterVueAI/internal/repository/postgres"
	"github.com/Dharanish-AM/InterVueAI/internal/usecase"
	"github.com/Dharanish-AM/InterVueAI/internal/workers/timekeeper"
	"github.com/Dharanish-AM/InterVueAI/pkg/database"
	"github.com/Dharanish-AM/InterVueAI/pkg/logger"
	"github.com/Dharanish-AM/InterVueAI/pkg/redis"
	"github.com/Dharanish-AM/InterVueAI/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           InterVueAI API
// @version         1.0
// @description     AI-assisted interview backend: resume intake, timed question sessions, scoring and summaries.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting interview backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional; rate limiting degrades to in-memory)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)

	// 6. Rehydrate in-progress sessions so interrupted interviews resume
	// across restarts
	sessions := registry.New(sessionRepo)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	if err := sessions.Load(loadCtx); err != nil {
		logger.Log.Error("Failed to load in-progress sessions", "error", err)
		cancelLoad()
		os.Exit(1)
	}
	cancelLoad()

	// 7. Setup Oracle: Gemini when a key is configured, catalog otherwise
	var oracle domain.Oracle
	if cfg.GeminiAPIKey != "" {
		generator, err := gemini.NewGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Log.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		oracle = gemini.NewOracle(generator)
		logger.Log.Info("Using Gemini oracle", "model", cfg.GeminiModel)
	} else {
		oracle = catalog.New(nil)
		logger.Log.Info("No Gemini key configured, using built-in question catalog")
	}

	// 8. Setup Document Decoders
	decoders := document.NewRegistry()
	decoders.Register(document.MimePDF, document.PDF{})
	decoders.Register(document.MimeDocx, document.Docx{})
	decoders.Register(document.MimeText, document.PlainText{})

	// 9. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	intakeUC := usecase.NewIntakeUsecase(candidateRepo, decoders, validate)
	interviewUC := usecase.NewInterviewUsecase(sessions, candidateRepo, oracle, cfg.InterviewRole, cfg.QuestionCount)

	// 10. Setup Timekeeper and arm timers for rehydrated sessions
	tk := timekeeper.New(interviewUC)
	for _, session := range sessions.InProgress() {
		tk.Arm(session)
	}

	// 11. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		IntakeUC:    intakeUC,
		InterviewUC: interviewUC,
		Timekeeper:  tk,
		Config:      cfg,
	})

	// 12. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	tk.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
