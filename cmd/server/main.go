package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dfarias/linguaflash/internal/api"
	"github.com/dfarias/linguaflash/internal/authz"
	"github.com/dfarias/linguaflash/internal/config"
	"github.com/dfarias/linguaflash/internal/db"
	"github.com/dfarias/linguaflash/internal/logger"
	"github.com/dfarias/linguaflash/internal/repository/sqlite"
	"github.com/dfarias/linguaflash/internal/services"
	"github.com/dfarias/linguaflash/internal/session"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LinguaFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("token_ttl_hours=%d", cfg.TokenTTLHours)
	log.Debug("dev_token_endpoint=%t", cfg.DevTokenEndpoint)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load declarative access policies and build the authorization engine.
	policies, err := sqlite.NewPolicyRepository(database.DB).List(context.Background())
	if err != nil {
		log.Error("failed to load access policies: %v", err)
		os.Exit(1)
	}
	authorizer, err := authz.NewEngine(policies)
	if err != nil {
		log.Error("failed to build authorization engine: %v", err)
		os.Exit(1)
	}
	log.Info("authorization engine ready (%d policies)", len(policies))

	tokenProvider := session.NewTokenProvider(cfg.TokenSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	// Repositories
	flashcardRepo := sqlite.NewFlashcardRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	levelRepo := sqlite.NewLevelRepository(database.DB)
	quizRepo := sqlite.NewQuizRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)

	// Services
	flashcardService := services.NewFlashcardService(authorizer, flashcardRepo)
	progressService := services.NewProgressService(authorizer, progressRepo)
	quizService := services.NewQuizService(authorizer, quizRepo, attemptRepo)
	levelService := services.NewLevelService(authorizer, levelRepo)

	srv := &api.Server{
		FlashcardService: flashcardService,
		ProgressService:  progressService,
		QuizService:      quizService,
		LevelService:     levelService,
		SessionProvider:  tokenProvider,
	}
	if cfg.DevTokenEndpoint {
		log.Warn("dev token endpoint enabled; do not run this in production")
		srv.DevTokenIssuer = tokenProvider
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("LinguaFlash Server Stopped")
	log.Info("===========================================")
}
