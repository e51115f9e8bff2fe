// Planeador - lesson-plan assistant webhook server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/proferick/planeador/internal/api"
	"github.com/proferick/planeador/internal/config"
	"github.com/proferick/planeador/internal/engine"
	"github.com/proferick/planeador/internal/extract"
	"github.com/proferick/planeador/internal/gateway"
	"github.com/proferick/planeador/internal/intent"
	"github.com/proferick/planeador/internal/plan"
	"github.com/proferick/planeador/internal/render"
	"github.com/proferick/planeador/internal/session"
	"github.com/proferick/planeador/internal/telegram"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port)

	// Initialize dependencies.
	store, err := session.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()

	if err := store.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Session store connected", "path", cfg.DBPath)

	gemini, err := gateway.NewGemini(context.Background(), cfg.GoogleAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("Failed to initialize Gemini gateway", "error", err)
		os.Exit(1)
	}
	slog.Info("Gemini gateway initialized")

	bot, err := telegram.NewClient(cfg.TelegramToken)
	if err != nil {
		slog.Error("Failed to initialize Telegram client", "error", err)
		os.Exit(1)
	}

	renderer, err := render.NewGenerator(cfg.OutputDir)
	if err != nil {
		slog.Error("Failed to initialize renderer", "error", err)
		os.Exit(1)
	}

	reference := plan.LoadReference(cfg.StandardsPath)

	// Wire the conversation pipeline.
	classifier := intent.NewClassifier(gemini)
	extractor := extract.NewExtractor(gemini)
	assembler := plan.NewAssembler(plan.NewLookup(gemini, reference))
	eng := engine.New(store, classifier, extractor, assembler, renderer, gemini)

	var webhookOpts []api.Option
	if cfg.WebhookSecret != "" {
		webhookOpts = append(webhookOpts, api.WithSecret(cfg.WebhookSecret))
	}
	webhook := api.NewWebhookHandler(eng, bot, bot, gemini, webhookOpts...)

	// Setup router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	webhook.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Periodically drop sessions that went quiet.
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := store.CleanupStale(ctx, cfg.SessionTTL)
				if err != nil {
					slog.Warn("Stale session cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					slog.Info("Stale sessions cleaned up", "deleted", deleted)
				}
			}
		}
	}()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
