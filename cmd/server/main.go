// PickYourCourses - course review chat bot server
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

	"github.com/alexandre-bismuth/PickYourCourses/internal/catalog"
	"github.com/alexandre-bismuth/PickYourCourses/internal/config"
	"github.com/alexandre-bismuth/PickYourCourses/internal/draft"
	"github.com/alexandre-bismuth/PickYourCourses/internal/engine"
	"github.com/alexandre-bismuth/PickYourCourses/internal/middleware"
	"github.com/alexandre-bismuth/PickYourCourses/internal/quota"
	"github.com/alexandre-bismuth/PickYourCourses/internal/router"
	"github.com/alexandre-bismuth/PickYourCourses/internal/session"
	"github.com/alexandre-bismuth/PickYourCourses/internal/store"
	"github.com/alexandre-bismuth/PickYourCourses/internal/transport"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
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

	slog.Info("Starting server", "port", cfg.Port,
		"session_window", cfg.Session.Window,
		"daily_limit", cfg.Quota.DailyLimit)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	if err := catalog.Seed(context.Background(), repo); err != nil {
		slog.Error("Failed to seed course catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Course catalog ready")

	// Initialize the conversation engine.
	sessions := session.NewStore(repo, cfg.Session.Window)
	supervisor := session.NewSupervisor(sessions, cfg.Session.WarningLead)
	drafts := draft.NewEditor(repo)
	gate := quota.NewGate(repo, cfg.Quota.DailyLimit, cfg.Quota.LifetimeLimit, cfg.Location())
	dispatch := router.New(sessions, supervisor, drafts, repo)
	eng := engine.New(gate, sessions, dispatch)

	// Transport: the websocket gateway always runs; the platform API sender
	// joins it when an API URL is configured.
	gateway := transport.NewGateway(eng)
	var sender transport.Sender = gateway
	if cfg.TransportAPIURL != "" {
		sender = transport.MultiSender{gateway, transport.NewHTTPSender(cfg.TransportAPIURL)}
		slog.Info("Platform API sender enabled", "url", cfg.TransportAPIURL)
	}

	// Inactivity notices go out through whatever transport is wired.
	supervisor.SetCallbacks(
		func(userID int64) {
			notify(sender, userID, "Still there? Your session expires in a few minutes.")
		},
		func(userID int64) {
			notify(sender, userID, "Your session expired due to inactivity. Send /start to pick up again.")
		},
	)

	webhookHandler := transport.NewWebhookHandler(eng)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	// Platform webhook, guarded by the shared secret.
	r.Group(func(r chi.Router) {
		r.Use(middleware.WebhookAuth(cfg.WebhookToken))
		webhookHandler.RegisterRoutes(r)
	})

	// Development transport.
	r.Get("/ws", gateway.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The sweep catches sessions whose local timers were lost.
	session.StartSweep(ctx, repo, supervisor, cfg.Session.Window, cfg.Session.SweepInterval, func(userID int64) {
		notify(sender, userID, "Your session expired due to inactivity. Send /start to pick up again.")
	})

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

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

func notify(sender transport.Sender, userID int64, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp := &router.Response{Class: router.ClassSuccess, Text: text}
	if err := sender.Send(ctx, userID, resp); err != nil {
		slog.Warn("failed to deliver notice", "user_id", userID, "error", err)
	}
}
