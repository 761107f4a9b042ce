// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gamefest/backend/internal/config"
	"github.com/gamefest/backend/internal/database"
	"github.com/gamefest/backend/internal/handler"
	"github.com/gamefest/backend/internal/logging"
	"github.com/gamefest/backend/internal/repository"
	"github.com/gamefest/backend/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	logging.New()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// ── 1. Connect to PostgreSQL and apply the schema ─────────────────────
	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		slog.Error("migrate", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to postgres", "database", cfg.DB.Name)

	// ── 2. Wire up layers ────────────────────────────────────────────────
	eventRepo := repository.NewEventRepository(pool)
	enrollRepo := repository.NewEnrollmentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	gameRepo := repository.NewGameRepository(pool)

	eventSvc := service.NewEventService(eventRepo)
	enrollSvc := service.NewEnrollmentService(enrollRepo)
	authSvc := service.NewAuthService(userRepo)
	gameSvc := service.NewGameService(gameRepo)

	sessions := handler.NewSessions(cfg.SessionSecret)
	authHandler := handler.NewAuthHandler(authSvc, sessions)
	eventHandler := handler.NewEventHandler(eventSvc, enrollSvc, cfg.UploadDir)
	gameHandler := handler.NewGameHandler(gameSvc)
	userHandler := handler.NewUserHandler(eventSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // credentialed CORS for the frontend
	r.Use(sessions.WithIdentity)   // session cookie into request context

	// Health
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	r.Get("/games", gameHandler.ListGames)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.ListEvents)
		r.Get("/{id}", eventHandler.GetEvent)
		r.With(handler.RequireUser, handler.RequireAdmin).Post("/", eventHandler.CreateEvent)

		r.Route("/{id}/signup", func(r chi.Router) {
			r.Use(handler.RequireUser)
			r.Post("/", eventHandler.Signup)
			r.Delete("/", eventHandler.Withdraw)
		})
	})

	r.Route("/users/me", func(r chi.Router) {
		r.Use(handler.RequireUser)
		r.Get("/", userHandler.Me)
		r.Get("/events", userHandler.MyEvents)
	})

	// Uploaded event images.
	uploadsFS := http.FileServer(http.Dir(cfg.UploadDir))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", uploadsFS))

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		slog.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
