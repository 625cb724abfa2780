// Package server is the composition root: it wires the repositories,
// services, and handlers together, defines the routes, and owns the HTTP
// server lifecycle.
//
// DEPENDENCY FLOW:
//
//	sqlite.DB → AuthService / JobService → AuthHandler / JobHandler → router
//	           ↘ TokenService (shared with the auth middleware)
//
// Handlers never touch the database, services never touch HTTP, and all
// configuration enters here by value — no globals anywhere downstream.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/alfred-agent/alfred/internal/auth"
	"github.com/alfred-agent/alfred/internal/config"
	"github.com/alfred-agent/alfred/internal/handler"
	"github.com/alfred-agent/alfred/internal/middleware"
	"github.com/alfred-agent/alfred/internal/repository/sqlite"
	"github.com/alfred-agent/alfred/internal/service"
)

// Server owns the router, the configuration, and the database connection.
// The connection is closed during graceful shutdown.
type Server struct {
	router http.Handler
	config config.Config
	logger *slog.Logger
	db     *sqlite.DB
}

// New builds a fully wired Server from the given config.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.TokenIssuer,
		Expiry: cfg.TokenExpiry,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	passwords := auth.NewPasswordService()
	authSvc := service.NewAuthService(db, tokens, passwords, logger)
	jobSvc := service.NewJobService(db, logger)

	authHandler := handler.NewAuthHandler(authSvc, logger)
	jobHandler := handler.NewJobHandler(jobSvc, db, logger)

	r := chi.NewRouter()

	// Order matters: request ID and real IP first so the logger sees them,
	// recoverer outermost of the handlers so a panic becomes a 500.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))

	r.Get("/health", handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/jobs/history", jobHandler.HandleHistory)
	})

	// The browser frontend runs on its own origin and sends the bearer
	// token in a header, so preflighted requests need CORS headers.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return &Server{
		router: c.Handler(r),
		config: cfg,
		logger: logger,
		db:     db,
	}, nil
}

// handleHealth is the liveness probe. No dependencies — if this responds,
// the process is up.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"healthy"}`))
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests (30s budget) and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
