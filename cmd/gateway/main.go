package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/examstack/examstack/internal/api/http"
	auth "github.com/examstack/examstack/internal/auth/middleware"
	"github.com/examstack/examstack/internal/config"
	"github.com/examstack/examstack/internal/dashboard"
	"github.com/examstack/examstack/internal/db"
	"github.com/examstack/examstack/internal/exam"
	"github.com/examstack/examstack/internal/grading"
	"github.com/examstack/examstack/internal/logging"
	"github.com/examstack/examstack/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	log := slog.New(logging.NewHandler(os.Stdout, cfg.LogLevel))
	slog.SetDefault(log)

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Error("db open failed", "err", err)
		os.Exit(1)
	}
	if err := auth.EnsureAdmin(ctx, dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Error("seed admin failed", "err", err)
		os.Exit(1)
	}

	store := exam.NewSQLStore(dbh)
	svc := exam.NewService(store, grading.NewGrader(), dashboard.NewLog(dbh), log)
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Admin: author tests
		pr.With(rbac.Require("test:create")).
			Put("/tests", api.PutTestHandler(store))

		// Student/Admin: fetch test (answer keys stripped)
		pr.With(rbac.Require("test:view")).
			Get("/tests/{testID}", api.GetTestHandler(store))

		// Student flow: one submission per attempt, scored server-side
		pr.With(rbac.Require("attempt:submit")).
			Post("/tests/{testID}/submit", api.SubmitAttemptHandler(svc))

		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", api.GetAttemptResultsHandler(svc))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts", api.ListAttemptsHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Info("listening", "addr", cfg.HTTPAddr, "db", cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
