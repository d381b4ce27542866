package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/callsight/platform/internal/cache"
	"github.com/callsight/platform/internal/call"
	"github.com/callsight/platform/internal/clinic"
	"github.com/callsight/platform/internal/dashboard"
	"github.com/callsight/platform/internal/evaluation"
	"github.com/callsight/platform/internal/shared/config"
	"github.com/callsight/platform/internal/shared/database"
	"github.com/callsight/platform/internal/shared/logging"
	"github.com/callsight/platform/internal/shared/metrics"
	secmiddleware "github.com/callsight/platform/internal/shared/middleware"
	"github.com/callsight/platform/internal/transcription"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	Log    *logrus.Logger
	DB     *database.DB
	Cache  *cache.Client
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Server.Env)
	app := &App{Config: cfg, Log: log}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("database not available")
	}
	app.DB = db
	defer db.Close()

	applied, err := database.Migrate(ctx, db.Pool)
	if err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	if applied > 0 {
		log.WithField("migrations", applied).Info("schema migrations applied")
	}

	// Cache is optional; without it every read hits the database
	if cfg.Redis.Enabled {
		cacheClient, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			log.WithError(err).Warn("redis not available, running without call cache")
		} else {
			app.Cache = cacheClient
			defer cacheClient.Close()
		}
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(metrics.Middleware)

	// Health checks
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// JSON routes carry small bodies; the transcribe mount gets its
		// own, much larger cap for audio uploads.
		r.Group(func(r chi.Router) {
			r.Use(secmiddleware.MaxBodySize(1 << 20))

			clinicRepo := clinic.NewRepository(db.Pool)
			clinicHandler := clinic.NewHandler(clinicRepo)
			r.Get("/clinics", clinicHandler.ListClinics)
			r.Get("/assistants", clinicHandler.ListAssistants)

			callRepo := call.NewRepository(db.Pool)
			callHandler := call.NewHandler(callRepo, app.Cache, log)
			evalRepo := evaluation.NewRepository(db.Pool)
			evalHandler := evaluation.NewHandler(evalRepo, app.Cache, log)

			r.Route("/calls", func(r chi.Router) {
				r.Get("/", callHandler.ListCalls)
				r.Get("/{callID}", callHandler.GetCall)
				r.Post("/{callID}/evaluations", evalHandler.CreateHuman)
			})
			r.Put("/evaluations/{evaluationID}", evalHandler.UpdateHuman)
			r.Put("/llm-evaluations/{evaluationID}/review", evalHandler.UpdateLLMReview)

			metricsStore := dashboard.NewPostgresStore(db.Pool)
			metricsService := dashboard.NewService(callRepo, clinicRepo, metricsStore)
			r.Mount("/metrics", dashboard.NewHandler(metricsService, log).Routes())
		})

		transcriber := transcription.NewClient(cfg.Transcription)
		if !transcriber.Configured() {
			log.Warn("transcription API key not set, /transcribe will fail")
		}
		limiter := secmiddleware.NewIPRateLimiter(
			cfg.Transcription.RateLimitPerSecond, cfg.Transcription.RateLimitBurst)
		r.With(limiter.Middleware, secmiddleware.MaxBodySize(26<<20)).
			Mount("/transcribe", transcription.NewHandler(transcriber, log).Routes())
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // transcription can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("server shutdown error")
		}
		close(done)
	}()

	log.WithFields(logrus.Fields{
		"env":   cfg.Server.Env,
		"port":  cfg.Server.Port,
		"cache": app.Cache != nil,
	}).Info("call review platform listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server error")
	}

	<-done
	log.Info("server stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"server": "ready"}
		healthy := true

		if err := app.DB.Health(r.Context()); err != nil {
			checks["database"] = "not ready: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "ready"
		}

		if app.Cache != nil {
			if err := app.Cache.Health(r.Context()); err != nil {
				checks["cache"] = "not ready: " + err.Error()
			} else {
				checks["cache"] = "ready"
			}
		} else {
			checks["cache"] = "not configured"
		}

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(checks)
	}
}
