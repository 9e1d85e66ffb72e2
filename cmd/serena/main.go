// Copyright (c) 2025-2026 Kasa Serena Designs
// SPDX-License-Identifier: GPL-3.0-or-later

// Serena is the Kasa Serena Designs web backend: the marketing site API,
// AI-assisted design generation and the customer project dashboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/kasaserena/serena-go/internal/ai"
	"github.com/kasaserena/serena-go/internal/analytics"
	"github.com/kasaserena/serena-go/internal/cache"
	"github.com/kasaserena/serena-go/internal/config"
	"github.com/kasaserena/serena-go/internal/geoip"
	"github.com/kasaserena/serena-go/internal/handler"
	"github.com/kasaserena/serena-go/internal/imaging"
	"github.com/kasaserena/serena-go/internal/logging"
	"github.com/kasaserena/serena-go/internal/middleware"
	"github.com/kasaserena/serena-go/internal/scheduler"
	"github.com/kasaserena/serena-go/internal/session"
	"github.com/kasaserena/serena-go/internal/store"
)

// Build-time injected values (via -ldflags).
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Serena - Kasa Serena Designs backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SERENA_SESSION_SECRET  Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SERENA_DB_PATH         SQLite database path (default: ./data/serena.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SERENA_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SERENA_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY         OpenAI key for design generation\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GOOGLE_GEMINI_API_KEY  Gemini key for image analysis\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SERENA_AI_OPTIONAL     Allow startup without AI keys (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SERENA_REDIS_URL       Redis URL for the catalog cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SERENA_GEOIP_DB_PATH   GeoLite2-Country.mmdb path for usage analytics (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SERENA_DO_SEED         Seed the materials catalog on startup (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("serena %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	ctx := context.Background()

	// Database
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	st := store.NewSQLiteStore(db)

	// Upgrade the logger so WARN and above also land in the events table.
	logger = slog.New(logging.NewEventLogHandler(textHandler, st))
	slog.SetDefault(logger)

	// Seeding
	if cfg.DoSeed {
		if err := store.Seed(ctx, st, logger); err != nil {
			return fmt.Errorf("seeding catalog: %w", err)
		}
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := store.SeedAdmin(ctx, st, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
	}

	// Sessions, backed by the same SQLite database
	sessionManager := session.NewManager(db, !cfg.IsDevelopment())

	// Catalog cache: Redis when configured, in-process otherwise
	appCache, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		logger.Warn("redis unavailable, using in-process cache", "error", err)
	}
	defer func() { _ = appCache.Close() }()

	// GeoIP for usage analytics (optional)
	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Open(cfg.GeoIPDBPath); err != nil {
			logger.Warn("geoip database unavailable", "path", cfg.GeoIPDBPath, "error", err)
		}
	}
	defer func() { _ = geo.Close() }()

	// AI gateways. Missing keys are fatal unless SERENA_AI_OPTIONAL is set;
	// config.Load has already enforced that.
	var design ai.DesignGateway
	var vision ai.VisionGateway
	if cfg.OpenAIAPIKey != "" {
		openaiGW, err := ai.NewOpenAIGateway(cfg.OpenAIAPIKey, logger)
		if err != nil {
			return fmt.Errorf("initializing openai gateway: %w", err)
		}
		design = openaiGW
	} else {
		logger.Warn("running without OpenAI; design generation routes return 503")
	}
	if cfg.GeminiAPIKey != "" {
		geminiGW, err := ai.NewGeminiGateway(cfg.GeminiAPIKey, logger)
		if err != nil {
			return fmt.Errorf("initializing gemini gateway: %w", err)
		}
		vision = geminiGW
	} else {
		logger.Warn("running without Gemini; image analysis routes return 503")
	}

	// Retention scheduler
	sched := scheduler.New(st, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	tracker := analytics.NewTracker(st, geo, logger)

	h := handler.New(handler.Config{
		Store:    st,
		Sessions: sessionManager,
		Cache:    appCache,
		CacheTTL: time.Duration(cfg.CacheTTL) * time.Second,
		Design:   design,
		Vision:   vision,
		Images:   imaging.NewProcessor(cfg.UploadsDir),
		Log:      logger,
	})

	r := buildRouter(cfg, h, sessionManager, st, tracker)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // AI generation calls are slow
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// Per-route rate limit windows.
const (
	generalRateLimit = 100 // per 15 minutes
	authRateLimit    = 10  // per hour
	aiRateLimit      = 30  // per hour
	quoteRateLimit   = 20  // per day
)

// buildRouter assembles the middleware stack and the /api route table.
func buildRouter(cfg *config.Config, h *handler.Handler, sm *scs.SessionManager, st store.Storage, tracker *analytics.Tracker) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret), cfg.IsDevelopment(), strconv.Itoa(cfg.ServerPort))))
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadUser(sm, st))

	generalLimiter := middleware.NewRateLimiter("general", generalRateLimit, 15*time.Minute)
	authLimiter := middleware.NewRateLimiter("auth", authRateLimit, time.Hour)
	aiLimiter := middleware.NewRateLimiter("ai", aiRateLimit, time.Hour)
	quoteLimiter := middleware.NewRateLimiter("quotes", quoteRateLimit, 24*time.Hour)

	r.Route("/api", func(r chi.Router) {
		r.Use(generalLimiter.Middleware)

		// Public
		r.Get("/health", h.Health)
		r.Post("/contact", h.Contact)
		r.Get("/materials", h.ListMaterials)
		r.Get("/materials/type/{type}", h.ListMaterialsByType)
		r.Get("/distributors", h.ListDistributors)
		r.Get("/distributors/{id}", h.GetDistributor)
		r.With(aiLimiter.Middleware, tracker.Track("openai")).Post("/design-chat", h.DesignChat)

		// Auth, throttled harder against credential stuffing
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		// Session required
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/logout", h.Logout)
			r.Get("/user", h.CurrentUser)
			r.Put("/user", h.UpdateProfile)

			r.Post("/projects", h.CreateProject)
			r.Get("/projects", h.ListProjects)
			r.Get("/projects/user", h.ListUserProjects)
			r.Get("/projects/{id}", h.GetProject)
			r.Put("/projects/{id}", h.UpdateProject)
			r.Delete("/projects/{id}", h.DeleteProject)

			r.Get("/quotes", h.ListUserQuotes)
			r.Get("/quotes/{id}", h.GetQuote)
			r.With(quoteLimiter.Middleware).Post("/quotes", h.CreateQuote)

			r.Post("/convert-heic", h.ConvertHEIC)

			// AI generation, tracked per provider
			r.Group(func(r chi.Router) {
				r.Use(aiLimiter.Middleware)
				r.With(tracker.Track("openai")).Post("/design-generator", h.DesignGenerator)
				r.With(tracker.Track("openai")).Post("/generate-preview", h.GeneratePreview)
				r.With(tracker.Track("openai")).Post("/estimate-cost", h.EstimateCost)
				r.With(tracker.Track("openai")).Post("/analyze-image", h.AnalyzeImage)
				r.With(tracker.Track("gemini")).Post("/analyze-image-gemini", h.AnalyzeImageGemini)
				r.With(tracker.Track("gemini")).Post("/design-suggestions", h.DesignSuggestions)
			})
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/messages", h.ListMessages)
			r.Put("/messages/{id}/read", h.MarkMessageRead)
			r.Get("/quotes", h.ListQuotes)
			r.Put("/quotes/{id}/status", h.UpdateQuoteStatus)
			r.Get("/stats", h.GetStats)
		})
	})

	return r
}
