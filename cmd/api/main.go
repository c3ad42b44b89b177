// Package main is the entrypoint for the VinPed API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vinped/vinped/internal/auth"
	"github.com/vinped/vinped/internal/cache"
	"github.com/vinped/vinped/internal/config"
	"github.com/vinped/vinped/internal/handler"
	"github.com/vinped/vinped/internal/metrics"
	"github.com/vinped/vinped/internal/middleware"
	"github.com/vinped/vinped/internal/repository"
	"github.com/vinped/vinped/internal/server"
	"github.com/vinped/vinped/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if cfg.MigrateOnStart {
		if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Error(
				"failed to run migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheus(registry)

	accountService := service.NewAccountService(repo, cacheClient, tokens, recorder)
	walletService := service.NewWalletService(repo, recorder)
	categoryService := service.NewCategoryService(repo)

	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(accountService, logger)
	walletHandler := handler.NewWalletHandler(walletService, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)

	r := setupRouter(routerDeps{
		health:   healthHandler,
		auth:     authHandler,
		wallet:   walletHandler,
		category: categoryHandler,
		tokens:   tokens,
		repo:     repo,
		cache:    cacheClient,
		recorder: recorder,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"session_checks", cfg.AuthCheckSessions,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	health   *handler.HealthHandler
	auth     *handler.AuthHandler
	wallet   *handler.WalletHandler
	category *handler.CategoryHandler
	tokens   *auth.TokenManager
	repo     *repository.Repository
	cache    *cache.Cache
	recorder metrics.Recorder
	registry *prometheus.Registry
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.DefaultSecurityConfig()))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	if origins := deps.cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowedOrigins = origins
	}
	r.Use(middleware.CORS(corsCfg))

	// Operational endpoints, no auth.
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Method("GET", "/metrics", promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{}))

	authCfg := middleware.AuthConfig{
		Logger:        deps.logger,
		Verifier:      deps.tokens,
		CheckSessions: deps.cfg.AuthCheckSessions,
		Repository:    deps.repo,
		Cache:         deps.cache,
		Metrics:       deps.recorder,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitEnabled,
		RPS:     deps.cfg.RateLimitRPS,
		Burst:   deps.cfg.RateLimitBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.auth.Register)
			r.Post("/login", deps.auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(authCfg))
				r.Get("/me", deps.auth.Me)
				r.Post("/logout", deps.auth.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Route("/wallets", func(r chi.Router) {
				r.Get("/", deps.wallet.List)
				r.Post("/", deps.wallet.Create)
				r.Get("/{id}", deps.wallet.Get)
				r.Patch("/{id}", deps.wallet.Update)
				r.Delete("/{id}", deps.wallet.Delete)
			})

			r.Get("/categories", deps.category.List)
		})
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
