// Package main is the entry point for the recipe API server.
// The server exposes a multi-tenant recipe catalog: user registration,
// token authentication and per-user tags, ingredients and recipes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rashid54/recipe-app-api/internal/auth"
	"github.com/rashid54/recipe-app-api/internal/cache/memory"
	rediscache "github.com/rashid54/recipe-app-api/internal/cache/redis"
	"github.com/rashid54/recipe-app-api/internal/config"
	"github.com/rashid54/recipe-app-api/internal/handler"
	"github.com/rashid54/recipe-app-api/internal/metrics"
	"github.com/rashid54/recipe-app-api/internal/middleware"
	"github.com/rashid54/recipe-app-api/internal/repository"
	"github.com/rashid54/recipe-app-api/internal/repository/postgres"
	"github.com/rashid54/recipe-app-api/internal/repository/sqlite"
	"github.com/rashid54/recipe-app-api/internal/service"
	"github.com/rashid54/recipe-app-api/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := newLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting recipe API server")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, dbHealth, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer dbHealth.Close()

	cache, closeCache, err := openCache(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	images, err := openStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}

	userService := service.NewUserService(repos.User, cfg.Auth, logger)
	tokenService := service.NewTokenService(repos.Token, repos.User, cache, cfg.Auth, logger)
	tagService := service.NewTagService(repos.Tag, logger)
	ingredientService := service.NewIngredientService(repos.Ingredient, logger)
	recipeService := service.NewRecipeService(repos.Recipe, repos.Tag, repos.Ingredient, images, logger)

	middlewares := []func(http.Handler) http.Handler{
		middleware.RequestLogger(logger),
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		middlewares = append(middlewares, m.Middleware)
	}
	if cfg.RateLimit.Enabled {
		middlewares = append(middlewares, middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize))
	}
	middlewares = append(middlewares, auth.Middleware(tokenService, auth.DefaultConfig(), logger))

	router := handler.NewRouter(handler.RouterConfig{
		UserHandler:       handler.NewUserHandler(userService, tokenService),
		TagHandler:        handler.NewTagHandler(tagService),
		IngredientHandler: handler.NewIngredientHandler(ingredientService),
		RecipeHandler:     handler.NewRecipeHandler(recipeService),
		Middlewares:       middlewares,
		DB:                dbHealth,
		Logger:            logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      http.MaxBytesHandler(router.Handler(), cfg.Server.MaxBodySize),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = startMetricsServer(cfg.Metrics, m, logger, errCh)
	}

	if cfg.Auth.TokenTTL > 0 {
		go purgeExpiredTokens(ctx, tokenService)
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}

// newLogger builds the root logger from the logging configuration.
func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}

// openDatabase connects to the configured backend and applies pending
// migrations.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*repository.Repositories, repository.DatabaseHealth, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate postgres schema: %w", err)
		}
		return postgres.NewRepositories(db), db, nil

	default:
		db, err := sqlite.NewDB(ctx, sqliteConfig(cfg), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
		return sqlite.NewRepositories(db), db, nil
	}
}

// sqliteConfig maps application database settings onto the sqlite driver
// configuration.
func sqliteConfig(cfg config.DatabaseConfig) sqlite.Config {
	c := sqlite.DefaultConfig(cfg.Path)
	if cfg.JournalMode != "" {
		c.JournalMode = cfg.JournalMode
	}
	if cfg.BusyTimeout > 0 {
		c.BusyTimeout = cfg.BusyTimeout
	}
	if cfg.CacheSize != 0 {
		c.CacheSize = cfg.CacheSize
	}
	if cfg.SynchronousMode != "" {
		c.SynchronousMode = cfg.SynchronousMode
	}
	return c
}

// openCache selects the token cache implementation. Redis serves
// multi-node deployments; the in-memory cache keeps single binaries
// dependency-free.
func openCache(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) (repository.Cache, func(), error) {
	if cfg.Enabled {
		cache, err := rediscache.NewCache(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info().Str("addr", cfg.Addr()).Msg("redis token cache connected")
		return cache, func() { _ = cache.Close() }, nil
	}

	cache := memory.NewCache()
	return cache, cache.Stop, nil
}

// openStorage selects the image blob backend.
func openStorage(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (storage.Backend, error) {
	if cfg.Backend == "s3" {
		backend, err := storage.NewS3Backend(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		logger.Info().Str("bucket", cfg.S3.Bucket).Msg("S3 image storage ready")
		return backend, nil
	}

	backend, err := storage.NewFilesystemBackend(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize filesystem storage: %w", err)
	}
	logger.Info().Str("dir", cfg.DataDir).Msg("filesystem image storage ready")
	return backend, nil
}

// startMetricsServer runs the Prometheus scrape endpoint on its own port.
func startMetricsServer(cfg config.MetricsConfig, m *metrics.Metrics, logger zerolog.Logger, errCh chan<- error) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, m.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Str("path", cfg.Path).Msg("metrics server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return server
}

// purgeExpiredTokens sweeps expired tokens periodically while the server
// runs.
func purgeExpiredTokens(ctx context.Context, tokens *service.TokenService) {
	ticker := time.NewTicker(service.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = tokens.PurgeExpired(ctx)
		}
	}
}
