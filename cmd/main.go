package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/venu1011/CineVault/internal/config"
	"github.com/venu1011/CineVault/internal/handler"
	"github.com/venu1011/CineVault/internal/service"
	"github.com/venu1011/CineVault/internal/storage"
	"github.com/venu1011/CineVault/internal/store"
	"github.com/venu1011/CineVault/internal/tmdb"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to Redis (required for the redis storage backend, otherwise
	// only used as a catalog cache and non-fatal if unavailable)
	var rdb *redis.Client
	rdb, err = storage.NewRedisClient(cfg.Redis)
	if err != nil {
		if cfg.Storage == "redis" {
			slog.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		slog.Warn("Redis unavailable, running without catalog cache", "error", err)
		rdb = nil
	}

	// Select the preference storage backend
	backend, closeBackend, err := newStorage(cfg, rdb)
	if err != nil {
		slog.Error("failed to initialize storage backend", "backend", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	// Initialize layers
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL)
	prefStore := store.New(backend)
	svc := service.NewDiscoveryService(tmdbClient, prefStore, rdb)
	defer svc.Close()

	movieHandler := handler.NewMovieHandler(svc)
	prefHandler := handler.NewPreferenceHandler(prefStore)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CineVault",
		ServerHeader: "CineVault",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// API routes
	handler.RegisterRoutes(app, movieHandler, prefHandler)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting CineVault", "addr", addr, "storage", cfg.Storage)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newStorage builds the configured preference storage backend and a cleanup
// function.
func newStorage(cfg *config.Config, rdb *redis.Client) (storage.Storage, func(), error) {
	noop := func() {}
	switch cfg.Storage {
	case "redis":
		return storage.NewRedis(rdb), noop, nil
	case "postgres":
		pg, err := storage.NewPostgres(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	case "memory":
		slog.Warn("using in-memory storage, preferences will not survive restarts")
		return storage.NewMemory(), noop, nil
	}
	// config.Load already validated the backend name
	return storage.NewMemory(), noop, nil
}
