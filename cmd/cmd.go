package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pinboard-backend/internal/cache"
	"pinboard-backend/internal/config"
	"pinboard-backend/internal/handlers"
	"pinboard-backend/internal/repository"
	"pinboard-backend/internal/repository/memory"
	"pinboard-backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// store is the entity store the services and the health check share
type store interface {
	services.Store
	handlers.Pinger
}

func Run() {
	// Load configuration
	path := os.Getenv("PINBOARD_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	st, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to open store")
	}
	defer closeStore()

	userCache, closeCache := openCache(ctx, cfg.Redis)
	defer closeCache()

	// Initialize services
	userService := services.NewUserService(st, userCache, cfg.JWT.Secret, cfg.JWT.TTL, cfg.Auth.BcryptCost)
	pinService := services.NewPinService(st, userCache, services.PageSizes{
		Default: cfg.Pagination.DefaultPageSize,
		PerUser: cfg.Pagination.UserPageSize,
		Max:     cfg.Pagination.MaxPageSize,
	})

	router := handlers.NewRouter(handlers.Services{
		Users:    userService,
		Pins:     pinService,
		Boards:   services.NewBoardService(st),
		Comments: services.NewCommentService(st),
		Follows:  services.NewFollowService(st, userCache),
		Likes:    services.NewLikeService(st),
		Saves:    services.NewSaveService(st),
		Messages: services.NewMessageService(st),
		Health:   st,
	}, handlers.RouterConfig{
		CookieName:    cfg.Auth.CookieName,
		TokenTTL:      cfg.JWT.TTL,
		AccessLogging: true,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("driver", cfg.Database.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStore connects the configured storage driver and returns a function releasing it
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store, func(), error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")

	if cfg.Migrate {
		if err := repository.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Msg("Database migrations applied")
	}

	return repository.NewStore(db), db.Close, nil
}

// openCache connects the profile cache. An unreachable Redis disables caching instead of failing startup.
func openCache(ctx context.Context, cfg config.RedisConfig) (cache.UserCache, func()) {
	if !cfg.Enabled {
		return cache.Noop{}, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis unavailable, profile cache disabled")
		rdb.Close()
		return cache.Noop{}, func() {}
	}
	log.Info().Str("addr", cfg.Addr).Msg("Redis connection established")

	return cache.NewRedisUserCache(rdb, cfg.TTL), func() { rdb.Close() }
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
