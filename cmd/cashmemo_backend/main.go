package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/adapters/cache"
	"github.com/SscSPs/cash_memo_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/cash_memo_ledger/internal/adapters/database/sqlite"
	"github.com/SscSPs/cash_memo_ledger/internal/adapters/events"
	portscache "github.com/SscSPs/cash_memo_ledger/internal/core/ports/cache"
	portsevents "github.com/SscSPs/cash_memo_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/cash_memo_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/cash_memo_ledger/internal/core/services"
	"github.com/SscSPs/cash_memo_ledger/internal/handlers"
	"github.com/SscSPs/cash_memo_ledger/internal/middleware"
	"github.com/SscSPs/cash_memo_ledger/internal/platform/config"
	"github.com/SscSPs/cash_memo_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const shutdownTimeout = 10 * time.Second

// @title Cash Memo Ledger API
// @version 1.0
// @description Daily cash memo ledger: entries, posting, balance chaining and reports.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Amounts go out as JSON numbers, the way the dashboard sends them.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	store, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if c, ok := store.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil {
				logger.Warn("Error closing cache", slog.String("error", cerr.Error()))
			}
		}()
	}

	publisher := openPublisher(cfg, logger)
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			logger.Warn("Error closing event publisher", slog.String("error", cerr.Error()))
		}
	}()

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-Match", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(limiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, store, publisher)
	handlers.RegisterRoutes(r, cfg, serviceContainer, repos.Health)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver), slog.String("cache", cfg.CacheDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the configured storage backend and applies migrations.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageSQLite {
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("SQLite database opened", slog.String("path", cfg.SQLitePath))
		return sqlite.NewRepositoryProvider(db), closeDB(db, logger), nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	applied, err := database.MigratePostgres(cfg.DatabaseURL)
	if err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func closeDB(db *sql.DB, logger *slog.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database", slog.String("error", err.Error()))
		}
	}
}

func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portscache.Store, error) {
	if cfg.CacheDriver == config.CacheRedis {
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cache.WithRedisLogger(logger))
		if err != nil {
			return nil, err
		}
		logger.Info("Redis cache connected", slog.String("addr", cfg.RedisAddr))
		return store, nil
	}
	return cache.NewMemoryStore(cache.WithMemoryLogger(logger)), nil
}

func openPublisher(cfg *config.Config, logger *slog.Logger) portsevents.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("No Kafka brokers configured, ledger events are not published")
		return events.NoopPublisher{}
	}
	logger.Info("Publishing ledger events", slog.String("topic", cfg.KafkaTopic))
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}
