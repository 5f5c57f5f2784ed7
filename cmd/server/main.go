package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-reports/internal/cache"
	"github.com/segyhp/loan-reports/internal/config"
	"github.com/segyhp/loan-reports/internal/handler"
	"github.com/segyhp/loan-reports/internal/metrics"
	"github.com/segyhp/loan-reports/internal/repository"
	"github.com/segyhp/loan-reports/internal/service"
	"github.com/segyhp/loan-reports/internal/staticdata"
	"github.com/segyhp/loan-reports/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logg := config.NewLogger(cfg.Logging)
	response.SetLogger(logg)

	// Initialize database; an unreachable store is served from sample data
	db, err := initDB(cfg)
	if errors.Is(err, errNoDatabase) {
		logg.Info("No database configured, reports will use sample data")
	} else if err != nil {
		logg.WithError(err).Warn("Database unavailable, reports will use sample data")
	}
	if db != nil {
		defer db.Close()
	}

	// Initialize Redis
	redisClient := initRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	dataset, err := staticdata.Load()
	if err != nil {
		logg.Fatalf("Failed to load sample dataset: %v", err)
	}

	recorder := metrics.New()

	var reportCache *cache.ReportCache
	if cfg.Report.CacheEnabled {
		reportCache = cache.New(redisClient, cfg.Report.CacheTTL)
	}

	//Initialize service
	reportService := service.NewReportService(
		repository.NewConnector(db, cfg.Database.ConnectTimeout),
		repository.NewStaticSource(dataset),
		service.Options{
			Cache:         reportCache,
			Metrics:       recorder,
			Logger:        logg,
			Upcoming:      cfg.GetUpcomingVariant(),
			SlowThreshold: cfg.Report.SlowThreshold,
		},
	)
	reportHandler := handler.NewReportHandler(reportService, logg)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout)

	// Setup routes
	router := setupRoutes(reportHandler, healthHandler, recorder, logg)

	// Start server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logg.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Fatalf("Server forced to shutdown: %v", err)
	}

	logg.Info("Server exited")
}

var errNoDatabase = errors.New("no database configured")

// initDB opens the store pool. It returns a nil pool when no store is
// configured; the pool is still returned when the first ping fails so that
// later requests can reconnect.
func initDB(cfg *config.Config) (*sqlx.DB, error) {
	if !cfg.Database.Configured() {
		return nil, errNoDatabase
	}

	db, err := sqlx.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return db, err
	}

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(reportHandler *handler.ReportHandler, healthHandler *handler.HealthHandler, recorder *metrics.Recorder, logg *logrus.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.RequestIDMiddleware, response.LoggingMiddleware(logg), response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	router.Handle("/metrics", recorder.Handler()).Methods("GET")

	// Report detail pages
	router.HandleFunc("/reports/{reportId}", reportHandler.Detail).Methods("GET", "OPTIONS")

	/// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/reports", reportHandler.Catalogue).Methods("GET", "OPTIONS")
	api.HandleFunc("/reports/{reportId}", reportHandler.Detail).Methods("GET", "OPTIONS")

	return router
}
