package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bsm/redislock"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-reports/internal/cache"
	"github.com/segyhp/loan-reports/internal/config"
	"github.com/segyhp/loan-reports/internal/metrics"
	"github.com/segyhp/loan-reports/internal/repository"
	"github.com/segyhp/loan-reports/internal/scheduler"
	"github.com/segyhp/loan-reports/internal/service"
	"github.com/segyhp/loan-reports/internal/staticdata"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logg := config.NewLogger(cfg.Logging)
	logg.Info("Starting report cache scheduler...")

	if !cfg.Report.CacheEnabled || !cfg.Redis.Enabled {
		logg.Fatal("Scheduler requires REPORT_CACHE_ENABLED and REDIS_ENABLED")
	}

	var db *sqlx.DB
	if cfg.Database.Configured() {
		db, err = sqlx.Open(cfg.Database.Driver, cfg.Database.DSN())
		if err != nil {
			logg.Fatalf("Failed to open database: %v", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		defer db.Close()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logg.WithError(err).Warn("Redis not reachable yet; warm runs will fail until it is")
	}

	dataset, err := staticdata.Load()
	if err != nil {
		logg.Fatalf("Failed to load sample dataset: %v", err)
	}

	reportService := service.NewReportService(
		repository.NewConnector(db, cfg.Database.ConnectTimeout),
		repository.NewStaticSource(dataset),
		service.Options{
			Cache:         cache.New(rdb, cfg.Report.CacheTTL),
			Metrics:       metrics.New(),
			Logger:        logg,
			Upcoming:      cfg.GetUpcomingVariant(),
			SlowThreshold: cfg.Report.SlowThreshold,
		},
	)

	// Initialize cron scheduler
	c := cron.New(
		cron.WithParser(config.CronParser()),
		cron.WithLocation(cfg.GetSchedulerLocation()),
	)

	job := scheduler.NewWarmJob(reportService, redislock.New(rdb), cfg.Scheduler.LockTTL, logg)
	if _, err := job.Schedule(c, cfg.Scheduler.WarmSpec); err != nil {
		logg.Fatalf("Error scheduling warm job: %v", err)
	}

	// Warm once on start so the first requests hit the cache
	_, _ = job.Run(context.Background())

	// Start the scheduler
	c.Start()
	logg.WithField("spec", cfg.Scheduler.WarmSpec).Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	logg.Info("Scheduler stopped")
}
