package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/loan-reports/internal/config"
)

const (
	moduleName = "scheduler"

	// WarmLockKey serialises warm runs across scheduler replicas.
	WarmLockKey = "lock:loan-reports:warm"
)

// Warmer recomputes and caches report output.
type Warmer interface {
	Warm(ctx context.Context) error
}

// WarmJob runs a cache warm under a redis lock. A nil locker runs the warm
// unguarded, for single-replica deployments without redis.
type WarmJob struct {
	warmer  Warmer
	locker  *redislock.Client
	lockTTL time.Duration
	timeout time.Duration
	logger  logrus.FieldLogger
}

func NewWarmJob(warmer Warmer, locker *redislock.Client, lockTTL time.Duration, logger logrus.FieldLogger) *WarmJob {
	if lockTTL <= 0 {
		lockTTL = time.Minute
	}
	return &WarmJob{
		warmer:  warmer,
		locker:  locker,
		lockTTL: lockTTL,
		timeout: lockTTL,
		logger:  logger,
	}
}

// Run performs one warm. It reports whether the warm ran; a lock held by
// another replica is not an error.
func (j *WarmJob) Run(ctx context.Context) (bool, error) {
	const funcName = "WarmJob.Run"

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	if j.locker != nil {
		lock, err := j.locker.Obtain(ctx, WarmLockKey, j.lockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			j.logger.WithField("module", moduleName).Info("warm lock held elsewhere, skipping run")
			return false, nil
		} else if err != nil {
			config.LogError(j.logger, moduleName, funcName, WarmLockKey, err)
			return false, err
		}
		defer func() {
			if releaseErr := lock.Release(context.Background()); releaseErr != nil && !errors.Is(releaseErr, redislock.ErrLockNotHeld) {
				config.LogError(j.logger, moduleName, funcName, WarmLockKey, releaseErr)
			}
		}()
	}

	started := time.Now()
	if err := j.warmer.Warm(ctx); err != nil {
		config.LogError(j.logger, moduleName, funcName, nil, err)
		return true, err
	}

	j.logger.WithFields(logrus.Fields{
		"module":   moduleName,
		"duration": time.Since(started).String(),
	}).Info("report cache warmed")
	return true, nil
}

// Schedule registers the job on c using spec.
func (j *WarmJob) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		_, _ = j.Run(context.Background())
	})
}
