package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fitlog-app/fitlog/internal/config"
)

// StartScheduler registers the periodic frequency-goal recompute and starts
// the Asynq scheduler. Returns a stop function for graceful shutdown.
func StartScheduler(cfg *config.Config, logger *slog.Logger) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using UTC", "timezone", cfg.Timezone, "error", err)
		location = time.UTC
	}

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: location,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	task := asynq.NewTask(
		TaskRecomputeFrequency,
		nil, // handler walks all users
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(24*time.Hour),
	)

	entryID, err := scheduler.Register(cfg.RecomputeSchedule, task)
	if err != nil {
		return nil, fmt.Errorf("failed to register recompute schedule: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info(
		"scheduler started",
		"schedule", cfg.RecomputeSchedule,
		"timezone", cfg.Timezone,
		"entry_id", entryID,
	)
	return func() { scheduler.Shutdown() }, nil
}
