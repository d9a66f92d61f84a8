package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fitlog-app/fitlog/internal/auth"
	"github.com/fitlog-app/fitlog/internal/config"
	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/tracker"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Start starts the Asynq worker in non-blocking mode and returns a stop
// function so the caller can coordinate shutdown.
func Start(cfg *config.Config, logger *slog.Logger, repos *repository.Set, sessions *auth.Manager, tr *tracker.Tracker) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskClearUserData, handleClearUserData(logger, repos, sessions))
	mux.HandleFunc(TaskRecomputeFrequency, handleRecomputeFrequency(logger, repos, tr))

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	logger.Info("worker started", "concurrency", 5)
	return func() { srv.Shutdown() }, nil
}

// handleClearUserData deletes everything a user owns, including active
// sessions.
func handleClearUserData(logger *slog.Logger, repos *repository.Set, sessions *auth.Manager) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}
		if payload.UserID == "" {
			return fmt.Errorf("empty user_id: %w", asynq.SkipRetry)
		}

		logger.Info("clearing user data", "user_id", payload.UserID)

		if err := sessions.DeleteByUser(ctx, payload.UserID); err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}
		if err := repos.PurgeUser(ctx, payload.UserID); err != nil {
			return fmt.Errorf("failed to purge user data: %w", err)
		}

		logger.Info("user data cleared", "user_id", payload.UserID)
		return nil
	}
}

// handleRecomputeFrequency refreshes every user's frequency goals so values
// drop when workout days age out of the trailing week. Chat notifications
// are only produced on the request path, not here.
func handleRecomputeFrequency(logger *slog.Logger, repos *repository.Set, tr *tracker.Tracker) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		users := repos.Users.List(ctx)
		for _, user := range users {
			_ = tr.UpdateFrequencyGoals(ctx, user.ID)
		}
		logger.Info("frequency goals recomputed", "users", len(users))
		return nil
	}
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		if retried >= maxRetry {
			logger.Error(
				"task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}
