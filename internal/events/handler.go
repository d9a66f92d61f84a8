package events

import (
	"context"
	"log/slog"

	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
)

// NewHandlers builds the default event handlers: workout events maintain the
// month-bucketed workout index behind the admin listing, goal events bump a
// per-month completion counter.
func NewHandlers(s *store.Client, logger *slog.Logger) Handlers {
	return Handlers{
		WorkoutLogged: func(ctx context.Context, ev WorkoutLogged) error {
			if err := s.IndexAdd(ctx, repository.MonthWorkoutsKey(ev.Month), ev.WorkoutID); err != nil {
				return err
			}
			logger.Debug("workout indexed", "workout_id", ev.WorkoutID, "month", ev.Month)
			return nil
		},
		GoalCompleted: func(ctx context.Context, ev GoalCompleted) error {
			if err := s.IncrCounter(ctx, "stats:completions:"+ev.Month); err != nil {
				return err
			}
			logger.Info("goal completed", "goal_id", ev.GoalID, "user_id", ev.UserID, "title", ev.Title)
			return nil
		},
	}
}
