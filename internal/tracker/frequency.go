package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/fitlog-app/fitlog/internal/models"
)

// UpdateFrequencyGoals sets every frequency goal ("train N times a week")
// to the number of distinct calendar days with at least one workout in the
// trailing 7 days, clamped to the target. Completion is handled the same
// way as for value goals. Failures are isolated per goal.
func (t *Tracker) UpdateFrequencyGoals(ctx context.Context, userID string) []string {
	trainedDays := t.distinctWorkoutDays(ctx, userID, 7)

	var messages []string
	for _, goal := range t.repos.Goals.ListByUser(ctx, userID) {
		if !t.rules.IsFrequencyGoal(goal.Title) {
			continue
		}

		value := float64(trainedDays)
		if value > goal.TargetValue {
			value = goal.TargetValue
		}
		if value == goal.CurrentValue {
			continue
		}

		updated, err := t.repos.Goals.Mutate(ctx, goal.ID, func(g *models.Goal) error {
			g.CurrentValue = value
			g.IsCompleted = value >= g.TargetValue
			return nil
		})
		if err != nil {
			t.logger.Error("frequency goal update failed", "goal_id", goal.ID, "error", err)
			continue
		}

		if updated.IsCompleted {
			msg, err := t.complete(ctx, updated)
			if err != nil {
				t.logger.Error("frequency goal completion failed", "goal_id", goal.ID, "error", err)
				continue
			}
			messages = append(messages, msg)
			continue
		}

		messages = append(messages, fmt.Sprintf("🗓 Тренировки на этой неделе: %s/%s (цель «%s»)",
			formatValue(updated.CurrentValue), formatValue(updated.TargetValue), updated.Title))
	}
	return messages
}

// distinctWorkoutDays counts the calendar dates with at least one workout
// within the trailing window.
func (t *Tracker) distinctWorkoutDays(ctx context.Context, userID string, windowDays int) int {
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)
	seen := make(map[string]struct{})
	for _, w := range t.repos.Workouts.ListByUser(ctx, userID) {
		if w.CreatedAt.Before(cutoff) {
			continue
		}
		seen[w.CreatedAt.Format("2006-01-02")] = struct{}{}
	}
	return len(seen)
}
