// Package tracker applies parsed workout data to the user's goals: keyword
// matching, clamped progress increments, completion detection, and
// achievement creation.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/fitlog-app/fitlog/internal/events"
	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/rules"
)

// AchievementTitlePrefix prefixes every achievement created from a
// completed goal.
const AchievementTitlePrefix = "Выполнена цель: "

// Tracker updates goal progress from parsed exercises.
type Tracker struct {
	rules     *rules.Ruleset
	repos     *repository.Set
	publisher *events.Publisher // nil disables event publishing
	logger    *slog.Logger
}

// New creates a Tracker. publisher may be nil.
func New(rs *rules.Ruleset, repos *repository.Set, publisher *events.Publisher, logger *slog.Logger) *Tracker {
	return &Tracker{rules: rs, repos: repos, publisher: publisher, logger: logger}
}

// ExerciseValue computes the progress contribution of one exercise. For
// rep-based exercises it is reps*sets. For cardio, reps already carry
// kilometers, except reps==1 which means the upstream parser could not
// quantify the entry; then the distance is re-extracted from the original
// message text.
func (t *Tracker) ExerciseValue(ex models.Exercise, originalMessage string) float64 {
	if t.rules.IsCardio(ex.Name) {
		if ex.Reps == 1 {
			if km, ok := rules.ParseDistanceKm(originalMessage); ok {
				return km
			}
		}
		return ex.Reps
	}

	sets := ex.Sets
	if sets < 1 {
		sets = 1
	}
	return ex.Reps * float64(sets)
}

// ApplyWorkout runs the matching pass: every exercise is tested against
// every active goal, and each matching goal is advanced by the exercise
// value. Returned strings are progress and completion messages for the
// chat. A failed update of one goal is logged and does not abort the rest.
func (t *Tracker) ApplyWorkout(ctx context.Context, userID, originalMessage string, exercises []models.Exercise) []string {
	var messages []string

	for _, ex := range exercises {
		value := t.ExerciseValue(ex, originalMessage)
		if value <= 0 {
			continue
		}

		for _, goal := range t.repos.Goals.ListByUser(ctx, userID) {
			if !t.rules.Matches(ex.Name, goal.Title) {
				continue
			}

			msg, err := t.advance(ctx, goal.ID, value)
			if err != nil {
				t.logger.Error("goal update failed",
					"goal_id", goal.ID, "exercise", ex.Name, "error", err)
				continue
			}
			messages = append(messages, msg)
		}
	}
	return messages
}

// advance moves a goal forward by value and handles completion. The
// increment runs inside an optimistic transaction; completion side effects
// happen after the new value is durably stored.
func (t *Tracker) advance(ctx context.Context, goalID string, value float64) (string, error) {
	goal, err := t.repos.Goals.Mutate(ctx, goalID, func(g *models.Goal) error {
		next := g.CurrentValue + value
		if next > g.TargetValue {
			next = g.TargetValue
		}
		g.CurrentValue = next
		g.IsCompleted = next >= g.TargetValue
		return nil
	})
	if err != nil {
		return "", err
	}

	if goal.IsCompleted {
		return t.complete(ctx, goal)
	}

	pct := 0
	if goal.TargetValue > 0 {
		pct = int(goal.CurrentValue / goal.TargetValue * 100)
	}
	remaining := goal.TargetValue - goal.CurrentValue
	return fmt.Sprintf("📈 Прогресс по цели «%s»: %s/%s (%d%%). Осталось: %s",
		goal.Title, formatValue(goal.CurrentValue), formatValue(goal.TargetValue), pct, formatValue(remaining)), nil
}

// complete turns a finished goal into an achievement, deletes the goal, and
// returns the completion message.
func (t *Tracker) complete(ctx context.Context, goal *models.Goal) (string, error) {
	icon := t.rules.IconFor(goal.Title)
	achievement, err := t.repos.Achievements.Create(ctx, goal.UserID,
		AchievementTitlePrefix+goal.Title,
		fmt.Sprintf("Вы выполнили цель «%s»", goal.Title),
		icon)
	if err != nil {
		return "", fmt.Errorf("failed to create achievement: %w", err)
	}

	if err := t.repos.Goals.Delete(ctx, goal.ID); err != nil {
		return "", fmt.Errorf("failed to delete completed goal: %w", err)
	}

	if t.publisher != nil {
		if _, err := t.publisher.PublishGoalCompleted(ctx, events.GoalCompleted{
			GoalID: goal.ID,
			UserID: goal.UserID,
			Title:  goal.Title,
			Icon:   icon,
			Month:  achievement.CreatedAt.Format("2006-01"),
		}); err != nil {
			t.logger.Error("failed to publish goal completion", "goal_id", goal.ID, "error", err)
		}
	}

	return fmt.Sprintf("%s Поздравляем! Цель «%s» выполнена!", icon, goal.Title), nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
