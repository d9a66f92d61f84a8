package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/store"
)

// Goals persists progress goals. Completed goals are deleted, so every
// stored goal is active.
type Goals struct {
	store  *store.Client
	logger *slog.Logger
}

// Create stores a new goal with clamped initial progress.
func (r *Goals) Create(ctx context.Context, g models.Goal) (*models.Goal, error) {
	now := time.Now().UTC()
	g.ID = uuid.New().String()
	g.IsCompleted = false
	g.CreatedAt = now
	g.UpdatedAt = now
	if g.CurrentValue < 0 {
		g.CurrentValue = 0
	}
	if g.CurrentValue > g.TargetValue {
		g.CurrentValue = g.TargetValue
	}

	if err := r.store.SetJSON(ctx, goalKey(g.ID), &g, 0); err != nil {
		return nil, err
	}
	if err := r.store.IndexAdd(ctx, userGoalsKey(g.UserID), g.ID); err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByID loads a goal record.
func (r *Goals) GetByID(ctx context.Context, id string) (*models.Goal, error) {
	var g models.Goal
	if err := r.store.GetJSON(ctx, goalKey(id), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListByUser returns the user's active goals, oldest first.
func (r *Goals) ListByUser(ctx context.Context, userID string) []models.Goal {
	ids := r.store.IndexMembers(ctx, userGoalsKey(userID))
	goals := make([]models.Goal, 0, len(ids))
	for _, id := range ids {
		var g models.Goal
		if err := r.store.GetJSON(ctx, goalKey(id), &g); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				r.logger.Error("skipping unreadable goal", "goal_id", id, "error", err)
			}
			continue
		}
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.Before(goals[j].CreatedAt) })
	return goals
}

// Update overwrites a goal's editable fields.
func (r *Goals) Update(ctx context.Context, g *models.Goal) error {
	g.UpdatedAt = time.Now().UTC()
	return r.store.SetJSON(ctx, goalKey(g.ID), g, 0)
}

// Mutate applies fn to the goal inside an optimistic transaction, so two
// concurrent progress updates to the same goal cannot lose an increment.
func (r *Goals) Mutate(ctx context.Context, id string, fn func(g *models.Goal) error) (*models.Goal, error) {
	var result models.Goal
	err := r.store.Update(ctx, goalKey(id), func(raw []byte) ([]byte, error) {
		var g models.Goal
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, err
		}
		if err := fn(&g); err != nil {
			return nil, err
		}
		g.UpdatedAt = time.Now().UTC()
		result = g
		return json.Marshal(&g)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a goal and its index entry.
func (r *Goals) Delete(ctx context.Context, id string) error {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := r.store.Delete(ctx, goalKey(id)); err != nil {
		return err
	}
	return r.store.IndexRemove(ctx, userGoalsKey(g.UserID), id)
}
