package repository

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/store"
)

// Achievements persists achievement records. Achievements are immutable
// once created.
type Achievements struct {
	store  *store.Client
	logger *slog.Logger
}

// Create stores a new achievement.
func (r *Achievements) Create(ctx context.Context, userID, title, description, icon string) (*models.Achievement, error) {
	now := time.Now().UTC()
	a := &models.Achievement{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Icon:        icon,
		Date:        now.Format("2006-01-02"),
		CreatedAt:   now,
	}
	if err := r.store.SetJSON(ctx, achievementKey(a.ID), a, 0); err != nil {
		return nil, err
	}
	if err := r.store.IndexAdd(ctx, userAchievementsKey(userID), a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID loads an achievement record.
func (r *Achievements) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	var a models.Achievement
	if err := r.store.GetJSON(ctx, achievementKey(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByUser returns the user's achievements, newest first.
func (r *Achievements) ListByUser(ctx context.Context, userID string) []models.Achievement {
	ids := r.store.IndexMembers(ctx, userAchievementsKey(userID))
	achievements := make([]models.Achievement, 0, len(ids))
	for _, id := range ids {
		var a models.Achievement
		if err := r.store.GetJSON(ctx, achievementKey(id), &a); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				r.logger.Error("skipping unreadable achievement", "achievement_id", id, "error", err)
			}
			continue
		}
		achievements = append(achievements, a)
	}
	sort.Slice(achievements, func(i, j int) bool {
		return achievements[i].CreatedAt.After(achievements[j].CreatedAt)
	})
	return achievements
}

// Delete removes an achievement. Only the bulk user-data deletion task calls
// this; achievements are immutable through the API.
func (r *Achievements) Delete(ctx context.Context, id string) error {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := r.store.Delete(ctx, achievementKey(id)); err != nil {
		return err
	}
	return r.store.IndexRemove(ctx, userAchievementsKey(a.UserID), id)
}
