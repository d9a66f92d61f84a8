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

// Days persists per-user calendar days.
type Days struct {
	store  *store.Client
	logger *slog.Logger
}

// GetByID loads a day record.
func (r *Days) GetByID(ctx context.Context, id string) (*models.Day, error) {
	var day models.Day
	if err := r.store.GetJSON(ctx, dayKey(id), &day); err != nil {
		return nil, err
	}
	return &day, nil
}

// GetOrCreate returns the user's day for the given YYYY-MM-DD date, creating
// it on first use. The (user, date) lookup key is claimed with SETNX, so two
// concurrent calls for the same date converge on one day id.
func (r *Days) GetOrCreate(ctx context.Context, userID, date string) (*models.Day, error) {
	if id, err := r.store.GetString(ctx, userDayDateKey(userID, date)); err == nil {
		return r.GetByID(ctx, id)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	day := &models.Day{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	claimed, err := r.store.SetStringNX(ctx, userDayDateKey(userID, date), day.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Lost the race: another request created the day first.
		id, err := r.store.GetString(ctx, userDayDateKey(userID, date))
		if err != nil {
			return nil, err
		}
		return r.GetByID(ctx, id)
	}

	if err := r.store.SetJSON(ctx, dayKey(day.ID), day, 0); err != nil {
		return nil, err
	}
	if err := r.store.IndexAdd(ctx, userDaysKey(userID), day.ID); err != nil {
		return nil, err
	}
	return day, nil
}

// ListByUser returns the user's days, newest date first.
func (r *Days) ListByUser(ctx context.Context, userID string) []models.Day {
	ids := r.store.IndexMembers(ctx, userDaysKey(userID))
	days := make([]models.Day, 0, len(ids))
	for _, id := range ids {
		var day models.Day
		if err := r.store.GetJSON(ctx, dayKey(id), &day); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				r.logger.Error("skipping unreadable day", "day_id", id, "error", err)
			}
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

// Touch bumps the day's updated_at timestamp.
func (r *Days) Touch(ctx context.Context, id string) error {
	day, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	day.UpdatedAt = time.Now().UTC()
	return r.store.SetJSON(ctx, dayKey(id), day, 0)
}
