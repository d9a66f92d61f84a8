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

// Workouts persists structured workout records.
type Workouts struct {
	store  *store.Client
	logger *slog.Logger
}

// Create stores a workout parsed out of a chat message.
func (r *Workouts) Create(ctx context.Context, userID, dayID, chatMessageID string, exercises []models.Exercise) (*models.Workout, error) {
	now := time.Now().UTC()
	w := &models.Workout{
		ID:            uuid.New().String(),
		UserID:        userID,
		DayID:         dayID,
		ChatMessageID: chatMessageID,
		Exercises:     exercises,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.store.SetJSON(ctx, workoutKey(w.ID), w, 0); err != nil {
		return nil, err
	}
	if err := r.store.IndexAdd(ctx, userWorkoutsKey(userID), w.ID); err != nil {
		return nil, err
	}
	if err := r.store.IndexAdd(ctx, dayWorkoutsKey(dayID), w.ID); err != nil {
		return nil, err
	}
	return w, nil
}

// GetByID loads a workout record.
func (r *Workouts) GetByID(ctx context.Context, id string) (*models.Workout, error) {
	var w models.Workout
	if err := r.store.GetJSON(ctx, workoutKey(id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListByUser returns the user's workouts, newest first.
func (r *Workouts) ListByUser(ctx context.Context, userID string) []models.Workout {
	return r.collect(ctx, r.store.IndexMembers(ctx, userWorkoutsKey(userID)))
}

// ListByDay returns the workouts logged on one day.
func (r *Workouts) ListByDay(ctx context.Context, dayID string) []models.Workout {
	return r.collect(ctx, r.store.IndexMembers(ctx, dayWorkoutsKey(dayID)))
}

// ListByMonth returns the workouts in one YYYY-MM bucket. The bucket index
// is maintained by the events consumer.
func (r *Workouts) ListByMonth(ctx context.Context, month string) []models.Workout {
	return r.collect(ctx, r.store.IndexMembers(ctx, MonthWorkoutsKey(month)))
}

// UpdateExercises replaces a workout's exercise list.
func (r *Workouts) UpdateExercises(ctx context.Context, id string, exercises []models.Exercise) (*models.Workout, error) {
	w, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Exercises = exercises
	w.UpdatedAt = time.Now().UTC()
	if err := r.store.SetJSON(ctx, workoutKey(id), w, 0); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a workout and every index entry pointing at it, including
// its month bucket.
func (r *Workouts) Delete(ctx context.Context, id string) error {
	w, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := r.store.Delete(ctx, workoutKey(id)); err != nil {
		return err
	}
	if err := r.store.IndexRemove(ctx, userWorkoutsKey(w.UserID), id); err != nil {
		return err
	}
	if err := r.store.IndexRemove(ctx, dayWorkoutsKey(w.DayID), id); err != nil {
		return err
	}
	return r.store.IndexRemove(ctx, MonthWorkoutsKey(w.CreatedAt.Format("2006-01")), id)
}

func (r *Workouts) collect(ctx context.Context, ids []string) []models.Workout {
	workouts := make([]models.Workout, 0, len(ids))
	for _, id := range ids {
		var w models.Workout
		if err := r.store.GetJSON(ctx, workoutKey(id), &w); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				r.logger.Error("skipping unreadable workout", "workout_id", id, "error", err)
			}
			continue
		}
		workouts = append(workouts, w)
	}
	sort.Slice(workouts, func(i, j int) bool { return workouts[i].CreatedAt.After(workouts[j].CreatedAt) })
	return workouts
}
