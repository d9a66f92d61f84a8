package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/store"
)

// MuscleGroups persists the shared muscle-group catalog.
type MuscleGroups struct {
	store  *store.Client
	logger *slog.Logger
}

func (r *MuscleGroups) Create(ctx context.Context, name, nameRu string) (*models.MuscleGroup, error) {
	m := &models.MuscleGroup{
		ID:        uuid.New().String(),
		Name:      name,
		NameRu:    nameRu,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.SetJSON(ctx, muscleGroupKey(m.ID), m, 0); err != nil {
		return nil, err
	}
	if err := r.store.IndexAdd(ctx, muscleGroupsIndex, m.ID); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MuscleGroups) List(ctx context.Context) []models.MuscleGroup {
	ids := r.store.IndexMembers(ctx, muscleGroupsIndex)
	groups := make([]models.MuscleGroup, 0, len(ids))
	for _, id := range ids {
		var m models.MuscleGroup
		if err := r.store.GetJSON(ctx, muscleGroupKey(id), &m); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				r.logger.Error("skipping unreadable muscle group", "muscle_group_id", id, "error", err)
			}
			continue
		}
		groups = append(groups, m)
	}
	return groups
}

func (r *MuscleGroups) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, muscleGroupKey(id)); err != nil {
		return err
	}
	return r.store.IndexRemove(ctx, muscleGroupsIndex, id)
}
