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

// Equipment persists per-user training equipment.
type Equipment struct {
	store  *store.Client
	logger *slog.Logger
}

func (r *Equipment) Create(ctx context.Context, userID, name, category string) (*models.Equipment, error) {
	e := &models.Equipment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.SetJSON(ctx, equipmentKey(e.ID), e, 0); err != nil {
		return nil, err
	}
	if err := r.store.IndexAdd(ctx, userEquipmentKey(userID), e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Equipment) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	var e models.Equipment
	if err := r.store.GetJSON(ctx, equipmentKey(id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Equipment) ListByUser(ctx context.Context, userID string) []models.Equipment {
	ids := r.store.IndexMembers(ctx, userEquipmentKey(userID))
	items := make([]models.Equipment, 0, len(ids))
	for _, id := range ids {
		var e models.Equipment
		if err := r.store.GetJSON(ctx, equipmentKey(id), &e); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				r.logger.Error("skipping unreadable equipment", "equipment_id", id, "error", err)
			}
			continue
		}
		items = append(items, e)
	}
	return items
}

func (r *Equipment) Delete(ctx context.Context, id string) error {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := r.store.Delete(ctx, equipmentKey(id)); err != nil {
		return err
	}
	return r.store.IndexRemove(ctx, userEquipmentKey(e.UserID), id)
}
