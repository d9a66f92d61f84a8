package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/store"
)

// Users persists user accounts.
type Users struct {
	store  *store.Client
	logger *slog.Logger
}

// Create registers a new user. The email lookup key is claimed first with
// SETNX so concurrent registrations of the same address cannot both succeed.
func (r *Users) Create(ctx context.Context, name, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	user := &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	claimed, err := r.store.SetStringNX(ctx, userEmailKey(email), user.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrEmailTaken
	}

	if err := r.store.SetJSON(ctx, userKey(user.ID), user, 0); err != nil {
		return nil, err
	}
	if err := r.store.IndexAdd(ctx, usersIndex, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID loads a user record.
func (r *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.store.GetJSON(ctx, userKey(id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail resolves an email (case-insensitively) to its user.
func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := r.store.GetString(ctx, userEmailKey(email))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// List returns every user. Unreadable records are skipped and logged.
func (r *Users) List(ctx context.Context) []models.User {
	ids := r.store.IndexMembers(ctx, usersIndex)
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		var user models.User
		if err := r.store.GetJSON(ctx, userKey(id), &user); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				r.logger.Error("skipping unreadable user", "user_id", id, "error", err)
			}
			continue
		}
		users = append(users, user)
	}
	return users
}

// UpdateName changes the display name.
func (r *Users) UpdateName(ctx context.Context, id, name string) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user.Name = name
	user.UpdatedAt = &now
	if err := r.store.SetJSON(ctx, userKey(id), user, 0); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user record and its email lookup key. Only the bulk
// user-data deletion task calls this; the API never deletes users.
func (r *Users) Delete(ctx context.Context, id string) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := r.store.Delete(ctx, userKey(id), userEmailKey(user.Email)); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return r.store.IndexRemove(ctx, usersIndex, id)
}
