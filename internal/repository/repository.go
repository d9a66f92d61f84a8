// Package repository implements per-entity persistence over the Redis store.
// Each entity lives under its own record key with set/zset indexes for
// listing, so single-record updates are atomic and never rewrite unrelated
// records.
package repository

import (
	"errors"
	"log/slog"

	"github.com/fitlog-app/fitlog/internal/crypto"
	"github.com/fitlog-app/fitlog/internal/store"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = store.ErrNotFound

// ErrEmailTaken is returned when registering an email that already has an
// account, compared case-insensitively.
var ErrEmailTaken = errors.New("repository: email already registered")

// Set bundles all entity repositories for wiring.
type Set struct {
	Users        *Users
	Days         *Days
	Messages     *Messages
	Workouts     *Workouts
	Goals        *Goals
	Achievements *Achievements
	Equipment    *Equipment
	MuscleGroups *MuscleGroups
	ChatSettings *ChatSettings
}

// New builds all repositories over one store client. box may be nil when no
// encryption key is configured; chat-settings secrets are then stored as-is.
func New(s *store.Client, box *crypto.SecretBox, logger *slog.Logger) *Set {
	return &Set{
		Users:        &Users{store: s, logger: logger},
		Days:         &Days{store: s, logger: logger},
		Messages:     &Messages{store: s, logger: logger},
		Workouts:     &Workouts{store: s, logger: logger},
		Goals:        &Goals{store: s, logger: logger},
		Achievements: &Achievements{store: s, logger: logger},
		Equipment:    &Equipment{store: s, logger: logger},
		MuscleGroups: &MuscleGroups{store: s, logger: logger},
		ChatSettings: &ChatSettings{store: s, box: box, logger: logger},
	}
}
