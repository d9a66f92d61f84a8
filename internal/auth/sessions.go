// Package auth implements token sessions stored in Redis. A session lives
// under a key derived from its token and expires both by store TTL and by
// an expiry timestamp checked on read.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
)

// CookieName is the session cookie.
const CookieName = "auth_token"

// Session is the server-side session record.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager creates, resolves, and revokes sessions.
type Manager struct {
	store  *store.Client
	users  *repository.Users
	ttl    time.Duration
	logger *slog.Logger
}

// NewManager creates a session manager with the given session lifetime.
func NewManager(s *store.Client, users *repository.Users, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Manager{store: s, users: users, ttl: ttl, logger: logger}
}

// TTL returns the session lifetime, also used for the cookie max-age.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func sessionKey(token string) string {
	digest := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(digest[:])
}

// Create issues a new session token for the user. Fails if the user id does
// not exist.
func (m *Manager) Create(ctx context.Context, userID string) (string, *Session, error) {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, fmt.Errorf("cannot create session: user %s does not exist", userID)
		}
		return "", nil, err
	}

	token := uuid.New().String()
	session := &Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		ExpiresAt: time.Now().UTC().Add(m.ttl),
	}
	if err := m.store.SetJSON(ctx, sessionKey(token), session, m.ttl); err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// Get resolves a token to its session. Missing and expired tokens yield
// (nil, nil), never an error; an expired record found before the store TTL
// fired is deleted eagerly.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	var session Session
	err := m.store.GetJSON(ctx, sessionKey(token), &session)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		m.logger.Error("session read failed", "error", err)
		return nil, nil
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		if err := m.store.Delete(ctx, sessionKey(token)); err != nil {
			m.logger.Error("failed to delete expired session", "error", err)
		}
		return nil, nil
	}
	return &session, nil
}

// Delete revokes a session token.
func (m *Manager) Delete(ctx context.Context, token string) error {
	return m.store.Delete(ctx, sessionKey(token))
}

// DeleteByUser revokes every session of one user. Sessions are keyed by
// token digest, so this has to scan the session keyspace.
func (m *Manager) DeleteByUser(ctx context.Context, userID string) error {
	keys, err := m.store.ScanKeys(ctx, "session:*")
	if err != nil {
		return err
	}
	for _, key := range keys {
		var session Session
		if err := m.store.GetJSON(ctx, key, &session); err != nil {
			continue
		}
		if session.UserID != userID {
			continue
		}
		if err := m.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
