package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/fitlog-app/fitlog/internal/crypto"
	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/store"
)

// ChatSettings persists per-user agent webhook configuration. The webhook
// secret is encrypted at rest when an encryption key is configured.
type ChatSettings struct {
	store  *store.Client
	box    *crypto.SecretBox
	logger *slog.Logger
}

// Get loads the user's chat settings, decrypting the webhook secret.
func (r *ChatSettings) Get(ctx context.Context, userID string) (*models.ChatSettings, error) {
	var s models.ChatSettings
	if err := r.store.GetJSON(ctx, chatSettingsKey(userID), &s); err != nil {
		return nil, err
	}
	if r.box != nil && s.WebhookSecret != "" {
		secret, err := r.box.Decrypt(s.WebhookSecret)
		if err != nil {
			return nil, err
		}
		s.WebhookSecret = secret
	}
	return &s, nil
}

// Put overwrites the user's chat settings, encrypting the webhook secret.
func (r *ChatSettings) Put(ctx context.Context, s models.ChatSettings) error {
	s.UpdatedAt = time.Now().UTC()
	if r.box != nil && s.WebhookSecret != "" {
		secret, err := r.box.Encrypt(s.WebhookSecret)
		if err != nil {
			return err
		}
		s.WebhookSecret = secret
	}
	return r.store.SetJSON(ctx, chatSettingsKey(s.UserID), &s, 0)
}

// Delete removes the user's chat settings.
func (r *ChatSettings) Delete(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, chatSettingsKey(userID))
}
