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

// Messages persists chat messages. Messages are append-only and indexed per
// day in a sorted set scored by their timestamp.
type Messages struct {
	store  *store.Client
	logger *slog.Logger
}

// Append stores a new chat message for the given day.
func (r *Messages) Append(ctx context.Context, userID, dayID, text string, isUser bool) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		DayID:     dayID,
		Message:   text,
		IsUser:    isUser,
		Timestamp: time.Now().UTC(),
	}
	if err := r.store.SetJSON(ctx, messageKey(msg.ID), msg, 0); err != nil {
		return nil, err
	}
	if err := r.store.SortedAdd(ctx, dayMessagesKey(dayID), msg.ID, float64(msg.Timestamp.UnixNano())); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetByID loads a single message.
func (r *Messages) GetByID(ctx context.Context, id string) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := r.store.GetJSON(ctx, messageKey(id), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByDay returns the day's messages in timestamp order.
func (r *Messages) ListByDay(ctx context.Context, dayID string) []models.ChatMessage {
	ids := r.store.SortedRange(ctx, dayMessagesKey(dayID))
	msgs := make([]models.ChatMessage, 0, len(ids))
	for _, id := range ids {
		var msg models.ChatMessage
		if err := r.store.GetJSON(ctx, messageKey(id), &msg); err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				r.logger.Error("skipping unreadable message", "message_id", id, "error", err)
			}
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

// DeleteByDay removes every message of a day together with the day's
// message index. Called by the day-deletion cascade.
func (r *Messages) DeleteByDay(ctx context.Context, dayID string) error {
	ids := r.store.SortedRange(ctx, dayMessagesKey(dayID))
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, messageKey(id))
	}
	keys = append(keys, dayMessagesKey(dayID))
	return r.store.Delete(ctx, keys...)
}
