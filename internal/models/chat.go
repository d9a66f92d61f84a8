package models

import "time"

// ChatMessage is a single message in a day's conversation. Messages are
// append-only and ordered by timestamp within their day.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DayID     string    `json:"day_id"`
	Message   string    `json:"message"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSettings holds the per-user agent webhook configuration. The webhook
// secret is encrypted at rest by the repository.
type ChatSettings struct {
	UserID        string    `json:"user_id"`
	WebhookURL    string    `json:"webhook_url"`
	WebhookSecret string    `json:"webhook_secret,omitempty"`
	Language      string    `json:"language"`
	VoiceReplies  bool      `json:"voice_replies"`
	UpdatedAt     time.Time `json:"updated_at"`
}
