package models

import "time"

// Equipment is a user-owned piece of training equipment.
type Equipment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MuscleGroup is a catalog entry shared by all users.
type MuscleGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NameRu    string    `json:"name_ru"`
	CreatedAt time.Time `json:"created_at"`
}
