package models

import "time"

// Goal tracks progress toward a target value. While a goal is active
// 0 <= CurrentValue <= TargetValue holds; on completion the goal is deleted
// after an Achievement has been created for it.
type Goal struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	CurrentValue float64   `json:"current_value"`
	TargetValue  float64   `json:"target_value"`
	Unit         string    `json:"unit,omitempty"`
	Category     string    `json:"category,omitempty"`
	DueDate      string    `json:"due_date,omitempty"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Achievement is an immutable record of a completed goal. It keeps no
// back-reference to the goal it came from.
type Achievement struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}
