package models

import "time"

// Day groups all activity of one user on one calendar date.
// Date is formatted YYYY-MM-DD and is unique per user; days are created
// lazily on the first chat interaction of that date.
type Day struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
