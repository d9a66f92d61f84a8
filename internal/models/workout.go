package models

import "time"

// Exercise is a single parsed exercise entry embedded in a workout.
// For cardio entries Reps carries the distance in kilometers.
type Exercise struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Sets   int     `json:"sets"`
	Reps   float64 `json:"reps"`
}

// Workout is the structured record created when the agent classifies a chat
// message as containing a loggable workout.
type Workout struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	DayID         string     `json:"day_id"`
	ChatMessageID string     `json:"chat_message_id"`
	Exercises     []Exercise `json:"exercises"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
