package events

// Stream name constants
const (
	StreamWorkouts = "events:workouts"
	StreamGoals    = "events:goals"
)

// Consumer group constant
const GroupConsumers = "fitlog-consumers"

// Schema version constant
const SchemaVersionV1 = "v1"

// WorkoutLogged is published when the pipeline persists a workout parsed
// out of a chat message.
type WorkoutLogged struct {
	WorkoutID string `json:"workout_id"`
	UserID    string `json:"user_id"`
	DayID     string `json:"day_id"`
	Month     string `json:"month"` // YYYY-MM, bucket for admin listings
}

// GoalCompleted is published when goal progress reaches its target.
type GoalCompleted struct {
	GoalID string `json:"goal_id"`
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	Month  string `json:"month"`
}
