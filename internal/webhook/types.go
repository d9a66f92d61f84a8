// Package webhook talks to the operator-configured NLP agent that turns
// free-text chat messages into structured workout data.
package webhook

import "github.com/fitlog-app/fitlog/internal/models"

// Request is the payload sent to the agent webhook.
type Request struct {
	Message   string `json:"message"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
}

// AgentReply is the canonical decoded agent response. The upstream service
// answers in several ad hoc shapes (array vs. object, output vs.
// text_transcribed vs. photo_text); Decode folds them all into this one
// type at the boundary.
type AgentReply struct {
	Message                   string            `json:"message"`
	WorkoutLogged             bool              `json:"workout_logged"`
	ParsedExercises           []models.Exercise `json:"parsed_exercises,omitempty"`
	Suggestions               string            `json:"suggestions,omitempty"`
	NextWorkoutRecommendation string            `json:"next_workout_recommendation,omitempty"`
	Transcript                string            `json:"transcript,omitempty"`
}

// FallbackReply is the reply synthesized when the agent is unreachable or
// answers with garbage, so the chat degrades instead of erroring.
func FallbackReply() *AgentReply {
	return &AgentReply{
		Message: "Извините, я сейчас не могу обработать ваше сообщение. Попробуйте ещё раз чуть позже.",
	}
}
