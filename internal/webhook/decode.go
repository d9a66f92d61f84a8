package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fitlog-app/fitlog/internal/models"
)

// envelope covers every response shape the agent is known to produce. The
// variant is discriminated by which field is present.
type envelope struct {
	Output          *output         `json:"output"`
	TextTranscribed string          `json:"text_transcribed"`
	PhotoText       string          `json:"photo_text"`
	Message         string          `json:"message"`
	WorkoutLogged   bool            `json:"workout_logged"`
	ParsedExercises json.RawMessage `json:"parsed_exercises"`
	Suggestions     json.RawMessage `json:"suggestions"`
	NextWorkout     string          `json:"next_workout_recommendation"`
}

type output struct {
	Message         string          `json:"message"`
	WorkoutLogged   bool            `json:"workout_logged"`
	ParsedExercises json.RawMessage `json:"parsed_exercises"`
	Suggestions     json.RawMessage `json:"suggestions"`
	NextWorkout     string          `json:"next_workout_recommendation"`
}

// Decode folds the agent's response shape variants into one AgentReply.
// The top level may be a single object or an array whose first element
// carries the reply.
func Decode(raw []byte) (*AgentReply, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty agent response")
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("malformed agent response array: %w", err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("empty agent response array")
		}
		raw = items[0]
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed agent response: %w", err)
	}

	switch {
	case env.Output != nil:
		return &AgentReply{
			Message:                   env.Output.Message,
			WorkoutLogged:             env.Output.WorkoutLogged,
			ParsedExercises:           decodeExercises(env.Output.ParsedExercises),
			Suggestions:               decodeSuggestions(env.Output.Suggestions),
			NextWorkoutRecommendation: env.Output.NextWorkout,
		}, nil
	case env.TextTranscribed != "":
		return &AgentReply{Transcript: env.TextTranscribed}, nil
	case env.PhotoText != "":
		return &AgentReply{Transcript: env.PhotoText}, nil
	case env.Message != "":
		// Bare object without the output wrapper.
		return &AgentReply{
			Message:                   env.Message,
			WorkoutLogged:             env.WorkoutLogged,
			ParsedExercises:           decodeExercises(env.ParsedExercises),
			Suggestions:               decodeSuggestions(env.Suggestions),
			NextWorkoutRecommendation: env.NextWorkout,
		}, nil
	}
	return nil, fmt.Errorf("agent response has no recognized fields")
}

// decodeExercises tolerates a missing or malformed exercise list; the reply
// then simply carries no loggable workout.
func decodeExercises(raw json.RawMessage) []models.Exercise {
	if len(raw) == 0 {
		return nil
	}
	var exercises []models.Exercise
	if err := json.Unmarshal(raw, &exercises); err != nil {
		return nil
	}
	return exercises
}

// decodeSuggestions accepts either a plain string or an array of strings.
func decodeSuggestions(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "\n")
	}
	return ""
}
