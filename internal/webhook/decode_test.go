package webhook

import "testing"

func TestDecodeArrayWithOutput(t *testing.T) {
	raw := []byte(`[{"output":{"message":"Записал тренировку!","workout_logged":true,"parsed_exercises":[{"name":"подтягивания","weight":0,"sets":1,"reps":5}],"suggestions":"Попробуйте добавить отжимания","next_workout_recommendation":"Завтра ноги"}}]`)

	reply, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reply.WorkoutLogged {
		t.Error("expected workout_logged")
	}
	if len(reply.ParsedExercises) != 1 || reply.ParsedExercises[0].Name != "подтягивания" {
		t.Errorf("unexpected exercises: %+v", reply.ParsedExercises)
	}
	if reply.ParsedExercises[0].Reps != 5 {
		t.Errorf("expected reps 5, got %v", reply.ParsedExercises[0].Reps)
	}
	if reply.Suggestions == "" || reply.NextWorkoutRecommendation == "" {
		t.Error("suggestions and recommendation must survive decoding")
	}
}

func TestDecodeBareObject(t *testing.T) {
	raw := []byte(`{"message":"Привет!","workout_logged":false}`)

	reply, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if reply.Message != "Привет!" || reply.WorkoutLogged {
		t.Errorf("unexpected reply: %+v", reply)
	}
}

func TestDecodeTranscriptionVariants(t *testing.T) {
	reply, err := Decode([]byte(`{"text_transcribed":"пробежал 5 км"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if reply.Transcript != "пробежал 5 км" {
		t.Errorf("unexpected transcript %q", reply.Transcript)
	}

	reply, err = Decode([]byte(`[{"photo_text":"жим лёжа 3х8"}]`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if reply.Transcript != "жим лёжа 3х8" {
		t.Errorf("unexpected transcript %q", reply.Transcript)
	}
}

func TestDecodeSuggestionsList(t *testing.T) {
	raw := []byte(`{"output":{"message":"ok","suggestions":["раз","два"]}}`)

	reply, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if reply.Suggestions != "раз\nдва" {
		t.Errorf("unexpected suggestions %q", reply.Suggestions)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "[]", "{}", "not json"} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Errorf("Decode(%q) should fail", raw)
		}
	}
}

func TestDecodeMalformedExercisesTolerated(t *testing.T) {
	raw := []byte(`{"output":{"message":"ok","workout_logged":true,"parsed_exercises":"oops"}}`)

	reply, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if reply.ParsedExercises != nil {
		t.Errorf("expected no exercises, got %+v", reply.ParsedExercises)
	}
}
