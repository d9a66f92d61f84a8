package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/rules"
	"github.com/fitlog-app/fitlog/internal/store"
)

func newTestTracker(t *testing.T) (*Tracker, *repository.Set) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := repository.New(store.NewFromClient(rdb, logger), nil, logger)
	return New(rules.MustLoad(), repos, nil, logger), repos
}

func TestExerciseValueRepBased(t *testing.T) {
	tr, _ := newTestTracker(t)

	got := tr.ExerciseValue(models.Exercise{Name: "подтягивания", Reps: 5, Sets: 3}, "")
	if got != 15 {
		t.Errorf("expected 15, got %v", got)
	}

	// Zero sets counts as one set.
	got = tr.ExerciseValue(models.Exercise{Name: "приседания", Reps: 10}, "")
	if got != 10 {
		t.Errorf("expected 10, got %v", got)
	}
}

func TestExerciseValueCardio(t *testing.T) {
	tr, _ := newTestTracker(t)

	// Reps already carry kilometers.
	got := tr.ExerciseValue(models.Exercise{Name: "пробежка", Reps: 7, Sets: 1}, "")
	if got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
}

func TestExerciseValueCardioFallback(t *testing.T) {
	tr, _ := newTestTracker(t)

	// reps==1 means the parser could not quantify the entry; the distance
	// comes from the original message instead.
	got := tr.ExerciseValue(models.Exercise{Name: "пробежка", Reps: 1, Sets: 1}, "пробежал 5.5 км")
	if got != 5.5 {
		t.Errorf("expected 5.5, got %v", got)
	}

	// Without a parsable distance the literal reps value stands.
	got = tr.ExerciseValue(models.Exercise{Name: "пробежка", Reps: 1, Sets: 1}, "немного побегал")
	if got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestApplyWorkoutProgress(t *testing.T) {
	tr, repos := newTestTracker(t)
	ctx := context.Background()

	goal, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "Подтянуться 20 раз", TargetValue: 20, CurrentValue: 5})
	if err != nil {
		t.Fatal(err)
	}

	msgs := tr.ApplyWorkout(ctx, "u1", "", []models.Exercise{{Name: "подтягивания", Reps: 5, Sets: 2}})
	if len(msgs) != 1 {
		t.Fatalf("expected 1 progress message, got %v", msgs)
	}

	updated, err := repos.Goals.GetByID(ctx, goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.CurrentValue != 15 {
		t.Errorf("expected current 15, got %v", updated.CurrentValue)
	}
	if updated.IsCompleted {
		t.Error("goal must not be completed yet")
	}
	if !strings.Contains(msgs[0], "75%") {
		t.Errorf("progress message should carry the percentage, got %q", msgs[0])
	}
}

func TestApplyWorkoutCompletion(t *testing.T) {
	tr, repos := newTestTracker(t)
	ctx := context.Background()

	goal, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "Подтянуться 20 раз", TargetValue: 20, CurrentValue: 15})
	if err != nil {
		t.Fatal(err)
	}

	msgs := tr.ApplyWorkout(ctx, "u1", "", []models.Exercise{{Name: "подтягивания", Reps: 5, Sets: 1}})
	if len(msgs) != 1 {
		t.Fatalf("expected 1 completion message, got %v", msgs)
	}

	// The goal is deleted after completion.
	if _, err := repos.Goals.GetByID(ctx, goal.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Error("completed goal should be deleted")
	}
	if goals := repos.Goals.ListByUser(ctx, "u1"); len(goals) != 0 {
		t.Errorf("completed goal still listed: %v", goals)
	}

	achievements := repos.Achievements.ListByUser(ctx, "u1")
	if len(achievements) != 1 {
		t.Fatalf("expected exactly one achievement, got %d", len(achievements))
	}
	if achievements[0].Title != "Выполнена цель: Подтянуться 20 раз" {
		t.Errorf("unexpected achievement title %q", achievements[0].Title)
	}
	if achievements[0].Icon != "💪" {
		t.Errorf("unexpected achievement icon %q", achievements[0].Icon)
	}
}

func TestApplyWorkoutOvershootClamped(t *testing.T) {
	tr, repos := newTestTracker(t)
	ctx := context.Background()

	if _, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "Присесть 100 раз", TargetValue: 100, CurrentValue: 90}); err != nil {
		t.Fatal(err)
	}

	tr.ApplyWorkout(ctx, "u1", "", []models.Exercise{{Name: "приседания", Reps: 50, Sets: 1}})

	// Overshoot completes the goal; progress was clamped to the target.
	achievements := repos.Achievements.ListByUser(ctx, "u1")
	if len(achievements) != 1 {
		t.Fatalf("expected one achievement, got %d", len(achievements))
	}
}

func TestApplyWorkoutMultipleGoalsMatch(t *testing.T) {
	tr, repos := newTestTracker(t)
	ctx := context.Background()

	a, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "Пробежать 30 км", TargetValue: 30})
	if err != nil {
		t.Fatal(err)
	}
	b, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "Пробежать 100 км за месяц", TargetValue: 100})
	if err != nil {
		t.Fatal(err)
	}

	tr.ApplyWorkout(ctx, "u1", "", []models.Exercise{{Name: "пробежка", Reps: 5, Sets: 1}})

	for _, id := range []string{a.ID, b.ID} {
		g, err := repos.Goals.GetByID(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if g.CurrentValue != 5 {
			t.Errorf("goal %q expected 5, got %v", g.Title, g.CurrentValue)
		}
	}
}

func TestApplyWorkoutNoMatchSkipped(t *testing.T) {
	tr, repos := newTestTracker(t)
	ctx := context.Background()

	goal, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "Подтянуться 20 раз", TargetValue: 20})
	if err != nil {
		t.Fatal(err)
	}

	msgs := tr.ApplyWorkout(ctx, "u1", "", []models.Exercise{{Name: "жим лёжа", Reps: 8, Sets: 3}})
	if len(msgs) != 0 {
		t.Errorf("expected no messages, got %v", msgs)
	}

	g, err := repos.Goals.GetByID(ctx, goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if g.CurrentValue != 0 {
		t.Errorf("unmatched goal must stay at 0, got %v", g.CurrentValue)
	}
}

func TestUpdateFrequencyGoals(t *testing.T) {
	tr, repos := newTestTracker(t)
	ctx := context.Background()

	goal, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "Тренироваться 3 раза в неделю", TargetValue: 3})
	if err != nil {
		t.Fatal(err)
	}

	// Two workouts on the same day count as one trained day.
	if _, err := repos.Workouts.Create(ctx, "u1", "d1", "m1", []models.Exercise{{Name: "приседания", Reps: 10, Sets: 1}}); err != nil {
		t.Fatal(err)
	}
	if _, err := repos.Workouts.Create(ctx, "u1", "d1", "m2", []models.Exercise{{Name: "отжимания", Reps: 10, Sets: 1}}); err != nil {
		t.Fatal(err)
	}

	msgs := tr.UpdateFrequencyGoals(ctx, "u1")
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %v", msgs)
	}

	g, err := repos.Goals.GetByID(ctx, goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if g.CurrentValue != 1 {
		t.Errorf("expected 1 trained day, got %v", g.CurrentValue)
	}
	if g.CurrentValue > g.TargetValue {
		t.Error("frequency value must never exceed the target")
	}

	// Unchanged value produces no further update or message.
	if msgs := tr.UpdateFrequencyGoals(ctx, "u1"); len(msgs) != 0 {
		t.Errorf("expected no messages on unchanged value, got %v", msgs)
	}
}

func TestFrequencyGoalCompletion(t *testing.T) {
	tr, repos := newTestTracker(t)
	ctx := context.Background()

	if _, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "Тренироваться 1 раз в неделю", TargetValue: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := repos.Workouts.Create(ctx, "u1", "d1", "m1", []models.Exercise{{Name: "приседания", Reps: 10, Sets: 1}}); err != nil {
		t.Fatal(err)
	}

	tr.UpdateFrequencyGoals(ctx, "u1")

	if goals := repos.Goals.ListByUser(ctx, "u1"); len(goals) != 0 {
		t.Errorf("completed frequency goal should be deleted, still have %v", goals)
	}
	if achievements := repos.Achievements.ListByUser(ctx, "u1"); len(achievements) != 1 {
		t.Errorf("expected one achievement, got %d", len(achievements))
	}
}
