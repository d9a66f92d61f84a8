package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fitlog-app/fitlog/internal/crypto"
	"github.com/fitlog-app/fitlog/internal/models"
	"github.com/fitlog-app/fitlog/internal/store"
)

func newTestSet(t *testing.T) *Set {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store.NewFromClient(rdb, logger), nil, logger)
}

func TestUserEmailUniqueness(t *testing.T) {
	repos := newTestSet(t)
	ctx := context.Background()

	if _, err := repos.Users.Create(ctx, "Ivan", "ivan@example.com"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := repos.Users.Create(ctx, "Other", "IVAN@example.com")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken for case-insensitive duplicate, got %v", err)
	}
}

func TestUserGetByEmailCaseInsensitive(t *testing.T) {
	repos := newTestSet(t)
	ctx := context.Background()

	created, err := repos.Users.Create(ctx, "Ivan", "Ivan@Example.com")
	if err != nil {
		t.Fatal(err)
	}
	got, err := repos.Users.GetByEmail(ctx, "ivan@example.COM")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected user %s, got %s", created.ID, got.ID)
	}
}

func TestDayGetOrCreateIdempotent(t *testing.T) {
	repos := newTestSet(t)
	ctx := context.Background()

	user, err := repos.Users.Create(ctx, "Ivan", "ivan@example.com")
	if err != nil {
		t.Fatal(err)
	}

	first, err := repos.Days.GetOrCreate(ctx, user.ID, "2026-08-29")
	if err != nil {
		t.Fatalf("first GetOrCreate failed: %v", err)
	}
	second, err := repos.Days.GetOrCreate(ctx, user.ID, "2026-08-29")
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same day id, got %s and %s", first.ID, second.ID)
	}

	other, err := repos.Days.GetOrCreate(ctx, user.ID, "2026-08-30")
	if err != nil {
		t.Fatal(err)
	}
	if other.ID == first.ID {
		t.Error("different dates must produce different days")
	}
}

func TestDeleteDayCascade(t *testing.T) {
	repos := newTestSet(t)
	ctx := context.Background()

	user, err := repos.Users.Create(ctx, "Ivan", "ivan@example.com")
	if err != nil {
		t.Fatal(err)
	}
	day, err := repos.Days.GetOrCreate(ctx, user.ID, "2026-08-29")
	if err != nil {
		t.Fatal(err)
	}

	msg, err := repos.Messages.Append(ctx, user.ID, day.ID, "сделал 10 приседаний", true)
	if err != nil {
		t.Fatal(err)
	}
	workout, err := repos.Workouts.Create(ctx, user.ID, day.ID, msg.ID, []models.Exercise{{Name: "приседания", Sets: 1, Reps: 10}})
	if err != nil {
		t.Fatal(err)
	}
	goal, err := repos.Goals.Create(ctx, models.Goal{UserID: user.ID, Title: "Присесть 100 раз", TargetValue: 100})
	if err != nil {
		t.Fatal(err)
	}
	achievement, err := repos.Achievements.Create(ctx, user.ID, "Выполнена цель: тест", "", "🏆")
	if err != nil {
		t.Fatal(err)
	}

	if err := repos.DeleteDay(ctx, day.ID); err != nil {
		t.Fatalf("DeleteDay failed: %v", err)
	}

	if _, err := repos.Days.GetByID(ctx, day.ID); !errors.Is(err, ErrNotFound) {
		t.Error("day should be gone")
	}
	if _, err := repos.Workouts.GetByID(ctx, workout.ID); !errors.Is(err, ErrNotFound) {
		t.Error("workout should be gone")
	}
	if _, err := repos.Messages.GetByID(ctx, msg.ID); !errors.Is(err, ErrNotFound) {
		t.Error("message should be gone")
	}

	// Goals and achievements are not part of the cascade.
	if _, err := repos.Goals.GetByID(ctx, goal.ID); err != nil {
		t.Errorf("goal should survive day deletion: %v", err)
	}
	if _, err := repos.Achievements.GetByID(ctx, achievement.ID); err != nil {
		t.Errorf("achievement should survive day deletion: %v", err)
	}
}

func TestGoalCreateClampsInitialValue(t *testing.T) {
	repos := newTestSet(t)
	ctx := context.Background()

	goal, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "t", TargetValue: 10, CurrentValue: 25})
	if err != nil {
		t.Fatal(err)
	}
	if goal.CurrentValue != 10 {
		t.Errorf("expected initial value clamped to 10, got %v", goal.CurrentValue)
	}
}

func TestGoalMutate(t *testing.T) {
	repos := newTestSet(t)
	ctx := context.Background()

	goal, err := repos.Goals.Create(ctx, models.Goal{UserID: "u1", Title: "t", TargetValue: 20, CurrentValue: 5})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := repos.Goals.Mutate(ctx, goal.ID, func(g *models.Goal) error {
		g.CurrentValue += 7
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if updated.CurrentValue != 12 {
		t.Errorf("expected 12, got %v", updated.CurrentValue)
	}

	reloaded, err := repos.Goals.GetByID(ctx, goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.CurrentValue != 12 {
		t.Errorf("mutation not persisted, got %v", reloaded.CurrentValue)
	}
}

func TestChatSettingsSecretEncryptedAtRest(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewFromClient(rdb, logger)

	key := base64.StdEncoding.EncodeToString(make([]byte, 32))
	box, err := crypto.NewSecretBox(key)
	if err != nil {
		t.Fatal(err)
	}
	repos := New(s, box, logger)
	ctx := context.Background()

	settings := models.ChatSettings{UserID: "u1", WebhookURL: "https://agent.example.com", WebhookSecret: "s3cret", Language: "ru"}
	if err := repos.ChatSettings.Put(ctx, settings); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Raw record must not contain the plaintext secret.
	raw, err := rdb.Get(ctx, "chatsettings:u1").Result()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(raw, "s3cret") {
		t.Error("webhook secret stored in plaintext")
	}

	got, err := repos.ChatSettings.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.WebhookSecret != "s3cret" {
		t.Errorf("expected decrypted secret, got %q", got.WebhookSecret)
	}
}
