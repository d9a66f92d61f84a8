package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fitlog-app/fitlog/internal/repository"
	"github.com/fitlog-app/fitlog/internal/store"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *repository.Set, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := store.NewFromClient(rdb, logger)
	repos := repository.New(s, nil, logger)
	return NewManager(s, repos.Users, ttl, logger), repos, mr
}

func TestCreateSessionUnknownUser(t *testing.T) {
	m, _, _ := newTestManager(t, time.Hour)

	if _, _, err := m.Create(context.Background(), "no-such-user"); err == nil {
		t.Error("expected error for unknown user id")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	m, repos, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	user, err := repos.Users.Create(ctx, "Ivan", "ivan@example.com")
	if err != nil {
		t.Fatal(err)
	}

	token, session, err := m.Create(ctx, user.ID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.UserID != user.ID || session.Email != user.Email {
		t.Errorf("unexpected session %+v", session)
	}

	got, err := m.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.UserID != user.ID {
		t.Errorf("expected session for %s, got %+v", user.ID, got)
	}
}

func TestGetSessionMissing(t *testing.T) {
	m, _, _ := newTestManager(t, time.Hour)

	got, err := m.Get(context.Background(), "bogus-token")
	if err != nil {
		t.Fatalf("missing token must not error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil session, got %+v", got)
	}
}

func TestGetSessionExpired(t *testing.T) {
	// Miniredis only fires TTLs on FastForward, so a short real-clock
	// lifetime leaves the record in place and exercises the lazy-expiry
	// path on read.
	m, repos, _ := newTestManager(t, 50*time.Millisecond)
	ctx := context.Background()

	user, err := repos.Users.Create(ctx, "Ivan", "ivan@example.com")
	if err != nil {
		t.Fatal(err)
	}
	token, _, err := m.Create(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)

	got, err := m.Get(ctx, token)
	if err != nil {
		t.Fatalf("expired token must not error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for expired session, got %+v", got)
	}
}

func TestDeleteSession(t *testing.T) {
	m, repos, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	user, err := repos.Users.Create(ctx, "Ivan", "ivan@example.com")
	if err != nil {
		t.Fatal(err)
	}
	token, _, err := m.Create(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(ctx, token); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got, _ := m.Get(ctx, token); got != nil {
		t.Error("deleted session should be gone")
	}
}

func TestDeleteByUser(t *testing.T) {
	m, repos, _ := newTestManager(t, time.Hour)
	ctx := context.Background()

	a, err := repos.Users.Create(ctx, "A", "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	b, err := repos.Users.Create(ctx, "B", "b@example.com")
	if err != nil {
		t.Fatal(err)
	}

	tokenA, _, err := m.Create(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	tokenB, _, err := m.Create(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.DeleteByUser(ctx, a.ID); err != nil {
		t.Fatalf("DeleteByUser failed: %v", err)
	}
	if got, _ := m.Get(ctx, tokenA); got != nil {
		t.Error("user A sessions should be revoked")
	}
	if got, _ := m.Get(ctx, tokenB); got == nil {
		t.Error("user B sessions must survive")
	}
}
