package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFromClient(rdb, logger)
}

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetSetJSON(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "rec:1", record{Name: "a", Count: 2}, 0); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var got record
	if err := c.GetJSON(ctx, "rec:1", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestGetJSONMissing(t *testing.T) {
	c := newTestClient(t)

	var got record
	err := c.GetJSON(context.Background(), "rec:missing", &got)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetJSONNX(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	ok, err := c.SetJSONNX(ctx, "rec:1", record{Name: "first"})
	if err != nil || !ok {
		t.Fatalf("first SetJSONNX: ok=%v err=%v", ok, err)
	}

	ok, err = c.SetJSONNX(ctx, "rec:1", record{Name: "second"})
	if err != nil {
		t.Fatalf("second SetJSONNX failed: %v", err)
	}
	if ok {
		t.Error("second SetJSONNX should not have written")
	}

	var got record
	if err := c.GetJSON(ctx, "rec:1", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.Name != "first" {
		t.Errorf("expected first write to win, got %q", got.Name)
	}
}

func TestUpdate(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "rec:1", record{Count: 1}, 0); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	err := c.Update(ctx, "rec:1", func(raw []byte) ([]byte, error) {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
		r.Count++
		return json.Marshal(r)
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var got record
	if err := c.GetJSON(ctx, "rec:1", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.Count != 2 {
		t.Errorf("expected count 2, got %d", got.Count)
	}
}

func TestUpdateMissing(t *testing.T) {
	c := newTestClient(t)

	err := c.Update(context.Background(), "rec:missing", func(raw []byte) ([]byte, error) {
		return raw, nil
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIndexes(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.IndexAdd(ctx, "idx", "a", "b"); err != nil {
		t.Fatalf("IndexAdd failed: %v", err)
	}
	if got := c.IndexMembers(ctx, "idx"); len(got) != 2 {
		t.Errorf("expected 2 members, got %v", got)
	}
	if err := c.IndexRemove(ctx, "idx", "a"); err != nil {
		t.Fatalf("IndexRemove failed: %v", err)
	}
	if got := c.IndexMembers(ctx, "idx"); len(got) != 1 || got[0] != "b" {
		t.Errorf("expected [b], got %v", got)
	}
}

func TestSortedRangeOrder(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.SortedAdd(ctx, "z", "late", 30); err != nil {
		t.Fatal(err)
	}
	if err := c.SortedAdd(ctx, "z", "early", 10); err != nil {
		t.Fatal(err)
	}
	if err := c.SortedAdd(ctx, "z", "mid", 20); err != nil {
		t.Fatal(err)
	}

	got := c.SortedRange(ctx, "z")
	want := []string{"early", "mid", "late"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestScanKeys(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for _, key := range []string{"session:1", "session:2", "user:1"} {
		if err := c.SetJSON(ctx, key, record{}, 0); err != nil {
			t.Fatal(err)
		}
	}

	keys, err := c.ScanKeys(ctx, "session:*")
	if err != nil {
		t.Fatalf("ScanKeys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 session keys, got %v", keys)
	}
}
