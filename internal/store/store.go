// Package store wraps Redis with JSON record and index-set helpers. Every
// entity is a JSON value under its own key; membership indexes are sets and
// sorted sets maintained next to the records.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a record key does not exist.
var ErrNotFound = errors.New("store: record not found")

// maxTxRetries bounds the optimistic retry loop in Update.
const maxTxRetries = 10

// Client is a thin typed layer over a Redis connection.
type Client struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// New connects to Redis using a redis:// URL.
func New(redisURL string, logger *slog.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &Client{rdb: redis.NewClient(opts), logger: logger}, nil
}

// NewFromClient wraps an existing Redis client. Used by tests.
func NewFromClient(rdb *redis.Client, logger *slog.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetJSON loads the record at key into dst. Returns ErrNotFound for a
// missing key.
func (c *Client) GetJSON(ctx context.Context, key string, dst any) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// SetJSON serializes v and overwrites the value at key. A zero ttl stores
// the record without expiry.
func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// SetJSONNX stores v at key only if the key does not exist yet. Reports
// whether the write happened.
func (c *Client) SetJSONNX(ctx context.Context, key string, v any) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", key, err)
	}
	ok, err := c.rdb.SetNX(ctx, key, raw, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to write %s: %w", key, err)
	}
	return ok, nil
}

// Update applies fn to the record at key inside an optimistic WATCH
// transaction and retries on conflict. fn receives the current raw value and
// returns the replacement.
func (c *Client) Update(ctx context.Context, key string, fn func(raw []byte) ([]byte, error)) error {
	for i := 0; i < maxTxRetries; i++ {
		err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			if err != nil {
				return err
			}

			next, err := fn(raw)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, next, redis.KeepTTL)
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update of %s aborted after %d conflicts", key, maxTxRetries)
}

// Delete removes the given keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Expire sets a TTL on key.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.rdb.Expire(ctx, key, ttl).Err()
}

// MGetRaw fetches several record keys at once. Missing keys yield nil
// entries; callers skip them.
func (c *Client) MGetRaw(ctx context.Context, keys ...string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %d records: %w", len(keys), err)
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[i] = []byte(s)
		}
	}
	return out, nil
}

// IndexAdd adds members to an index set.
func (c *Client) IndexAdd(ctx context.Context, key string, members ...string) error {
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return c.rdb.SAdd(ctx, key, args...).Err()
}

// IndexRemove removes members from an index set.
func (c *Client) IndexRemove(ctx context.Context, key string, members ...string) error {
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return c.rdb.SRem(ctx, key, args...).Err()
}

// IndexMembers lists an index set. Read errors are logged and masked behind
// an empty result, matching the store's read contract.
func (c *Client) IndexMembers(ctx context.Context, key string) []string {
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		c.logger.Error("index read failed", "key", key, "error", err)
		return nil
	}
	return members
}

// SortedAdd inserts a member into a sorted index with the given score.
func (c *Client) SortedAdd(ctx context.Context, key, member string, score float64) error {
	return c.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// SortedRemove removes members from a sorted index.
func (c *Client) SortedRemove(ctx context.Context, key string, members ...string) error {
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return c.rdb.ZRem(ctx, key, args...).Err()
}

// SortedRange lists a sorted index in ascending score order. Read errors are
// logged and masked behind an empty result.
func (c *Client) SortedRange(ctx context.Context, key string) []string {
	members, err := c.rdb.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		c.logger.Error("sorted index read failed", "key", key, "error", err)
		return nil
	}
	return members
}

// IncrCounter increments an integer counter key.
func (c *Client) IncrCounter(ctx context.Context, key string) error {
	return c.rdb.Incr(ctx, key).Err()
}

// GetString reads a plain string value, e.g. a lookup key pointing at a
// record id. Returns ErrNotFound for a missing key.
func (c *Client) GetString(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

// SetStringNX stores a plain string value only if absent.
func (c *Client) SetStringNX(ctx context.Context, key, value string) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to write %s: %w", key, err)
	}
	return ok, nil
}

// ScanKeys walks the keyspace collecting keys that match pattern. Used by
// the bulk user-data deletion task.
func (c *Client) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", pattern, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
