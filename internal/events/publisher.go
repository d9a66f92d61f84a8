// Package events publishes domain events to Redis Streams and consumes them
// to maintain derived indexes, keeping the request path free of dashboard
// bookkeeping.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher publishes domain events to Redis Streams.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a new Publisher instance.
func NewPublisher(redisURL string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &Publisher{rdb: redis.NewClient(opts)}, nil
}

// NewPublisherFromClient wraps an existing Redis client. Used by tests.
func NewPublisherFromClient(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// PublishWorkoutLogged publishes a workout-logged event.
func (p *Publisher) PublishWorkoutLogged(ctx context.Context, ev WorkoutLogged) (string, error) {
	return p.publish(ctx, StreamWorkouts, ev)
}

// PublishGoalCompleted publishes a goal-completed event.
func (p *Publisher) PublishGoalCompleted(ctx context.Context, ev GoalCompleted) (string, error) {
	return p.publish(ctx, StreamGoals, ev)
}

func (p *Publisher) publish(ctx context.Context, stream string, ev any) (string, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event: %w", err)
	}

	result := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: 10000,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"payload":        string(payload),
			"published_at":   time.Now().Unix(),
			"schema_version": SchemaVersionV1,
		},
	})
	if result.Err() != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", stream, result.Err())
	}
	return result.Val(), nil
}

// Close closes the Redis client connection.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
