package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Handlers receives decoded domain events.
type Handlers struct {
	WorkoutLogged func(context.Context, WorkoutLogged) error
	GoalCompleted func(context.Context, GoalCompleted) error
}

// Consumer consumes domain events from Redis Streams with a consumer group.
type Consumer struct {
	rdb          *redis.Client
	groupName    string
	consumerName string
	logger       *slog.Logger
}

// NewConsumer creates a Consumer and ensures the consumer group exists on
// both event streams.
func NewConsumer(redisURL, consumerName string, logger *slog.Logger) (*Consumer, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	// Read timeout must exceed the XReadGroup Block duration (5s)
	// to avoid spurious i/o timeout errors on idle streams.
	opts.ReadTimeout = 10 * time.Second

	client := redis.NewClient(opts)
	c := &Consumer{rdb: client, groupName: GroupConsumers, consumerName: consumerName, logger: logger}

	for _, stream := range []string{StreamWorkouts, StreamGoals} {
		err := client.XGroupCreateMkStream(context.Background(), stream, GroupConsumers, "0").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			return nil, fmt.Errorf("failed to create consumer group on %s: %w", stream, err)
		}
		// Ignore BUSYGROUP - the group already exists.
	}
	return c, nil
}

// Consume runs a blocking loop reading both event streams and dispatching
// to the handlers. Failed messages stay in the pending list for retry.
func (c *Consumer) Consume(ctx context.Context, h Handlers) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupName,
			Consumer: c.consumerName,
			Streams:  []string{StreamWorkouts, StreamGoals, ">", ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			// Blocking reads return a timeout when no messages arrive
			// within the Block duration. That is normal, not an error.
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to read event streams", "error", err)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				if err := c.dispatch(ctx, stream.Stream, message, h); err != nil {
					c.logger.Error("event handler failed",
						"stream", stream.Stream, "message_id", message.ID, "error", err)
					// No ACK: the message stays pending for retry.
					continue
				}
				if err := c.rdb.XAck(ctx, stream.Stream, c.groupName, message.ID).Err(); err != nil {
					c.logger.Error("failed to ACK event",
						"stream", stream.Stream, "message_id", message.ID, "error", err)
				}
			}
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, stream string, message redis.XMessage, h Handlers) error {
	payload, ok := message.Values["payload"].(string)
	if !ok {
		// Malformed message: ACK it away rather than retrying forever.
		c.logger.Error("event without payload", "stream", stream, "message_id", message.ID)
		return nil
	}

	switch stream {
	case StreamWorkouts:
		var ev WorkoutLogged
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			c.logger.Error("undecodable workout event", "message_id", message.ID, "error", err)
			return nil
		}
		if h.WorkoutLogged == nil {
			return nil
		}
		return h.WorkoutLogged(ctx, ev)
	case StreamGoals:
		var ev GoalCompleted
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			c.logger.Error("undecodable goal event", "message_id", message.ID, "error", err)
			return nil
		}
		if h.GoalCompleted == nil {
			return nil
		}
		return h.GoalCompleted(ctx, ev)
	}
	return nil
}

// Close closes the Redis client connection.
func (c *Consumer) Close() error {
	return c.rdb.Close()
}

// Start runs the consumer in a background goroutine and returns a stop
// function for shutdown coordination.
func Start(redisURL, consumerName string, h Handlers, logger *slog.Logger) (stop func(), err error) {
	consumer, err := NewConsumer(redisURL, consumerName, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Consume(ctx, h); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("event consumer stopped with error", "error", err)
		}
	}()

	logger.Info("event consumer started", "consumer", consumerName)
	return func() {
		cancel()
		consumer.Close()
	}, nil
}
