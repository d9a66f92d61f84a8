package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskClearUserData      = "userdata:clear"
	TaskRecomputeFrequency = "goals:recompute_frequency"
)

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}
	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueClearUserData enqueues a bulk deletion of everything a user owns.
// The scan-and-delete is slow on big accounts, so it runs off the request
// path.
func EnqueueClearUserData(userID string) error {
	payload, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(
		TaskClearUserData,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	_, err = client.Enqueue(task)
	return err
}
