// Package queue is the Redis-list job transport between the API and the
// background worker. Retry and backoff policy live here, not in the worker.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue names. Payloads are JSON.
const (
	FileQueue = "fileQueue"
	UserQueue = "userQueue"
)

// ThumbnailJob asks the worker to derive resized variants of an uploaded
// image. Ids travel as hex strings.
type ThumbnailJob struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// WelcomeJob asks the worker to run the one-shot welcome action for a new
// user. Delivery is at-least-once; the action carries no idempotency key.
type WelcomeJob struct {
	UserID string `json:"userId"`
}

type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(ctx context.Context, addr string) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisQueue{client: client}, nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// Enqueue pushes payload onto the named queue. It returns once the
// transport has accepted the job; completion is never awaited.
func (q *RedisQueue) Enqueue(ctx context.Context, queue string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", queue, err)
	}
	return nil
}

// Dequeue blocks up to timeout for a job on any of the named queues.
// A timeout is not an error; it returns an empty queue name.
func (q *RedisQueue) Dequeue(ctx context.Context, queues []string, timeout time.Duration) (string, []byte, error) {
	res, err := q.client.BRPop(ctx, timeout, queues...).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("dequeue: %w", err)
	}
	// BRPOP answers [key, value].
	return res[0], []byte(res[1]), nil
}
