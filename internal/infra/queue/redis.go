package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"diy-workbench/internal/domain"
)

// RedisFetchQueue реализует очередь задач на базе Redis lists.
type RedisFetchQueue struct {
	client *redis.Client
	key    string
}

// NewRedisFetchQueue создаёт очередь по указанному ключу.
func NewRedisFetchQueue(client *redis.Client, key string) *RedisFetchQueue {
	return &RedisFetchQueue{client: client, key: key}
}

// Enqueue публикует задачу в очередь.
func (q *RedisFetchQueue) Enqueue(ctx context.Context, job domain.FetchJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Pop блокирующе читает задачу из очереди.
func (q *RedisFetchQueue) Pop(ctx context.Context) (domain.FetchJob, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.FetchJob{}, err
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return domain.FetchJob{}, ctx.Err()
				}
				continue
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.FetchJob{}, err
		}
		if len(res) != 2 {
			return domain.FetchJob{}, errors.New("redis queue: unexpected response")
		}
		var job domain.FetchJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return domain.FetchJob{}, fmt.Errorf("decode job: %w", err)
		}
		return job, nil
	}
}

// RedisResultSink публикует готовые результаты выборки в Redis list,
// откуда их забирает внешний куратор.
type RedisResultSink struct {
	client *redis.Client
	key    string
}

// NewRedisResultSink создаёт sink по указанному ключу.
func NewRedisResultSink(client *redis.Client, key string) *RedisResultSink {
	return &RedisResultSink{client: client, key: key}
}

// Publish сериализует результат и кладёт его в список.
func (s *RedisResultSink) Publish(ctx context.Context, result domain.FetchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.client.LPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("push result: %w", err)
	}
	return nil
}
