package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

// RedisStore keeps batch progress in Redis under analysis:{id}:* keys
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr and verifies the connection
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStoreFromClient(client, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func key(id, field string) string {
	return fmt.Sprintf("analysis:%s:%s", id, field)
}

func (r *RedisStore) Start(ctx context.Context, id string, total int) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetEx(ctx, key(id, "total"), total, r.ttl)
		pipe.SetEx(ctx, key(id, "processed"), 0, r.ttl)
		pipe.SetEx(ctx, key(id, "failed"), 0, r.ttl)
		pipe.SetEx(ctx, key(id, "status"), models.StatusProcessing, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to start batch: %w", err)
	}
	return nil
}

func (r *RedisStore) Increment(ctx context.Context, id string, failed bool) error {
	n, err := r.client.Exists(ctx, key(id, "total")).Result()
	if err != nil {
		return fmt.Errorf("failed to read batch: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key(id, "processed"))
		if failed {
			pipe.Incr(ctx, key(id, "failed"))
		}
		// every write keeps the whole batch alive
		for _, field := range []string{"total", "processed", "failed", "status"} {
			pipe.Expire(ctx, key(id, field), r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to increment progress: %w", err)
	}
	return nil
}

func (r *RedisStore) Complete(ctx context.Context, report models.BatchReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetEx(ctx, key(report.ID, "report"), data, r.ttl)
		pipe.SetEx(ctx, key(report.ID, "status"), models.StatusCompleted, r.ttl)
		for _, field := range []string{"total", "processed", "failed"} {
			pipe.Expire(ctx, key(report.ID, field), r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to complete batch: %w", err)
	}
	return nil
}

func (r *RedisStore) Status(ctx context.Context, id string) (models.BatchStatus, error) {
	vals, err := r.client.MGet(ctx,
		key(id, "total"), key(id, "processed"), key(id, "failed"), key(id, "status"),
	).Result()
	if err != nil {
		return models.BatchStatus{}, fmt.Errorf("failed to read progress: %w", err)
	}
	if vals[0] == nil {
		return models.BatchStatus{}, ErrNotFound
	}

	total := toInt(vals[0])
	processed := toInt(vals[1])
	failed := toInt(vals[2])
	status, _ := vals[3].(string)
	return newStatus(id, total, processed, failed, status), nil
}

func (r *RedisStore) Report(ctx context.Context, id string) (models.BatchReport, error) {
	data, err := r.client.Get(ctx, key(id, "report")).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.BatchReport{}, ErrNotFound
	}
	if err != nil {
		return models.BatchReport{}, fmt.Errorf("failed to read report: %w", err)
	}

	var report models.BatchReport
	if err := json.Unmarshal(data, &report); err != nil {
		return models.BatchReport{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return report, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func toInt(v any) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
