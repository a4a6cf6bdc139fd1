package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, time.Hour)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

// TestStores runs the same lifecycle against both implementations
func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore(time.Hour) },
		"redis": func(t *testing.T) Store {
			s, _ := newRedisStore(t)
			return s
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			require.NoError(t, store.Start(ctx, "batch-1", 4))

			status, err := store.Status(ctx, "batch-1")
			require.NoError(t, err)
			assert.Equal(t, models.BatchStatus{ID: "batch-1", Total: 4, Status: models.StatusProcessing}, status)

			require.NoError(t, store.Increment(ctx, "batch-1", false))
			require.NoError(t, store.Increment(ctx, "batch-1", true))

			status, err = store.Status(ctx, "batch-1")
			require.NoError(t, err)
			assert.Equal(t, 2, status.Processed)
			assert.Equal(t, 1, status.Failed)
			assert.InDelta(t, 50.0, status.Progress, 0.001)

			_, err = store.Report(ctx, "batch-1")
			assert.ErrorIs(t, err, ErrNotFound)

			report := models.BatchReport{
				ID:        "batch-1",
				Failures:  []models.BatchFailure{{FileName: "broken.pdf", Error: "unreadable"}},
				Timestamp: "2026-01-02T03:04:05Z",
			}
			require.NoError(t, store.Complete(ctx, report))

			status, err = store.Status(ctx, "batch-1")
			require.NoError(t, err)
			assert.Equal(t, models.StatusCompleted, status.Status)

			got, err := store.Report(ctx, "batch-1")
			require.NoError(t, err)
			assert.Equal(t, report.ID, got.ID)
			assert.Equal(t, report.Failures, got.Failures)
			assert.Equal(t, report.Timestamp, got.Timestamp)
		})
	}
}

func TestUnknownBatch(t *testing.T) {
	ctx := context.Background()
	redisStore, _ := newRedisStore(t)

	for name, store := range map[string]Store{"memory": NewMemoryStore(0), "redis": redisStore} {
		t.Run(name, func(t *testing.T) {
			_, err := store.Status(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, store.Increment(ctx, "missing", false), ErrNotFound)

			_, err = store.Report(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Start(ctx, "batch", 1))

	now = now.Add(59 * time.Second)
	_, err := store.Status(ctx, "batch")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Status(ctx, "batch")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Start(ctx, "batch", 2))
	assert.True(t, mr.Exists("analysis:batch:total"))
	assert.Equal(t, time.Hour, mr.TTL("analysis:batch:status"))

	mr.FastForward(time.Hour + time.Second)

	_, err := store.Status(ctx, "batch")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestMemoryStoreWritesExtendExpiry tests that a batch outliving the TTL
// stays alive while it keeps reporting progress
func TestMemoryStoreWritesExtendExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Start(ctx, "batch", 2))

	now = now.Add(50 * time.Minute)
	require.NoError(t, store.Increment(ctx, "batch", false))

	now = now.Add(50 * time.Minute)
	require.NoError(t, store.Increment(ctx, "batch", true))

	now = now.Add(50 * time.Minute)
	require.NoError(t, store.Complete(ctx, models.BatchReport{ID: "batch"}))

	status, err := store.Status(ctx, "batch")
	require.NoError(t, err)
	assert.Equal(t, 2, status.Processed)
	assert.Equal(t, models.StatusCompleted, status.Status)
}

// TestRedisStoreWritesExtendExpiry tests that increments refresh every key
// of the batch
func TestRedisStoreWritesExtendExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Start(ctx, "batch", 2))

	mr.FastForward(50 * time.Minute)
	require.NoError(t, store.Increment(ctx, "batch", false))
	for _, field := range []string{"total", "processed", "failed", "status"} {
		assert.Equal(t, time.Hour, mr.TTL("analysis:batch:"+field), field)
	}

	mr.FastForward(50 * time.Minute)
	require.NoError(t, store.Increment(ctx, "batch", true))

	mr.FastForward(50 * time.Minute)
	status, err := store.Status(ctx, "batch")
	require.NoError(t, err)
	assert.Equal(t, 2, status.Total)
	assert.Equal(t, 2, status.Processed)
	assert.Equal(t, 1, status.Failed)
	assert.Equal(t, models.StatusProcessing, status.Status)

	require.NoError(t, store.Complete(ctx, models.BatchReport{ID: "batch"}))
	_, err = store.Report(ctx, "batch")
	require.NoError(t, err)
}

func TestConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	require.NoError(t, store.Start(ctx, "batch", 100))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Increment(ctx, "batch", i%10 == 0))
		}()
	}
	wg.Wait()

	status, err := store.Status(ctx, "batch")
	require.NoError(t, err)
	assert.Equal(t, 100, status.Processed)
	assert.Equal(t, 10, status.Failed)
	assert.InDelta(t, 100.0, status.Progress, 0.001)
}
