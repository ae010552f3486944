package cache_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/place-microservice/internal/repository/cache"
)

// setupRedis подключается к TEST_REDIS_ADDR, без него тест пропускается
func setupRedis(t *testing.T) *cache.ViewStatRepository {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set, skipping Redis integration tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	require.NoError(t, client.FlushDB(ctx).Err())

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return cache.NewViewStatRepository(cache.NewRedisForTest(client, nil))
}

func TestViewStatRepository_ConcurrentIncrements(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Increment(ctx, "hot", time.Now()))
		}()
	}
	wg.Wait()

	top, err := repo.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(20), top[0].ViewCount)
	assert.False(t, top[0].LastViewedAt.IsZero())
}

func TestViewStatRepository_TopBreaksTiesByRecency(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Increment(ctx, "popular", base))
	}
	// одинаковое число просмотров, "fresh" смотрели позже
	require.NoError(t, repo.Increment(ctx, "stale", base))
	require.NoError(t, repo.Increment(ctx, "fresh", base.Add(time.Hour)))

	top, err := repo.Top(ctx, 2)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "popular", top[0].PlaceID)
	assert.Equal(t, "fresh", top[1].PlaceID)
	assert.True(t, base.Add(time.Hour).Equal(top[1].LastViewedAt))
}

func TestViewStatRepository_TopEmpty(t *testing.T) {
	repo := setupRedis(t)

	top, err := repo.Top(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestViewStatRepository_LastViewedNeverMovesBack(t *testing.T) {
	repo := setupRedis(t)
	ctx := context.Background()
	later := time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)

	// запоздавший просмотр приходит после более свежего
	require.NoError(t, repo.Increment(ctx, "p", later))
	require.NoError(t, repo.Increment(ctx, "p", later.Add(-time.Hour)))

	top, err := repo.Top(ctx, 1)

	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(2), top[0].ViewCount)
	assert.True(t, later.Equal(top[0].LastViewedAt))
}
