package locks

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/automate/wallet-linker/wallet"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	options, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	return client
}

func TestProvideLockerWithoutRedis(t *testing.T) {
	locker := ProvideLocker(nil, &Config{})
	assert.IsType(t, wallet.NoopLocker{}, locker)
}

func TestRedisLocker(t *testing.T) {
	client := redisClient(t)
	locker := NewRedisLocker(client, &Config{LockTtl: time.Second * 5, LockWait: time.Millisecond * 200})
	ctx := context.Background()
	key := "test:" + t.Name()

	unlock, err := locker.Lock(ctx, key)
	require.NoError(t, err)

	_, err = locker.Lock(ctx, key)
	assert.ErrorIs(t, err, ErrTimeout)

	unlock()

	unlock, err = locker.Lock(ctx, key)
	require.NoError(t, err)
	unlock()

	exists, err := client.Exists(ctx, keyPrefix+key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

func TestRedisLockerExpires(t *testing.T) {
	client := redisClient(t)
	locker := NewRedisLocker(client, &Config{LockTtl: time.Millisecond * 100, LockWait: time.Second})
	ctx := context.Background()
	key := "test:" + t.Name()

	_, err := locker.Lock(ctx, key)
	require.NoError(t, err)

	// the first holder never releases; the ttl frees the key
	unlock, err := locker.Lock(ctx, key)
	require.NoError(t, err)
	unlock()
}
