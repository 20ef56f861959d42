package locks

import (
	"context"
	"errors"
	"time"

	"github.com/automate/wallet-linker/wallet"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const keyPrefix = "wallet-linker:lock:"

// ErrTimeout is returned when the lock stays taken for longer than the configured wait.
var ErrTimeout = errors.New("timed out waiting for lock")

// only the holder of the token may delete the key
var release = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type Config struct {
	LockTtl  time.Duration `env:"LOCK_TTL" envDefault:"10s"`
	LockWait time.Duration `env:"LOCK_WAIT" envDefault:"5s"`
}

// RedisLocker is a single instance redis lock. Keys expire after Ttl so a crashed holder
// cannot block an address forever.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedisLocker(client *redis.Client, config *Config) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    config.LockTtl,
		wait:   config.LockWait,
		retry:  50 * time.Millisecond,
	}
}

// ProvideLocker returns a RedisLocker when a client is configured and a no-op locker
// otherwise.
func ProvideLocker(client *redis.Client, config *Config) wallet.Locker {
	if client == nil {
		return wallet.NoopLocker{}
	}
	return NewRedisLocker(client, config)
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	key = keyPrefix + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ErrTimeout
			}
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrTimeout
			}
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	zerolog.Ctx(ctx).Debug().Str("key", key).Msg("Acquired lock")

	return func() {
		// release on a fresh context, the caller's may already be done
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second*2)
		defer cancel()

		if err := release.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Could not release lock")
		}
	}, nil
}
