package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ningscard/backend/internal/domain/shared"
)

const (
	lockKeyPrefix = "lock:"
	lockTTL       = 60 * time.Second
	retryInterval = 100 * time.Millisecond
)

// releaseScript deletes the lock only if this holder still owns it, so an
// expired-and-reacquired lock is never released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements shared.Locker using Redis SET NX with a TTL.
// The TTL bounds how long a crashed holder can block other instances.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a locker backed by an existing Redis client
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire polls SET NX until the lock is held or the wait budget elapses
func (l *RedisLocker) Acquire(ctx context.Context, name string, maxWait time.Duration) (func(), error) {
	key := lockKeyPrefix + name
	token := uuid.NewString()
	deadline := time.Now().Add(maxWait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", name, err)
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() {
					releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
				})
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, shared.ErrLockTimeout
		}
		select {
		case <-time.After(retryInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Ensure RedisLocker implements Locker
var _ shared.Locker = (*RedisLocker)(nil)
