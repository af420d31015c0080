package lock

import (
	"context"
	"sync"
	"time"

	"github.com/ningscard/backend/internal/domain/shared"
)

// MutexLocker implements shared.Locker with in-process named mutexes.
// Suitable for single-instance deployments; multi-instance setups should
// use RedisLocker instead.
type MutexLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewMutexLocker creates a new in-process locker
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{
		locks: make(map[string]chan struct{}),
	}
}

func (l *MutexLocker) slot(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[name]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[name] = ch
	}
	return ch
}

// Acquire blocks until the named lock is held, the wait budget elapses, or
// the context is cancelled. Failing to acquire returns ErrLockTimeout so
// callers reject the request instead of proceeding unguarded.
func (l *MutexLocker) Acquire(ctx context.Context, name string, maxWait time.Duration) (func(), error) {
	ch := l.slot(name)

	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-ch })
		}, nil
	case <-timer.C:
		return nil, shared.ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ensure MutexLocker implements Locker
var _ shared.Locker = (*MutexLocker)(nil)
