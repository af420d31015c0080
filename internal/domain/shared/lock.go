package shared

import (
	"context"
	"time"
)

// Locker guards the ledger store's read-modify-write sequences.
// Acquire blocks until the named lock is held or maxWait elapses; on timeout
// it returns ErrLockTimeout. The returned release function is safe to call
// exactly once and must be invoked on every exit path.
type Locker interface {
	Acquire(ctx context.Context, name string, maxWait time.Duration) (release func(), err error)
}

// LedgerLockName is the store-wide lock serializing order merges and
// settlement reconciliation.
const LedgerLockName = "ledger"

// DefaultLockWait bounds lock acquisition; callers fail closed past it.
const DefaultLockWait = 30 * time.Second
