package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serialises stepping of one session across server replicas.
// A Configuration assumes a single stepper; the lock enforces that across processes.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// The lock expires after ttl if the holder never releases it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
