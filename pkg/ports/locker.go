package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serialises turns on one session across server replicas
// sharing a SessionStore. The in-process mutex in session.Manager only covers
// a single replica.
type DistributedLocker interface {
	// Lock blocks until the session key is held or ctx ends. The lock lapses
	// after ttl if the holder dies before calling the returned UnlockFunc.
	Lock(ctx context.Context, sessionID string, ttl time.Duration) (UnlockFunc, error)
}
