// File: internal/domain/ports/adapter/lock.go
package adapter

import (
	"context"
	"time"
)

// Locker hands out a lease so only one poller instance runs cycles at a time.
// Refresh and TryLock return domain.ErrLockNotAcquired when someone else holds the key.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Refresh(ctx context.Context, key, token string, ttl time.Duration) error
	Unlock(ctx context.Context, key, token string) error
}
