package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/identity-gateway/internal/core/ports"
)

const defaultLockTTL = 5 * time.Minute

var _ ports.Locker = (*Locker)(nil)

// Locker is a single-instance Redis mutex. A lock expires after ttl even if
// its holder never releases it.
type Locker struct {
	client redis.Cmdable
	ttl    time.Duration
	owner  string
}

// NewLocker creates a Locker. owner identifies this process in the lock value.
func NewLocker(client redis.Cmdable, ttl time.Duration, owner string) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{client: client, ttl: ttl, owner: owner}
}

// TryLock acquires key if nobody holds it.
func (l *Locker) TryLock(ctx context.Context, key string) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.owner, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// Unlock releases key when it is still held by this owner.
func (l *Locker) Unlock(ctx context.Context, key string) error {
	if err := unlockScript.Run(ctx, l.client, []string{key}, l.owner).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
