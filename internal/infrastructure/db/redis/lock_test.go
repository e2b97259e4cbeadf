package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestLocker_ExclusiveUntilUnlock(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()
	a := NewLocker(client, time.Minute, "replica-a")
	b := NewLocker(client, time.Minute, "replica-b")

	ok, err := a.TryLock(ctx, "lock:test")
	if err != nil || !ok {
		t.Fatalf("first TryLock: ok=%v err=%v", ok, err)
	}
	ok, err = b.TryLock(ctx, "lock:test")
	if err != nil || ok {
		t.Fatalf("second TryLock must fail: ok=%v err=%v", ok, err)
	}

	if err := b.Unlock(ctx, "lock:test"); err != nil {
		t.Fatalf("foreign Unlock returned error: %v", err)
	}
	if ok, _ := b.TryLock(ctx, "lock:test"); ok {
		t.Fatalf("foreign Unlock must not release the lock")
	}

	if err := a.Unlock(ctx, "lock:test"); err != nil {
		t.Fatalf("Unlock returned error: %v", err)
	}
	if ok, _ := b.TryLock(ctx, "lock:test"); !ok {
		t.Fatalf("lock should be free after owner released it")
	}
}

func TestLocker_Expires(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()
	a := NewLocker(client, time.Second, "replica-a")
	b := NewLocker(client, time.Second, "replica-b")

	if ok, _ := a.TryLock(ctx, "lock:ttl"); !ok {
		t.Fatalf("TryLock failed")
	}
	srv.FastForward(2 * time.Second)

	if ok, _ := b.TryLock(ctx, "lock:ttl"); !ok {
		t.Fatalf("expired lock should be acquirable")
	}
}
