package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker keeps billing runs on different replicas from overlapping.
type Locker interface {
	// TryLock returns ok=false without error when another holder owns the lock.
	TryLock(ctx context.Context) (unlock func(context.Context) error, ok bool, err error)
}

const defaultLockKey = "billing:run:lock"

// releaseScript deletes the key only while it still holds our token, so an
// expired lock that was re-acquired elsewhere is left alone.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

type RedisLocker struct {
	rdb      redis.Cmdable
	key      string
	ttl      time.Duration
	newToken func() string
}

func NewRedisLocker(rdb redis.Cmdable, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		rdb:      rdb,
		key:      defaultLockKey,
		ttl:      ttl,
		newToken: uuid.NewString,
	}
}

func (l *RedisLocker) TryLock(ctx context.Context) (func(context.Context) error, bool, error) {
	token := l.newToken()

	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire billing lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	unlock := func(ctx context.Context) error {
		if err := l.rdb.Eval(ctx, releaseScript, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("release billing lock: %w", err)
		}
		return nil
	}
	return unlock, true, nil
}
