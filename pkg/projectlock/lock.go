// Package projectlock serializes mutations per project id. Phase transitions
// and cascade deletes for the same project must not interleave; reads stay
// unlocked.
package projectlock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"project-service/pkg/apperr"
)

// Client is the subset of the redis client the locker needs.
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Locker struct {
	rdb    Client
	ttl    time.Duration
	retry  time.Duration
	logger *zap.Logger
}

func New(rdb Client, ttl time.Duration, logger *zap.Logger) *Locker {
	return &Locker{
		rdb:    rdb,
		ttl:    ttl,
		retry:  50 * time.Millisecond,
		logger: logger,
	}
}

// Acquire blocks until the per-project lock is held or ctx expires. The
// returned release function is safe to defer; the TTL bounds the damage of a
// crashed holder.
func (l *Locker) Acquire(ctx context.Context, projectID int64) (func(), error) {
	key := fmt.Sprintf("projlock:%d", projectID)

	for {
		ok, err := l.rdb.SetNX(ctx, key, 1, l.ttl).Result()
		if err != nil {
			return nil, &apperr.TransientFault{Op: "acquire project lock", Err: err}
		}
		if ok {
			return func() {
				if _, err := l.rdb.Del(context.Background(), key).Result(); err != nil {
					l.logger.Warn("Failed to release project lock, waiting for TTL expiry",
						zap.Int64("project_id", projectID),
						zap.Error(err),
					)
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, &apperr.TransientFault{Op: "acquire project lock", Err: ctx.Err()}
		case <-time.After(l.retry):
		}
	}
}
