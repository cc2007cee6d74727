package run

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cancelKeyPrefix = "relevador:cancel:"
	cancelKeyTTL    = 2 * time.Hour
)

// RedisRegistry implements Registry on Redis so that cancellation reaches a
// run regardless of which process is executing it.
type RedisRegistry struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisRegistry creates a new Redis-backed registry
func NewRedisRegistry(ctx context.Context, addr string, db int) *RedisRegistry {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisRegistry{
		client: client,
		ctx:    ctx,
	}
}

// Cancel marks a run as cancelled. The key expires on its own so abandoned
// run ids do not accumulate.
func (r *RedisRegistry) Cancel(runID string) error {
	return r.client.Set(r.ctx, cancelKeyPrefix+runID, "1", cancelKeyTTL).Err()
}

// Cancelled reports whether a run has been cancelled. Registry errors are
// treated as "not cancelled"; the poll happens before every outbound call,
// so a transient miss only delays the stop by one request.
func (r *RedisRegistry) Cancelled(runID string) bool {
	n, err := r.client.Exists(r.ctx, cancelKeyPrefix+runID).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Clear removes a run's flag
func (r *RedisRegistry) Clear(runID string) error {
	return r.client.Del(r.ctx, cancelKeyPrefix+runID).Err()
}

// Close closes the Redis connection
func (r *RedisRegistry) Close() error {
	return r.client.Close()
}
