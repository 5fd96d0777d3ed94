package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reading-service/internal/database"

	"github.com/redis/go-redis/v9"
)

// BalanceUpdatesChannel carries balance broadcasts between service instances.
const BalanceUpdatesChannel = "token-balance:updates"

type RedisService struct {
	client *database.RedisClient
}

func NewRedisService(client *database.RedisClient) *RedisService {
	return &RedisService{
		client: client,
	}
}

// =============================================================================
// Rate Limiting
// =============================================================================

// CheckRateLimit records a hit on key and reports whether the caller is still
// under limit hits in the sliding window.
func (r *RedisService) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := r.client.GetClient().Pipeline()

	// Remove old entries
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))

	// Count current entries
	count := pipe.ZCard(ctx, key)

	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() < int64(limit), nil
}

// =============================================================================
// Balance relay
// =============================================================================

// PublishBalanceUpdate fans an encoded balance update out to every instance,
// this one included.
func (r *RedisService) PublishBalanceUpdate(ctx context.Context, payload []byte) error {
	if err := r.client.GetClient().Publish(ctx, BalanceUpdatesChannel, payload).Err(); err != nil {
		slog.Error("Failed to publish balance update", "error", err)
		return err
	}
	return nil
}

// BalanceUpdates streams payloads published on the relay channel until ctx
// is cancelled.
func (r *RedisService) BalanceUpdates(ctx context.Context) <-chan []byte {
	pubsub := r.client.GetClient().Subscribe(ctx, BalanceUpdatesChannel)
	out := make(chan []byte, 64)

	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	slog.Debug("Subscribed to balance relay", "channel", BalanceUpdatesChannel)
	return out
}
