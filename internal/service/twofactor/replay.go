package twofactor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// replayTTL keeps a consumed code unusable for the full validity window of
// the code plus clock skew.
const replayTTL = 90 * time.Second

// ReplayGuard records codes that already authorized an action so a captured
// code cannot be replayed within its window.
type ReplayGuard interface {
	// MarkUsed records (email, code) and reports false when the pair was
	// already recorded.
	MarkUsed(ctx context.Context, email, code string) (bool, error)
}

type RedisReplayGuard struct {
	client *redis.Client
}

func NewRedisReplayGuard(client *redis.Client) *RedisReplayGuard {
	return &RedisReplayGuard{client: client}
}

func (g *RedisReplayGuard) MarkUsed(ctx context.Context, email, code string) (bool, error) {
	key := fmt.Sprintf("totp:used:%s:%s", email, code)
	ok, err := g.client.SetNX(ctx, key, "1", replayTTL).Result()
	if err != nil {
		return false, fmt.Errorf("replay guard: %w", err)
	}
	return ok, nil
}
