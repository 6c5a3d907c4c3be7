package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sendKeyPrefix = "coach:sent:"
	// A claim outlives its local day so a late pass just after midnight
	// in a western zone still sees it.
	sendGuardTTL = 26 * time.Hour
)

// SendGuard claims a (member, category, day) slot so overlapping batch
// passes do not message the same member twice.
type SendGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSendGuard(rdb *redis.Client) *SendGuard {
	return &SendGuard{rdb: rdb, ttl: sendGuardTTL}
}

// Acquire reports true when the caller now owns the slot.
func (g *SendGuard) Acquire(ctx context.Context, memberID uuid.UUID, category, day string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, sendKey(memberID, category, day), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim send slot: %w", err)
	}
	return ok, nil
}

// Release frees a slot after a failed send so the next pass may retry.
func (g *SendGuard) Release(ctx context.Context, memberID uuid.UUID, category, day string) error {
	if err := g.rdb.Del(ctx, sendKey(memberID, category, day)).Err(); err != nil {
		return fmt.Errorf("failed to release send slot: %w", err)
	}
	return nil
}

func sendKey(memberID uuid.UUID, category, day string) string {
	return sendKeyPrefix + category + ":" + day + ":" + memberID.String()
}
