package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultSeenTTL = 30 * 24 * time.Hour
	seenKeyPrefix  = "trivia:import:seen:"
)

// SeenCache remembers imported question fingerprints in Redis so repeated
// runs skip the store lookup.
type SeenCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSeenCache(client *redis.Client, ttl time.Duration) *SeenCache {
	if ttl <= 0 {
		ttl = defaultSeenTTL
	}
	return &SeenCache{client: client, ttl: ttl}
}

func (c *SeenCache) key(question string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(question))))
	return seenKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *SeenCache) Seen(ctx context.Context, question string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(question)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *SeenCache) Remember(ctx context.Context, question string) error {
	return c.client.Set(ctx, c.key(question), 1, c.ttl).Err()
}
