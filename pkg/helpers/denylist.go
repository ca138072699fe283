package helpers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/neurixa/neurixa/pkg/metrics"
)

// DefaultDenylistPrefix namespaces revoked-token keys in Redis.
const DefaultDenylistPrefix = "blacklist:jwt:"

// minDenylistTTL keeps an already-expired token blocked long enough to beat
// any concurrent request that read the clock an instant earlier.
const minDenylistTTL = time.Second

const denylistedValue = "1"

// TokenDenylist records revoked bearer tokens until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RedisDenylist stores token digests in Redis with a per-key TTL. Only the
// SHA-256 of the token is stored; a compromised store cannot replay tokens.
type RedisDenylist struct {
	rdb      *redis.Client
	prefix   string
	failOpen bool
	logger   *logrus.Logger
}

// NewRedisDenylist builds a denylist over rdb. failOpen picks the behavior on
// store outage: true treats lookups as not revoked (with an alarm), false
// treats them as revoked.
func NewRedisDenylist(rdb *redis.Client, prefix string, failOpen bool, logger *logrus.Logger) *RedisDenylist {
	if prefix == "" {
		prefix = DefaultDenylistPrefix
	}
	return &RedisDenylist{rdb: rdb, prefix: prefix, failOpen: failOpen, logger: logger}
}

// DenylistKey derives the storage key for a token.
func DenylistKey(prefix, token string) string {
	sum := sha256.Sum256([]byte(token))
	return prefix + hex.EncodeToString(sum[:])
}

// DenylistTTL computes the remaining validity of a token, clamped to at
// least minDenylistTTL.
func DenylistTTL(expiresAt time.Time, now time.Time) time.Duration {
	ttl := expiresAt.Sub(now)
	if ttl < minDenylistTTL {
		return minDenylistTTL
	}
	return ttl
}

// Revoke is idempotent: re-revoking an already-denylisted token just
// refreshes the entry.
func (d *RedisDenylist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return nil
	}
	ttl := DenylistTTL(expiresAt, time.Now())
	return d.rdb.Set(ctx, DenylistKey(d.prefix, token), denylistedValue, ttl).Err()
}

// IsRevoked reports denylist membership. On store outage the configured
// fail-open/fail-closed policy applies and an alarm counter is bumped.
func (d *RedisDenylist) IsRevoked(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := d.rdb.Exists(ctx, DenylistKey(d.prefix, token)).Result()
	if err != nil {
		metrics.DenylistErrors.Inc()
		if d.logger != nil {
			d.logger.WithError(err).Warn("denylist lookup failed")
		}
		if d.failOpen {
			return false, nil
		}
		// Fail closed: an unreachable store means every token counts as revoked.
		return true, nil
	}
	return n > 0, nil
}
