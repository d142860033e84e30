package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRevokedPrefix is the key prefix for revoked session token ids
const SessionRevokedPrefix = "session:revoked:"

// SessionDenylist records session tokens that were logged out before they expired.
// Entries only need to outlive the token itself.
type SessionDenylist interface {
	// Revoke marks the token id as revoked until the given time.
	// A time in the past is a no-op.
	Revoke(ctx context.Context, jti string, until time.Time) error

	// IsRevoked reports whether the token id has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisSessionDenylist implements SessionDenylist with one expiring key per token.
type RedisSessionDenylist struct {
	client *redis.Client
}

// NewSessionDenylist creates a SessionDenylist backed by Redis.
func NewSessionDenylist(client *redis.Client) SessionDenylist {
	return &RedisSessionDenylist{client: client}
}

func revokedKey(jti string) string {
	return SessionRevokedPrefix + jti
}

// Revoke stores the token id with a TTL equal to its remaining lifetime.
func (c *RedisSessionDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if jti == "" || ttl <= 0 {
		return nil
	}

	if err := c.client.Set(ctx, revokedKey(jti), 1, ttl).Err(); err != nil {
		log.Printf("[SessionDenylist] Revoke FAILED: jti=%s err=%v", jti, err)
		return fmt.Errorf("revoke session: %w", err)
	}

	log.Printf("[SessionDenylist] Revoke OK: jti=%s ttl=%v", jti, ttl.Round(time.Second))
	return nil
}

// IsRevoked checks for the token id key.
func (c *RedisSessionDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	err := c.client.Get(ctx, revokedKey(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		log.Printf("[SessionDenylist] IsRevoked FAILED: jti=%s err=%v", jti, err)
		return false, fmt.Errorf("check session: %w", err)
	}
	return true, nil
}
