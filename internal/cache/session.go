package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// revokedPrefix is the Redis key prefix for revoked token markers.
const revokedPrefix = "session:revoked:"

// MarkSessionRevoked records that a token was revoked. The marker lives
// until the token's own expiry, after which signature verification
// rejects it anyway.
func (c *Cache) MarkSessionRevoked(ctx context.Context, token string, untilExpiry time.Duration) error {
	if untilExpiry <= 0 {
		return nil
	}
	return c.client.Set(ctx, revokedPrefix+hashToken(token), "1", untilExpiry).Err()
}

// SessionRevoked reports whether a revocation marker exists for the
// token. Redis errors are treated as "not revoked" so the caller falls
// through to the database check.
func (c *Cache) SessionRevoked(ctx context.Context, token string) bool {
	n, err := c.client.Exists(ctx, revokedPrefix+hashToken(token)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// hashToken creates a truncated SHA256 hash of a token.
// Raw tokens are never stored as Redis keys.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:16])
}
