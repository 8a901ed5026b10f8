package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// TokenBlacklist invalidates tokens before they expire (logout, deactivated users)
type TokenBlacklist interface {
	// AddToBlacklist revokes one token by JTI. ttl should be the token's remaining lifetime.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted checks if a token's JTI was revoked
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddUserTokensToBlacklist revokes every token issued to a user up to now
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error

	// IsUserTokenInvalidated reports whether a token issued at tokenIssuedAt predates
	// the user's last invalidation
	IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

// CacheTokenBlacklist stores revocations in the shared cache, so it follows the
// cache backend (Redis across instances, in-memory for a single process)
type CacheTokenBlacklist struct {
	cache     shared.Cache
	keyPrefix string
}

// NewCacheTokenBlacklist creates a blacklist on top of cache
func NewCacheTokenBlacklist(cache shared.Cache) *CacheTokenBlacklist {
	return &CacheTokenBlacklist{
		cache:     cache,
		keyPrefix: "token:blacklist:",
	}
}

func (b *CacheTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *CacheTokenBlacklist) userKey(userID string) string {
	return b.keyPrefix + "user:" + userID
}

// AddToBlacklist adds a token's JTI to the blacklist
func (b *CacheTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.cache.Set(ctx, b.jtiKey(jti), []byte("1"), ttl); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted checks if a token's JTI is in the blacklist
func (b *CacheTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	_, ok, err := b.cache.Get(ctx, b.jtiKey(jti))
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return ok, nil
}

// AddUserTokensToBlacklist stores the invalidation time in nanoseconds.
// Tokens issued at or before it are rejected.
func (b *CacheTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	now := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := b.cache.Set(ctx, b.userKey(userID), []byte(now), ttl); err != nil {
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}
	return nil
}

// IsUserTokenInvalidated checks if a token was issued before the user's invalidation timestamp
func (b *CacheTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	raw, ok, err := b.cache.Get(ctx, b.userKey(userID))
	if err != nil {
		return false, fmt.Errorf("failed to check user token invalidation: %w", err)
	}
	if !ok {
		return false, nil
	}
	invalidatedAt, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}
	// JWT iat has second precision
	return tokenIssuedAt.Unix() <= time.Unix(0, invalidatedAt).Unix(), nil
}

var _ TokenBlacklist = (*CacheTokenBlacklist)(nil)
