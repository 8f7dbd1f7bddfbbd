package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-service/internal/domain"
)

// SessionStore tracks revoked tokens and caches resolved identities in
// Redis. Tokens themselves stay stateless; revocation entries live only
// until the token would have expired anyway.
type SessionStore struct {
	client   *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSessionStore builds the store. A nil client degrades to no revocation
// tracking and no caching; authentication then always hits the repository.
func NewSessionStore(client *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *SessionStore {
	return &SessionStore{client: client, cacheTTL: cacheTTL, logger: logger}
}

// Revoke blacklists a token until its natural expiry.
func (s *SessionStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	if s == nil || s.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revocationKey(token), "1", ttl).Err()
}

// IsRevoked reports whether the token was blacklisted. Redis being down is
// treated as "not revoked" so that an outage does not lock everyone out; the
// token signature and expiry are still verified by the caller.
func (s *SessionStore) IsRevoked(ctx context.Context, token string) bool {
	if s == nil || s.client == nil {
		return false
	}
	n, err := s.client.Exists(ctx, revocationKey(token)).Result()
	if err != nil {
		s.logger.Warn("revocation check failed", zap.Error(err))
		return false
	}
	return n > 0
}

// CacheIdentity stores a resolved identity for subsequent requests.
func (s *SessionStore) CacheIdentity(ctx context.Context, identity *domain.Identity) {
	if s == nil || s.client == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(identity)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, identityKey(identity.ID), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("identity cache write failed", zap.Error(err))
	}
}

// CachedIdentity returns a previously cached identity, or nil on miss.
func (s *SessionStore) CachedIdentity(ctx context.Context, id string) *domain.Identity {
	if s == nil || s.client == nil {
		return nil
	}
	payload, err := s.client.Get(ctx, identityKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var identity domain.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil
	}
	return &identity
}

// InvalidateIdentity drops the cached identity, e.g. after a profile update
// or deactivation.
func (s *SessionStore) InvalidateIdentity(ctx context.Context, id string) {
	if s == nil || s.client == nil {
		return
	}
	if err := s.client.Del(ctx, identityKey(id)).Err(); err != nil {
		s.logger.Warn("identity cache invalidation failed", zap.Error(err))
	}
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:revoked:" + hex.EncodeToString(sum[:])
}

func identityKey(id string) string {
	return "identity:" + id
}
