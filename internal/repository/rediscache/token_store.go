package rediscache

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go-talentflow-backend/internal/domain"
	"go-talentflow-backend/pkg/redis"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const refreshTokenKeyPrefix = "refresh:account:"

// tokenStore keeps the single refresh token currently valid per account.
// Only the token hash is stored; Redis never sees the token itself.
type tokenStore struct{}

// NewRefreshTokenStore creates a Redis-backed refresh token whitelist
func NewRefreshTokenStore() domain.RefreshTokenStore {
	return &tokenStore{}
}

// Store whitelists a refresh token, replacing any previous one
func (s *tokenStore) Store(ctx context.Context, accountID uuid.UUID, token string, ttl time.Duration) error {
	client := redis.Client()
	if client == nil {
		return errors.New("redis not available for token storage")
	}

	key := refreshTokenKeyPrefix + accountID.String()
	if err := client.Set(ctx, key, hashToken(token), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Validate reports whether the given token is the one on the whitelist
func (s *tokenStore) Validate(ctx context.Context, accountID uuid.UUID, token string) (bool, error) {
	client := redis.Client()
	if client == nil {
		return false, errors.New("redis not available for token validation")
	}

	key := refreshTokenKeyPrefix + accountID.String()
	stored, err := client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read refresh token: %w", err)
	}

	candidate := hashToken(token)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1, nil
}

// Revoke removes the whitelisted token for an account
func (s *tokenStore) Revoke(ctx context.Context, accountID uuid.UUID) error {
	client := redis.Client()
	if client == nil {
		return nil
	}
	if err := client.Del(ctx, refreshTokenKeyPrefix+accountID.String()).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
