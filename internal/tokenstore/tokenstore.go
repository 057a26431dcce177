// Package tokenstore tracks refresh tokens that were rotated out or logged
// out and must no longer be exchanged.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brightscope/internal/domain"
)

// Blacklist records revoked token ids until they would have expired anyway.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// GormBlacklist stores revoked ids in the token_blacklist table.
type GormBlacklist struct {
	db *gorm.DB
}

// NewGormBlacklist creates a database-backed blacklist.
func NewGormBlacklist(db *gorm.DB) *GormBlacklist {
	return &GormBlacklist{db: db}
}

// Revoke blacklists jti. Revoking twice is not an error.
func (b *GormBlacklist) Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	entry := domain.BlacklistedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt.UTC()}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti was blacklisted.
func (b *GormBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var entry domain.BlacklistedToken
	err := b.db.WithContext(ctx).Where("jti = ?", jti).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return true, nil
}

// Purge removes entries whose tokens have expired.
func (b *GormBlacklist) Purge(ctx context.Context, now time.Time) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&domain.BlacklistedToken{})
	return res.RowsAffected, res.Error
}

const redisKeyPrefix = "brightscope:token_blacklist:"

// RedisBlacklist stores revoked ids as expiring redis keys.
type RedisBlacklist struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisBlacklist connects to redis at url and verifies the connection.
func NewRedisBlacklist(ctx context.Context, url string) (*RedisBlacklist, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisBlacklist{client: client, now: time.Now}, nil
}

// Revoke blacklists jti until expiresAt.
func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, redisKeyPrefix+jti, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti was blacklisted.
func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

// Close closes the redis client.
func (b *RedisBlacklist) Close() error {
	return b.client.Close()
}
