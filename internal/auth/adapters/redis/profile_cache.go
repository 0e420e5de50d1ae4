package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/ports/repositories"
	"taskflow/pkg/logger"
)

// Константы кэша профилей.
const (
	ProfileKeyPrefix  = "profile:"
	DefaultProfileTTL = 5 * time.Minute

	LogMethodGet = "get"
	LogMethodSet = "set"

	ErrorFailedToGet    = "failed to get profile from redis"
	ErrorFailedToSet    = "failed to set profile in redis"
	ErrorFailedToDecode = "failed to decode cached profile"
)

// cachedProfile - публичная часть пользователя; хеш пароля в кэш не попадает.
type cachedProfile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileCache реализует repositories.ProfileCache.
type ProfileCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewProfileCache создает кэш профилей с временем жизни ttl.
func NewProfileCache(client redis.Cmdable, ttl time.Duration) repositories.ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

// ProfileKey возвращает ключ Redis для профиля пользователя.
func ProfileKey(username string) string {
	return ProfileKeyPrefix + username
}

// Get возвращает found=false, если профиля нет в кэше.
func (c *ProfileCache) Get(ctx context.Context, username string) (*entities.User, bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodGet), zap.String("username", username))

	raw, err := c.client.Get(ctx, ProfileKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.Error(err))
		return nil, false, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	var p cachedProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Warn(ctx, ErrorFailedToDecode, zap.Error(err))
		return nil, false, fmt.Errorf("%s: %w", ErrorFailedToDecode, err)
	}

	return &entities.User{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, true, nil
}

// Set сохраняет публичные поля профиля.
func (c *ProfileCache) Set(ctx context.Context, user *entities.User) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSet), zap.String("username", user.Username))

	raw, err := json.Marshal(cachedProfile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	if err := c.client.Set(ctx, ProfileKey(user.Username), raw, c.ttl).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}
