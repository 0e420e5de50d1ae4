// Package redis содержит адаптеры сервиса аутентификации поверх Redis:
// список отозванных токенов и кэш профилей.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/ports/repositories"
	"taskflow/pkg/logger"
)

// Формат записей об отзыве.
const (
	RevokedKeyPrefix = "revoked:jti:"
	RevokedMarker    = "REVOKED"
)

// Константы для логирования.
const (
	LogMethodMarkRevoked = "MarkRevoked"
	LogMethodIsRevoked   = "IsRevoked"
	LogTokensRevoked     = "tokens marked as revoked"

	ErrorFailedToRevoke    = "failed to write revocation entries"
	ErrorFailedToCheck     = "failed to check revocation entry"
	ErrorInvalidRevocation = "invalid revocation entry"
)

// ErrInvalidRevocationEntry - запись без jti или с неположительным TTL.
var ErrInvalidRevocationEntry = errors.New("revocation entry requires jti and positive ttl")

// RevocationStore хранит отозванные jti в Redis с ограниченным временем жизни.
type RevocationStore struct {
	client redis.Cmdable
}

// NewRevocationStore создает хранилище поверх клиента Redis.
func NewRevocationStore(client redis.Cmdable) repositories.RevocationStore {
	return &RevocationStore{client: client}
}

// RevokedKey возвращает ключ Redis для jti.
func RevokedKey(jti string) string {
	return RevokedKeyPrefix + jti
}

// MarkRevoked записывает все записи в одной транзакции MULTI/EXEC.
// Повторный отзыв того же jti перезаписывает маркер и продлевает TTL.
func (s *RevocationStore) MarkRevoked(ctx context.Context, entries ...entities.RevocationEntry) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodMarkRevoked), zap.Int("entries", len(entries)))

	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if e.JTI == "" || e.TTL <= 0 {
			return fmt.Errorf("%s: %w", ErrorInvalidRevocation, ErrInvalidRevocationEntry)
		}
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range entries {
			pipe.Set(ctx, RevokedKey(e.JTI), RevokedMarker, e.TTL)
		}
		return nil
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToRevoke, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToRevoke, err)
	}

	log.Debug(ctx, LogTokensRevoked)
	return nil
}

// IsRevoked сообщает, есть ли действующая запись об отзыве jti.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodIsRevoked))

	n, err := s.client.Exists(ctx, RevokedKey(jti)).Result()
	if err != nil {
		log.Error(ctx, ErrorFailedToCheck, zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToCheck, err)
	}

	return n > 0, nil
}
