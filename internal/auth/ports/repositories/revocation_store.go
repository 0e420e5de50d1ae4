package repositories

import (
	"context"

	"taskflow/internal/auth/domain/entities"
)

// RevocationStore - список отозванных токенов с ограниченным временем хранения записей.
type RevocationStore interface {
	// MarkRevoked записывает все переданные записи атомарно: либо все, либо ни одной.
	MarkRevoked(ctx context.Context, entries ...entities.RevocationEntry) error

	IsRevoked(ctx context.Context, jti string) (bool, error)
}
