package redis

import (
	"context"
	"errors"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/ports/repositories"
	"taskflow/pkg/resilience"
)

// ResilientRevocationStore добавляет повторы и Circuit Breaker к хранилищу отзывов.
// Обе операции идемпотентны, поэтому повтор после неизвестного исхода безопасен.
type ResilientRevocationStore struct {
	next       repositories.RevocationStore
	resilience *resilience.ServiceResilience
}

// NewResilientRevocationStore оборачивает next.
func NewResilientRevocationStore(next repositories.RevocationStore, r *resilience.ServiceResilience) repositories.RevocationStore {
	return &ResilientRevocationStore{next: next, resilience: r}
}

// MarkRevoked делегирует запись с повторами.
func (s *ResilientRevocationStore) MarkRevoked(ctx context.Context, entries ...entities.RevocationEntry) error {
	return s.resilience.ExecuteWithResilience(ctx, LogMethodMarkRevoked, func() error {
		return permanentIfInvalid(s.next.MarkRevoked(ctx, entries...))
	})
}

// IsRevoked делегирует проверку с повторами.
func (s *ResilientRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return resilience.Execute(ctx, s.resilience, LogMethodIsRevoked, func() (bool, error) {
		return s.next.IsRevoked(ctx, jti)
	})
}

func permanentIfInvalid(err error) error {
	if errors.Is(err, ErrInvalidRevocationEntry) {
		return resilience.Permanent(err)
	}
	return err
}
