package api

import (
	"context"

	"taskflow/internal/auth/domain/entities"
)

// UserUseCase определяет основной порт для пользовательских операций.
type UserUseCase interface {
	GetUserProfile(ctx context.Context, username string) (*entities.User, error)
}
