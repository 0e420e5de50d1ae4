package repositories

import (
	"context"

	"taskflow/internal/auth/domain/entities"
)

// ProfileCache кэширует публичные данные профиля пользователя.
type ProfileCache interface {
	Get(ctx context.Context, username string) (*entities.User, bool, error)

	Set(ctx context.Context, user *entities.User) error
}
