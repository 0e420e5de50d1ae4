package repositories

import (
	"context"

	"taskflow/internal/auth/domain/entities"
)

// UserRepository определяет интерфейс хранилища учетных записей.
type UserRepository interface {
	// Create сохраняет пользователя и возвращает его идентификатор.
	Create(ctx context.Context, user *entities.User) (int64, error)

	// FindByUsername возвращает found=false без ошибки, если пользователя нет.
	FindByUsername(ctx context.Context, username string) (*entities.User, bool, error)

	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}
