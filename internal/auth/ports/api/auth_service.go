package api

import (
	"context"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
)

// AuthUseCase определяет основной порт для операций аутентификации и управления сессией.
type AuthUseCase interface {
	Register(ctx context.Context, username, email, password string) (int64, error)

	Login(ctx context.Context, username, password string) (*services.TokenPair, error)

	// Authenticate проверяет токен указанного класса и его отсутствие в списке отозванных.
	Authenticate(ctx context.Context, class entities.TokenClass, token string) (*entities.AuthenticatedIdentity, error)

	// Refresh выдает новый access токен и ротирует refresh токен, если срок его жизни подходит к концу.
	Refresh(ctx context.Context, refreshToken string) (*services.RefreshResult, error)

	// Logout атомарно отзывает оба токена сессии.
	Logout(ctx context.Context, accessJTI, refreshJTI string) error
}
