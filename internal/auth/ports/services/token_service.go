package services

import (
	"context"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
)

// TokenService определяет кодек подписанных токенов.
type TokenService interface {
	Issue(ctx context.Context, class entities.TokenClass, subject string) (*services.IssuedToken, error)

	Verify(ctx context.Context, class entities.TokenClass, token string) (*services.JWTClaims, error)
}
