package services

import (
	"errors"
	"fmt"
	"time"

	"taskflow/internal/auth/domain/entities"
)

// JWTErrors содержит ошибки, связанные с JWT токенами.
var (
	ErrInvalidJWTToken    = errors.New("invalid JWT token")
	ErrExpiredJWTToken    = fmt.Errorf("%w: token has expired", ErrInvalidJWTToken)
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
	ErrUnknownTokenClass  = errors.New("unknown token class")
	ErrInvalidJWTConfig   = errors.New("invalid JWT configuration")
)

// JWTConfig содержит настройки для JWT сервиса.
type JWTConfig struct {
	AccessSecret    []byte
	RefreshSecret   []byte
	Algorithm       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// JWTClaims - проверенное содержимое токена.
type JWTClaims struct {
	Subject   string
	JTI       string
	Class     entities.TokenClass
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedToken - подписанный токен вместе с его jti и сроком действия.
type IssuedToken struct {
	Token     string
	JTI       string
	Class     entities.TokenClass
	ExpiresAt time.Time
}
