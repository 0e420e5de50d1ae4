package services

import (
	"errors"
	"fmt"
	"time"
)

// Классы ошибок аутентификации, по которым транспорт выбирает код ответа.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream dependency unavailable")
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials    = fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
	ErrMissingCredentials    = fmt.Errorf("%w: credentials were not provided", ErrUnauthorized)
	ErrTokenRejected         = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrMalformedClaims       = fmt.Errorf("%w: malformed claims", ErrUnauthorized)
	ErrSessionMismatch       = fmt.Errorf("%w: tokens belong to different subjects", ErrUnauthorized)
	ErrRevokedToken          = fmt.Errorf("%w: token has been revoked", ErrForbidden)
	ErrUserNotFound          = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrUserAlreadyExists     = fmt.Errorf("%w: username or email already exists", ErrConflict)
	ErrRevocationUnavailable = fmt.Errorf("%w: revocation store", ErrUpstream)
	ErrUserStoreUnavailable  = fmt.Errorf("%w: user store", ErrUpstream)
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
)

// TokenPair представляет пару токенов, выданную при входе.
type TokenPair struct {
	Username         string
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RefreshResult - результат обмена refresh токена.
// RefreshToken заполнен только при ротации.
type RefreshResult struct {
	Username         string
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	Rotated          bool
}

// SessionConfig задает параметры жизненного цикла сессии.
type SessionConfig struct {
	RotationThreshold    time.Duration
	AccessRevocationTTL  time.Duration
	RefreshRevocationTTL time.Duration
	Now                  func() time.Time
}
