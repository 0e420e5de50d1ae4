package entities

import "time"

// TokenClass различает access и refresh токены.
type TokenClass string

// Классы токенов.
const (
	ClassAccess  TokenClass = "access"
	ClassRefresh TokenClass = "refresh"
)

// Valid сообщает, является ли класс известным.
func (c TokenClass) Valid() bool {
	return c == ClassAccess || c == ClassRefresh
}

func (c TokenClass) String() string {
	return string(c)
}

// RevocationEntry описывает запись об отзыве токена по его jti.
type RevocationEntry struct {
	JTI string
	TTL time.Duration
}

// AuthenticatedIdentity - результат успешной аутентификации токена.
type AuthenticatedIdentity struct {
	Username  string
	JTI       string
	Class     TokenClass
	ExpiresAt time.Time
}
