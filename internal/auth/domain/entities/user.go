package entities

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation объединяет ошибки проверки входных данных пользователя.
var ErrValidation = errors.New("validation failed")

// Ошибки домена пользователя.
var (
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyUsername    = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrUsernameTooLong  = fmt.Errorf("%w: username must not exceed 50 characters", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must contain at least 8 characters", ErrValidation)
	ErrPasswordTooWeak  = fmt.Errorf("%w: password must contain at least one letter and one digit", ErrValidation)
)

// MaxUsernameLength соответствует размеру колонки users.username.
const MaxUsernameLength = 50

// User представляет основную сущность домена пользователя.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
