package services

import (
	"errors"
)

// PasswordErrors содержит ошибки, связанные с паролями.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrEmptyPassword   = errors.New("password must not be empty")
	ErrMalformedHash   = errors.New("stored password hash is malformed")
	ErrVerifyingFailed = errors.New("failed to verify password")
)

// MinPasswordLength - минимальная длина пароля при регистрации.
const MinPasswordLength = 8
