package app

import (
	"regexp"
	"unicode/utf8"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`\d`)
)

// validateEmail допускает пустой адрес: email при регистрации необязателен.
func validateEmail(email string) error {
	if email != "" && !emailRegex.MatchString(email) {
		return entities.ErrInvalidEmail
	}
	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return entities.ErrEmptyUsername
	}
	if utf8.RuneCountInString(username) > entities.MaxUsernameLength {
		return entities.ErrUsernameTooLong
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < services.MinPasswordLength {
		return entities.ErrPasswordTooShort
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return entities.ErrPasswordTooWeak
	}
	return nil
}
