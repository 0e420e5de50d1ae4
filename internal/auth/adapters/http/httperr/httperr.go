// Package httperr переводит ошибки домена аутентификации в HTTP ответы.
package httperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
)

// Сообщения, возвращаемые клиенту. Они не раскрывают причину отказа сверх кода ответа.
const (
	MessageInvalidCredentials = "incorrect username or password"
	MessageUnauthorized       = "could not validate credentials"
	MessageForbidden          = "invalid or revoked token"
	MessageNotFound           = "user does not exist"
	MessageConflict           = "username or email already exists"
	MessageInternal           = "internal server error"
	MessageInvalidRequest     = "invalid request"

	headerWWWAuthenticate = "WWW-Authenticate"
	schemeBearer          = "Bearer"
)

// Status возвращает HTTP код и сообщение для ошибки.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, MessageInvalidCredentials
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized, MessageUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, MessageForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, MessageNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict, MessageConflict
	case errors.Is(err, entities.ErrValidation):
		return fiber.StatusBadRequest, validationMessage(err)
	default:
		return fiber.StatusInternalServerError, MessageInternal
	}
}

// Write отправляет клиенту ответ с ошибкой. Для 401 и 403 добавляется заголовок WWW-Authenticate.
func Write(c fiber.Ctx, err error) error {
	status, message := Status(err)
	if status == fiber.StatusUnauthorized || status == fiber.StatusForbidden {
		c.Set(headerWWWAuthenticate, schemeBearer)
	}
	return Send(c, status, message)
}

// Send отправляет ответ {"error": message} с указанным кодом.
func Send(c fiber.Ctx, status int, message string) error {
	if err := c.Status(status).JSON(fiber.Map{"error": message}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

func validationMessage(err error) string {
	for _, known := range []error{
		entities.ErrInvalidEmail,
		entities.ErrEmptyUsername,
		entities.ErrUsernameTooLong,
		entities.ErrPasswordTooShort,
		entities.ErrPasswordTooWeak,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return entities.ErrValidation.Error()
}
