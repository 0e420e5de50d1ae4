// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"taskflow/pkg/logger"
)

// HeaderRequestID - заголовок с идентификатором запроса.
const HeaderRequestID = "X-Request-ID"

type localsKey int

const (
	requestIDKey localsKey = iota
	identityKey
)

// NewRequestIDMiddleware присваивает запросу идентификатор: берет его из заголовка или генерирует новый.
func NewRequestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = logger.GenerateRequestID()
		}
		c.Locals(requestIDKey, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// RequestContext возвращает контекст запроса с идентификатором запроса для логгера.
func RequestContext(c fiber.Ctx) context.Context {
	ctx := context.Context(c.Context())
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return logger.NewRequestIDContext(ctx, id)
	}
	return ctx
}
