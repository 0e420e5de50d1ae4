package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"taskflow/internal/auth/adapters/http/httperr"
	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
	"taskflow/internal/auth/ports/api"
	"taskflow/pkg/logger"
)

const (
	headerAuthorization = "Authorization"
	bearerScheme        = "Bearer"

	msgAuthMiddleware    = "auth middleware"
	msgNoBearerToken     = "no bearer token provided"
	msgTokenNotAccepted  = "access token not accepted"
	msgRequestAuthorized = "request authorized"
)

// NewAuthMiddleware проверяет access токен из заголовка Authorization и сохраняет
// идентичность пользователя в контексте запроса.
func NewAuthMiddleware(auth api.AuthUseCase) fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := RequestContext(c)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, msgAuthMiddleware)

		token, ok := BearerToken(c)
		if !ok {
			log.Debug(requestCtx, msgNoBearerToken)
			return httperr.Write(c, services.ErrMissingCredentials)
		}

		identity, err := auth.Authenticate(requestCtx, entities.ClassAccess, token)
		if err != nil {
			log.Info(requestCtx, msgTokenNotAccepted, zap.Error(err))
			return httperr.Write(c, err)
		}

		log.Debug(requestCtx, msgRequestAuthorized, zap.String("username", identity.Username))
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// BearerToken извлекает токен из заголовка Authorization со схемой Bearer.
func BearerToken(c fiber.Ctx) (string, bool) {
	scheme, token, found := strings.Cut(c.Get(headerAuthorization), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// IdentityFromContext возвращает идентичность, сохраненную NewAuthMiddleware.
func IdentityFromContext(c fiber.Ctx) (*entities.AuthenticatedIdentity, bool) {
	identity, ok := c.Locals(identityKey).(*entities.AuthenticatedIdentity)
	return identity, ok && identity != nil
}
