package handlers

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"taskflow/internal/auth/adapters/http/dto"
	"taskflow/internal/auth/adapters/http/httperr"
	"taskflow/internal/auth/adapters/http/middleware"
	"taskflow/internal/auth/domain/services"
	"taskflow/internal/auth/ports/api"
	"taskflow/pkg/logger"
)

const logHandlerGetProfile = "user handler: get profile"

// UserHandler обслуживает запросы профиля текущего пользователя.
type UserHandler struct {
	users api.UserUseCase
}

// NewUserHandler создает новый экземпляр обработчика профиля.
func NewUserHandler(users api.UserUseCase) *UserHandler {
	return &UserHandler{users: users}
}

// Me возвращает профиль владельца access токена.
func (h *UserHandler) Me(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, logHandlerGetProfile)

	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return httperr.Write(c, services.ErrMissingCredentials)
	}

	user, err := h.users.GetUserProfile(requestCtx, identity.Username)
	if err != nil {
		log.Info(requestCtx, msgFailedToServe, zap.Error(err))
		return httperr.Write(c, err)
	}

	return sendJSON(c, fiber.StatusOK, dto.UserProfileResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}
