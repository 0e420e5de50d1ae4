// Package handlers содержит HTTP обработчики сервиса аутентификации.
package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"taskflow/internal/auth/adapters/http/dto"
	"taskflow/internal/auth/adapters/http/httperr"
	"taskflow/internal/auth/adapters/http/middleware"
	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
	"taskflow/internal/auth/ports/api"
	"taskflow/pkg/logger"
)

const (
	logHandlerRegister = "auth handler: register"
	logHandlerLogin    = "auth handler: login"
	logHandlerRefresh  = "auth handler: refresh" // #nosec G101 - not a credential
	logHandlerLogout   = "auth handler: logout"

	msgLoginSuccessful = "Login successful"
	msgUserCreated     = "User created successfully"
	msgLoggedOut       = "You've been successfully logged out."
	msgFailedToServe   = "failed to serve request"
	msgInvalidRequest  = "invalid request body"
	msgNoRefreshCookie = "refresh cookie missing"
	msgRefreshRotated  = "refresh cookie replaced"
	msgSessionMismatch = "access and refresh tokens belong to different users"
	msgErrSendResponse = "sending response"
	formFieldUsername  = "username"
	formFieldPassword  = "password"
)

// AuthHandler содержит HTTP обработчики входа, регистрации, обновления и выхода.
type AuthHandler struct {
	auth     api.AuthUseCase
	cookie   CookieSettings
	validate *validator.Validate
}

// NewAuthHandler создает новый экземпляр обработчика авторизации.
func NewAuthHandler(auth api.AuthUseCase, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		cookie:   cookie,
		validate: newValidator(),
	}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, logHandlerRegister)

	var req dto.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, msgInvalidRequest, zap.Error(err))
		return httperr.Send(c, fiber.StatusBadRequest, httperr.MessageInvalidRequest)
	}

	if err := validateRequest(h.validate, &req); err != nil {
		log.Debug(requestCtx, msgInvalidRequest, zap.Error(err))
		return httperr.Write(c, err)
	}

	id, err := h.auth.Register(requestCtx, req.Username, req.Email, req.Password)
	if err != nil {
		log.Info(requestCtx, msgFailedToServe, zap.Error(err))
		return httperr.Write(c, err)
	}

	return sendJSON(c, fiber.StatusCreated, dto.RegisterResponse{
		Message: msgUserCreated,
		UserID:  id,
	})
}

// Login принимает форму username/password и выдает access токен в теле и refresh токен в cookie.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, logHandlerLogin)

	pair, err := h.auth.Login(requestCtx, c.FormValue(formFieldUsername), c.FormValue(formFieldPassword))
	if err != nil {
		log.Info(requestCtx, msgFailedToServe, zap.Error(err))
		return httperr.Write(c, err)
	}

	h.cookie.set(c, pair.RefreshToken)

	return sendJSON(c, fiber.StatusOK, dto.LoginResponse{
		User:        pair.Username,
		Message:     msgLoginSuccessful,
		AccessToken: pair.AccessToken,
		TokenType:   dto.TokenTypeBearer,
	})
}

// Refresh выдает новый access токен по refresh cookie и заменяет cookie при ротации.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, logHandlerRefresh)

	refreshToken := c.Cookies(h.cookie.Name)
	if refreshToken == "" {
		log.Debug(requestCtx, msgNoRefreshCookie)
		return httperr.Write(c, services.ErrMissingCredentials)
	}

	result, err := h.auth.Refresh(requestCtx, refreshToken)
	if err != nil {
		log.Info(requestCtx, msgFailedToServe, zap.Error(err))
		return httperr.Write(c, err)
	}

	if result.Rotated {
		h.cookie.set(c, result.RefreshToken)
		log.Debug(requestCtx, msgRefreshRotated, zap.String("username", result.Username))
	}

	return sendJSON(c, fiber.StatusOK, dto.RefreshResponse{AccessToken: result.AccessToken})
}

// Logout отзывает access токен из заголовка и refresh токен из cookie, затем очищает cookie.
// Должен вызываться после NewAuthMiddleware.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	requestCtx := middleware.RequestContext(c)
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, logHandlerLogout)

	access, ok := middleware.IdentityFromContext(c)
	if !ok {
		return httperr.Write(c, services.ErrMissingCredentials)
	}

	refreshToken := c.Cookies(h.cookie.Name)
	if refreshToken == "" {
		log.Debug(requestCtx, msgNoRefreshCookie)
		return httperr.Write(c, services.ErrMissingCredentials)
	}

	refresh, err := h.auth.Authenticate(requestCtx, entities.ClassRefresh, refreshToken)
	if err != nil {
		log.Info(requestCtx, msgFailedToServe, zap.Error(err))
		return httperr.Write(c, err)
	}

	if refresh.Username != access.Username {
		log.Warn(requestCtx, msgSessionMismatch,
			zap.String("access_user", access.Username), zap.String("refresh_user", refresh.Username))
		return httperr.Write(c, services.ErrSessionMismatch)
	}

	if err := h.auth.Logout(requestCtx, access.JTI, refresh.JTI); err != nil {
		log.Error(requestCtx, msgFailedToServe, zap.Error(err))
		return httperr.Write(c, err)
	}

	h.cookie.clear(c)

	return sendJSON(c, fiber.StatusOK, dto.MessageResponse{Message: msgLoggedOut})
}

func sendJSON(c fiber.Ctx, status int, body any) error {
	if err := c.Status(status).JSON(body); err != nil {
		return fmt.Errorf("%s: %w", msgErrSendResponse, err)
	}
	return nil
}
