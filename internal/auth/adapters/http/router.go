// Package http содержит компоненты HTTP сервера аутентификации.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"taskflow/internal/auth/adapters/http/handlers"
	"taskflow/internal/auth/adapters/http/httperr"
	"taskflow/internal/auth/adapters/http/middleware"
	"taskflow/internal/auth/ports/api"
)

const messageRouteNotFound = "Route not found"

// RouterDeps - зависимости HTTP маршрутов.
type RouterDeps struct {
	Auth        api.AuthUseCase
	Users       api.UserUseCase
	Cookie      handlers.CookieSettings
	CORSOrigins []string
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps RouterDeps) {
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Cookie)
	userHandler := handlers.NewUserHandler(deps.Users)
	requireAccess := middleware.NewAuthMiddleware(deps.Auth)

	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
	}))

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Post("/register", authHandler.Register)
	app.Post("/login", authHandler.Login)
	app.Post("/refresh", authHandler.Refresh)

	// Защищенные маршруты. В fiber v3 middleware маршрута передаются после обработчика
	// и выполняются до него.
	app.Post("/logout", authHandler.Logout, requireAccess)
	app.Get("/users/me", userHandler.Me, requireAccess)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return httperr.Send(c, fiber.StatusNotFound, messageRouteNotFound)
	})
}
