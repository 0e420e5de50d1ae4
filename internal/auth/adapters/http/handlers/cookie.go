package handlers

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

// CookieSettings описывает атрибуты cookie с refresh токеном.
type CookieSettings struct {
	Name   string
	Domain string
	Path   string
	Secure bool
	MaxAge time.Duration
}

func (s CookieSettings) set(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Domain:   s.Domain,
		Path:     s.Path,
		MaxAge:   int(s.MaxAge / time.Second),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s CookieSettings) clear(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Domain:   s.Domain,
		Path:     s.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
