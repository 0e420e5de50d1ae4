package config

import (
	"fmt"
	"time"
)

// HTTPConfig конфигурация HTTP API.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"AUTH_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"AUTH_HTTP_PORT" env-default:"8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"AUTH_HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"AUTH_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	CORSOrigins  []string      `yaml:"cors_origins" env:"AUTH_HTTP_CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173,http://localhost:8080"`
}

// GetAddress возвращает адрес для HTTP сервера.
func (h *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// CookieConfig описывает атрибуты cookie с refresh токеном.
type CookieConfig struct {
	Name   string `yaml:"name" env:"AUTH_COOKIE_NAME" env-default:"refresh-Token"`
	Domain string `yaml:"domain" env:"AUTH_COOKIE_DOMAIN" env-default:"localhost"`
	Path   string `yaml:"path" env:"AUTH_COOKIE_PATH" env-default:"/"`
	Secure bool   `yaml:"secure" env:"AUTH_COOKIE_SECURE" env-default:"true"`
}
