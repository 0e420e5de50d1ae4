package config

import (
	"time"

	"taskflow/internal/auth/domain/services"
)

// JWTConfig содержит настройки выпуска токенов и хеширования паролей.
type JWTConfig struct {
	AccessSecret      string        `yaml:"access_secret" env:"AUTH_JWT_ACCESS_SECRET" env-required:"true"`
	RefreshSecret     string        `yaml:"refresh_secret" env:"AUTH_JWT_REFRESH_SECRET" env-required:"true"`
	Algorithm         string        `yaml:"algorithm" env:"AUTH_JWT_ALGORITHM" env-default:"HS256"`
	AccessTokenTTL    time.Duration `yaml:"access_token_ttl" env:"AUTH_JWT_ACCESS_TOKEN_TTL" env-default:"30m"`
	RefreshTokenTTL   time.Duration `yaml:"refresh_token_ttl" env:"AUTH_JWT_REFRESH_TOKEN_TTL" env-default:"168h"`
	RotationThreshold time.Duration `yaml:"rotation_threshold" env:"AUTH_JWT_ROTATION_THRESHOLD" env-default:"24h"`
	BCryptCost        int           `yaml:"bcrypt_cost" env:"AUTH_JWT_BCRYPT_COST" env-default:"12"`
}

// RevocationConfig задает время хранения записей об отзыве для каждого класса токенов.
type RevocationConfig struct {
	AccessTTL  time.Duration `yaml:"access_ttl" env:"AUTH_REVOCATION_ACCESS_TTL" env-default:"1h"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"AUTH_REVOCATION_REFRESH_TTL" env-default:"168h"`
}

// TokenConfig возвращает параметры кодека токенов.
func (c *JWTConfig) TokenConfig() services.JWTConfig {
	return services.JWTConfig{
		AccessSecret:    []byte(c.AccessSecret),
		RefreshSecret:   []byte(c.RefreshSecret),
		Algorithm:       c.Algorithm,
		AccessTokenTTL:  c.AccessTokenTTL,
		RefreshTokenTTL: c.RefreshTokenTTL,
	}
}

// SessionConfig собирает параметры жизненного цикла сессии.
func (c *Config) SessionConfig() services.SessionConfig {
	return services.SessionConfig{
		RotationThreshold:    c.JWT.RotationThreshold,
		AccessRevocationTTL:  c.Revocation.AccessTTL,
		RefreshRevocationTTL: c.Revocation.RefreshTTL,
	}
}
