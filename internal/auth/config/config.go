// Package config содержит конфигурацию для аутентификационного сервиса.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	pkgconfig "taskflow/pkg/config"
	"taskflow/pkg/logger"
)

// Константы ошибок и сообщений для конфигурации.
const (
	LogConfigLoaded     = "authentication service configuration loaded"
	ErrFailedLoadConfig = "failed to load configuration"
	ErrInvalidConfig    = "invalid configuration"

	serviceName   = "auth"
	configFileEnv = "AUTH_CONFIG_FILE"
)

// Ошибки валидации конфигурации.
var (
	ErrMissingSecret         = errors.New("jwt signing secret must not be empty")
	ErrSameSecrets           = errors.New("access and refresh secrets must differ")
	ErrRevocationTTLTooShort = errors.New("revocation ttl must cover token lifetime")
	ErrRotationThreshold     = errors.New("rotation threshold must be positive and below refresh token ttl")
	ErrNonPositiveTTL        = errors.New("token ttl must be positive")
)

// Config представляет полную конфигурацию приложения.
type Config struct {
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Revocation RevocationConfig `yaml:"revocation"`
	HTTP       HTTPConfig       `yaml:"http"`
	Cookie     CookieConfig     `yaml:"cookie"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Logging    LoggingConfig    `yaml:"logging"`
	Shutdown   ShutdownConfig   `yaml:"shutdown"`
}

// Load загружает конфигурацию из переменных окружения (или файла из AUTH_CONFIG_FILE)
// и проверяет ее согласованность.
func Load(ctx context.Context) (*Config, error) {
	log := logger.Log(ctx)

	cfg, err := pkgconfig.Load[Config](ctx, serviceName, os.Getenv(configFileEnv))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		log.Error(ctx, ErrInvalidConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrInvalidConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("grpc_address", cfg.GRPC.GetAddress()),
		zap.String("jwt_algorithm", cfg.JWT.Algorithm),
		zap.Duration("access_token_ttl", cfg.JWT.AccessTokenTTL),
		zap.Duration("refresh_token_ttl", cfg.JWT.RefreshTokenTTL),
		zap.Duration("rotation_threshold", cfg.JWT.RotationThreshold),
		zap.Duration("revocation_access_ttl", cfg.Revocation.AccessTTL),
		zap.Duration("revocation_refresh_ttl", cfg.Revocation.RefreshTTL),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}

// Validate проверяет ограничения, которые нельзя выразить тегами.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		errs = append(errs, ErrMissingSecret)
	} else if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, ErrSameSecrets)
	}

	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		errs = append(errs, ErrNonPositiveTTL)
	}

	if c.JWT.RotationThreshold <= 0 || c.JWT.RotationThreshold >= c.JWT.RefreshTokenTTL {
		errs = append(errs, ErrRotationThreshold)
	}

	if c.Revocation.AccessTTL < c.JWT.AccessTokenTTL {
		errs = append(errs, fmt.Errorf("%w: access %s < %s",
			ErrRevocationTTLTooShort, c.Revocation.AccessTTL, c.JWT.AccessTokenTTL))
	}
	if c.Revocation.RefreshTTL < c.JWT.RefreshTokenTTL {
		errs = append(errs, fmt.Errorf("%w: refresh %s < %s",
			ErrRevocationTTLTooShort, c.Revocation.RefreshTTL, c.JWT.RefreshTokenTTL))
	}

	return errors.Join(errs...)
}
