package config

import (
	"fmt"
	"time"

	pkgredis "taskflow/pkg/db/redis"
	"taskflow/pkg/resilience"
)

// RedisConfig содержит настройки хранилища отозванных токенов и кэша профилей.
type RedisConfig struct {
	Host         string        `yaml:"host" env:"AUTH_REDIS_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"AUTH_REDIS_PORT" env-default:"6379"`
	Password     string        `yaml:"password" env:"AUTH_REDIS_PASSWORD" env-default:""`
	DB           int           `yaml:"db" env:"AUTH_REDIS_DB" env-default:"0"`
	PoolSize     int           `yaml:"pool_size" env:"AUTH_REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"AUTH_REDIS_MIN_IDLE_CONNS" env-default:"2"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"AUTH_REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"AUTH_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"AUTH_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	ProfileTTL   time.Duration `yaml:"profile_ttl" env:"AUTH_REDIS_PROFILE_TTL" env-default:"5m"`

	RetryAttempts    int           `yaml:"retry_attempts" env:"AUTH_REDIS_RETRY_ATTEMPTS" env-default:"3"`
	RetryBackoff     time.Duration `yaml:"retry_backoff" env:"AUTH_REDIS_RETRY_BACKOFF" env-default:"50ms"`
	BreakerThreshold int           `yaml:"breaker_threshold" env:"AUTH_REDIS_BREAKER_THRESHOLD" env-default:"5"`
	BreakerTimeout   time.Duration `yaml:"breaker_timeout" env:"AUTH_REDIS_BREAKER_TIMEOUT" env-default:"10s"`
}

// GetAddress возвращает адрес Redis в формате host:port.
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ClientConfig преобразует настройки в конфигурацию общего клиента Redis.
func (r *RedisConfig) ClientConfig() *pkgredis.Config {
	return &pkgredis.Config{
		Address:      r.GetAddress(),
		Password:     r.Password,
		DB:           r.DB,
		PoolSize:     r.PoolSize,
		MinIdleConns: r.MinIdleConns,
		DialTimeout:  r.DialTimeout,
		ReadTimeout:  r.ReadTimeout,
		WriteTimeout: r.WriteTimeout,
	}
}

// BreakerConfig возвращает настройки Circuit Breaker для вызовов Redis.
func (r *RedisConfig) BreakerConfig() resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.ErrorThreshold = r.BreakerThreshold
	cfg.Timeout = r.BreakerTimeout
	return cfg
}

// RetryConfig возвращает настройки повторов для вызовов Redis.
func (r *RedisConfig) RetryConfig() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = r.RetryAttempts
	cfg.InitialBackoff = r.RetryBackoff
	return cfg
}
