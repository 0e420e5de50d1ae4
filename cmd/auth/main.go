// Package main реализует точку входа службы аутентификации.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"taskflow/internal/auth/adapters/grpc"
	authhttp "taskflow/internal/auth/adapters/http"
	"taskflow/internal/auth/adapters/http/handlers"
	"taskflow/internal/auth/adapters/postgres"
	redisadapter "taskflow/internal/auth/adapters/redis"
	"taskflow/internal/auth/adapters/services"
	"taskflow/internal/auth/app"
	"taskflow/internal/auth/config"
	"taskflow/internal/auth/db"
	pkgredis "taskflow/pkg/db/redis"
	"taskflow/pkg/logger"
	"taskflow/pkg/resilience"
	"taskflow/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "AUTH_LOGGER_MODE"
	EnvLoggerLevel = "AUTH_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "failed to connect to Redis"
	ErrInitServices         = "failed to initialize services"
	ErrStartGRPC            = "failed to start gRPC server"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "authentication service started"
	LogServiceShutdownDone = "authentication service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing Redis connection"
	LogStoppingGRPC        = "stopping gRPC server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStartingGRPC        = "starting gRPC health server"
)

const revocationServiceName = "redis-revocation"

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		defer func() {
			if exitCode == 0 {
				log.Info(ctx, LogServiceShutdownDone)
			}
		}()

		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}
		// Хранилища закрываются на любом выходе, после остановки серверов.
		defer shutdown.Run(ctx, cfg.Shutdown.GetTimeout(), func(ctx context.Context) error {
			log.Info(ctx, LogClosingDB)
			database.Close(ctx)
			return nil
		})

		redisClient, err := pkgredis.NewClient(ctx, cfg.Redis.ClientConfig())
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			exitCode = 1
			return
		}
		defer shutdown.Run(ctx, cfg.Shutdown.GetTimeout(), func(ctx context.Context) error {
			log.Info(ctx, LogClosingRedis)
			return redisClient.Close(ctx)
		})

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		userRepo := postgres.NewRepositoryFactory(database.Pool()).UserRepository()
		revocations := redisadapter.NewResilientRevocationStore(
			redisadapter.NewRevocationStore(redisClient.RawClient()),
			resilience.NewServiceResilience(revocationServiceName, cfg.Redis.BreakerConfig(), cfg.Redis.RetryConfig()),
		)
		profiles := redisadapter.NewProfileCache(redisClient.RawClient(), cfg.Redis.ProfileTTL)

		log.Info(ctx, LogInitServices)
		serviceFactory, err := services.NewServiceFactory(cfg.JWT.TokenConfig(), cfg.JWT.BCryptCost)
		if err != nil {
			log.Error(ctx, ErrInitServices, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitUseCases)
		authUseCase := app.NewAuthUseCase(
			userRepo,
			revocations,
			serviceFactory.PasswordService(),
			serviceFactory.TokenService(),
			cfg.SessionConfig(),
		)
		userUseCase := app.NewUserUseCase(userRepo, profiles)

		log.Info(ctx, LogInitHTTPServer)
		httpApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})
		authhttp.SetupRouter(httpApp, authhttp.RouterDeps{
			Auth:  authUseCase,
			Users: userUseCase,
			Cookie: handlers.CookieSettings{
				Name:   cfg.Cookie.Name,
				Domain: cfg.Cookie.Domain,
				Path:   cfg.Cookie.Path,
				Secure: cfg.Cookie.Secure,
				MaxAge: cfg.JWT.RefreshTokenTTL,
			},
			CORSOrigins: cfg.HTTP.CORSOrigins,
		})

		log.Info(ctx, LogStartingGRPC)
		health := grpc.NewHealthReporter(cfg.GRPC.HealthInterval,
			grpc.Probe{Name: "postgres", Check: database.Ping},
			grpc.Probe{Name: "redis", Check: redisClient.Ping},
		)
		grpcServer := grpc.New(&cfg.GRPC)
		grpcServer.RegisterService(health.Register)
		if err := grpcServer.Start(ctx); err != nil {
			log.Error(ctx, ErrStartGRPC, zap.Error(err))
			exitCode = 1
			return
		}

		healthCtx, stopHealth := context.WithCancel(ctx)
		defer stopHealth()
		go health.Run(healthCtx)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := httpApp.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return httpApp.ShutdownWithContext(ctx)
			},
			func(ctx context.Context) error {
				stopHealth()
				log.Info(ctx, LogStoppingGRPC)
				return grpcServer.Stop(ctx)
			},
		)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
