package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
	"taskflow/internal/auth/ports/api"
	"taskflow/internal/auth/ports/repositories"
	"taskflow/pkg/logger"
)

const (
	methodGetUserProfile = "GetUserProfile"

	msgRequestingProfile = "requesting user profile"
	msgProfileFromCache  = "user profile served from cache"
	msgProfileNotFound   = "user profile not found"
	msgProfileRetrieved  = "user profile successfully retrieved"
	msgWarnCacheRead     = "profile cache read failed"
	msgWarnCacheWrite    = "profile cache write failed"
	msgErrFindingProfile = "failed to find user by username"

	errCtxFetchingProfile = "fetching user profile"
)

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	userRepo repositories.UserRepository
	cache    repositories.ProfileCache
}

// NewUserUseCase создает новый экземпляр сервиса пользователя.
// cache может быть nil.
func NewUserUseCase(userRepo repositories.UserRepository, cache repositories.ProfileCache) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo: userRepo,
		cache:    cache,
	}
}

// GetUserProfile получает профиль пользователя по имени. Хэш пароля в результат не попадает.
func (u *UserUseCaseImpl) GetUserProfile(ctx context.Context, username string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetUserProfile), zap.String("username", username))
	log.Debug(ctx, msgRequestingProfile)

	if u.cache != nil {
		cached, ok, err := u.cache.Get(ctx, username)
		switch {
		case err != nil:
			log.Warn(ctx, msgWarnCacheRead, zap.Error(err))
		case ok:
			log.Debug(ctx, msgProfileFromCache)
			return publicProfile(cached), nil
		}
	}

	user, found, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil {
		log.Error(ctx, msgErrFindingProfile, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxFetchingProfile, services.ErrUserStoreUnavailable, err)
	}
	if !found {
		log.Debug(ctx, msgProfileNotFound)
		return nil, fmt.Errorf("%s: %w", errCtxFetchingProfile, services.ErrUserNotFound)
	}

	profile := publicProfile(user)
	if u.cache != nil {
		if err := u.cache.Set(ctx, profile); err != nil {
			log.Warn(ctx, msgWarnCacheWrite, zap.Error(err))
		}
	}

	log.Info(ctx, msgProfileRetrieved)
	return profile, nil
}

func publicProfile(user *entities.User) *entities.User {
	profile := *user
	profile.PasswordHash = ""
	return &profile
}
