// Package services предоставляет реализации кодека токенов и проверки паролей,
// а также фабрику для их создания.
package services

import (
	"fmt"

	"taskflow/internal/auth/domain/services"
	svc "taskflow/internal/auth/ports/services"
)

// ServiceFactory создает все необходимые сервисы для аутентификации.
type ServiceFactory struct {
	passwordService svc.PasswordService
	tokenService    svc.TokenService
}

// NewServiceFactory создает фабрику сервисов из параметров токенов и стоимости bcrypt.
func NewServiceFactory(tokenCfg services.JWTConfig, bcryptCost int, opts ...Option) (*ServiceFactory, error) {
	tokenService, err := NewJWT(tokenCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating service factory: %w", err)
	}

	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		tokenService:    tokenService,
	}, nil
}

// PasswordService возвращает сервис для работы с паролями.
func (f *ServiceFactory) PasswordService() svc.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис для работы с токенами.
func (f *ServiceFactory) TokenService() svc.TokenService {
	return f.tokenService
}
