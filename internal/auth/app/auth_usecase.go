// Package app содержит сценарии сервиса аутентификации: регистрацию, вход,
// проверку токенов, обмен refresh токена и выход.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
	"taskflow/internal/auth/ports/api"
	"taskflow/internal/auth/ports/repositories"
	svc "taskflow/internal/auth/ports/services"
	"taskflow/pkg/logger"
)

const (
	methodRegister     = "Register"
	methodLogin        = "Login"
	methodAuthenticate = "Authenticate"
	methodRefresh      = "Refresh"
	methodLogout       = "Logout"

	msgStartRegistration  = "starting user registration"
	msgValidationFailed   = "registration input rejected"
	msgUserExists         = "username or email already exists"
	msgUserRegistered     = "user registered successfully"
	msgLoginAttempt       = "login attempt"
	msgLoginUnknownUser   = "login attempt with unknown username"
	msgLoginWrongPassword = "login attempt with wrong password"
	msgUserLoggedIn       = "user logged in successfully"
	msgTokenRejected      = "token rejected by codec"
	msgMalformedClaims    = "token is missing subject or jti"
	msgRevokedTokenUsed   = "attempt to use revoked token"
	msgRefreshingTokens   = "refreshing tokens"
	msgRefreshNoRotation  = "access token refreshed, refresh token kept"
	msgRefreshRotated     = "access token refreshed, refresh token rotated"
	msgProcessingLogout   = "processing logout request"
	msgUserLoggedOut      = "user logged out successfully"

	msgErrCheckExistingUser  = "failed to check existing user"
	msgErrHashPassword       = "failed to hash password"
	msgErrCreateUser         = "failed to create user"
	msgErrFindingUser        = "error finding user by username"
	msgErrVerifyingPassword  = "error verifying password"
	msgErrIssuingToken       = "failed to issue token"
	msgErrRevocationCheck    = "revocation store unavailable during check"
	msgErrRevokingOldRefresh = "failed to revoke rotated refresh token"
	msgErrRevokingSession    = "failed to revoke session tokens"

	errCtxValidating         = "validating registration"
	errCtxCheckingUser       = "checking existing user"
	errCtxHashingPassword    = "hashing password"
	errCtxCreatingUser       = "creating user"
	errCtxFindingUser        = "finding user"
	errCtxVerifyingPassword  = "verifying password"
	errCtxInvalidCredentials = "invalid credentials"
	errCtxIssuingTokens      = "issuing tokens"
	errCtxVerifyingToken     = "verifying token"
	errCtxCheckingClaims     = "checking claims"
	errCtxCheckingRevocation = "checking revocation"
	errCtxAuthenticating     = "authenticating refresh token"
	errCtxRevokingOldRefresh = "revoking rotated refresh token"
	errCtxRevokingSession    = "revoking session"
)

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	revocations repositories.RevocationStore
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	cfg         services.SessionConfig
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	revocations repositories.RevocationStore,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	cfg services.SessionConfig,
) api.AuthUseCase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		revocations: revocations,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		cfg:         cfg,
	}
}

// Register создает нового пользователя и возвращает его идентификатор.
func (a *AuthUseCaseImpl) Register(ctx context.Context, username, email, password string) (int64, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("username", username))
	log.Debug(ctx, msgStartRegistration)

	for _, err := range []error{validateUsername(username), validateEmail(email), validatePassword(password)} {
		if err != nil {
			log.Debug(ctx, msgValidationFailed, zap.Error(err))
			return 0, fmt.Errorf("%s: %w", errCtxValidating, err)
		}
	}

	exists, err := a.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return 0, fmt.Errorf("%s: %w: %w", errCtxCheckingUser, services.ErrUserStoreUnavailable, err)
	}
	if exists {
		log.Debug(ctx, msgUserExists)
		return 0, fmt.Errorf("%s: %w", errCtxCheckingUser, services.ErrUserAlreadyExists)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	id, err := a.userRepo.Create(ctx, &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			log.Debug(ctx, msgUserExists)
			return 0, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return 0, fmt.Errorf("%s: %w: %w", errCtxCreatingUser, services.ErrUserStoreUnavailable, err)
	}

	log.Info(ctx, msgUserRegistered, zap.Int64("userID", id))
	return id, nil
}

// Login проверяет учетные данные и выдает пару токенов.
// Неизвестный пользователь и неверный пароль неразличимы для вызывающего.
func (a *AuthUseCaseImpl) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("username", username))
	log.Debug(ctx, msgLoginAttempt)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	user, found, err := a.userRepo.FindByUsername(ctx, username)
	if err != nil {
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxFindingUser, services.ErrUserStoreUnavailable, err)
	}
	if !found {
		log.Info(ctx, msgLoginUnknownUser)
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Info(ctx, msgLoginWrongPassword)
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	access, err := a.issue(ctx, log, entities.ClassAccess, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := a.issue(ctx, log, entities.ClassRefresh, user.Username)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, msgUserLoggedIn)
	return &services.TokenPair{
		Username:         user.Username,
		AccessToken:      access.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// Authenticate проверяет токен класса class: подпись и срок действия,
// наличие subject и jti, отсутствие jti в списке отозванных.
// Ошибка хранилища отзывов приводит к отказу.
func (a *AuthUseCaseImpl) Authenticate(
	ctx context.Context,
	class entities.TokenClass,
	token string,
) (*entities.AuthenticatedIdentity, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate), zap.String("class", class.String()))

	claims, err := a.tokenSvc.Verify(ctx, class, token)
	if err != nil {
		log.Debug(ctx, msgTokenRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrTokenRejected)
	}

	if claims.Subject == "" || claims.JTI == "" {
		log.Debug(ctx, msgMalformedClaims)
		return nil, fmt.Errorf("%s: %w", errCtxCheckingClaims, services.ErrMalformedClaims)
	}

	revoked, err := a.revocations.IsRevoked(ctx, claims.JTI)
	if err != nil {
		log.Error(ctx, msgErrRevocationCheck, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxCheckingRevocation, services.ErrRevocationUnavailable, err)
	}
	if revoked {
		log.Info(ctx, msgRevokedTokenUsed, zap.String("username", claims.Subject))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingRevocation, services.ErrRevokedToken)
	}

	return &entities.AuthenticatedIdentity{
		Username:  claims.Subject,
		JTI:       claims.JTI,
		Class:     class,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Refresh выдает новый access токен. Если refresh токену осталось жить меньше
// порога ротации, выдается новый refresh токен, а старый отзывается; при ошибке
// отзыва вызов завершается ошибкой и новые токены не возвращаются.
func (a *AuthUseCaseImpl) Refresh(ctx context.Context, refreshToken string) (*services.RefreshResult, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRefresh))
	log.Debug(ctx, msgRefreshingTokens)

	identity, err := a.Authenticate(ctx, entities.ClassRefresh, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticating, err)
	}
	log = log.With(zap.String("username", identity.Username))

	access, err := a.issue(ctx, log, entities.ClassAccess, identity.Username)
	if err != nil {
		return nil, err
	}

	result := &services.RefreshResult{
		Username:        identity.Username,
		AccessToken:     access.Token,
		AccessExpiresAt: access.ExpiresAt,
	}

	remaining := identity.ExpiresAt.Sub(a.cfg.Now())
	if remaining >= a.cfg.RotationThreshold {
		log.Debug(ctx, msgRefreshNoRotation, zap.Duration("remaining", remaining))
		return result, nil
	}

	refresh, err := a.issue(ctx, log, entities.ClassRefresh, identity.Username)
	if err != nil {
		return nil, err
	}

	err = a.revocations.MarkRevoked(ctx, entities.RevocationEntry{
		JTI: identity.JTI,
		TTL: a.cfg.RefreshRevocationTTL,
	})
	if err != nil {
		log.Error(ctx, msgErrRevokingOldRefresh, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxRevokingOldRefresh, services.ErrRevocationUnavailable, err)
	}

	result.RefreshToken = refresh.Token
	result.RefreshExpiresAt = refresh.ExpiresAt
	result.Rotated = true

	log.Info(ctx, msgRefreshRotated, zap.Duration("remaining", remaining))
	return result, nil
}

// Logout отзывает access и refresh токены сессии одной атомарной записью.
func (a *AuthUseCaseImpl) Logout(ctx context.Context, accessJTI, refreshJTI string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout))
	log.Debug(ctx, msgProcessingLogout)

	if accessJTI == "" || refreshJTI == "" {
		return fmt.Errorf("%s: %w", errCtxRevokingSession, services.ErrMalformedClaims)
	}

	err := a.revocations.MarkRevoked(ctx,
		entities.RevocationEntry{JTI: accessJTI, TTL: a.cfg.AccessRevocationTTL},
		entities.RevocationEntry{JTI: refreshJTI, TTL: a.cfg.RefreshRevocationTTL},
	)
	if err != nil {
		log.Error(ctx, msgErrRevokingSession, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", errCtxRevokingSession, services.ErrRevocationUnavailable, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

func (a *AuthUseCaseImpl) issue(
	ctx context.Context,
	log *logger.Logger,
	class entities.TokenClass,
	subject string,
) (*services.IssuedToken, error) {
	token, err := a.tokenSvc.Issue(ctx, class, subject)
	if err != nil {
		log.Error(ctx, msgErrIssuingToken, zap.String("class", class.String()), zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxIssuingTokens, services.ErrTokenGenerationFailed, err)
	}
	return token, nil
}
