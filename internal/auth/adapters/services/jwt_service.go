package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
	svc "taskflow/internal/auth/ports/services"
	"taskflow/pkg/logger"
)

// Константы для работы с JWT.
const (
	methodIssue          = "Issue"
	methodVerify         = "Verify"
	msgIssuingToken      = "issuing token"
	msgVerifyingToken    = "verifying token"
	msgTokenIssued       = "token issued successfully"
	msgTokenVerified     = "token verified successfully"
	msgTokenExpired      = "token has expired"
	msgTokenRejected     = "token rejected"
	msgUnexpectedClaims  = "token claims do not match the expected shape"
	msgClassMismatch     = "token class does not match"
	errSigningToken      = "error signing token"
	errCtxIssuingToken   = "issuing token"
	errCtxVerifyingToken = "verifying token"
	errCtxDecodingClaims = "decoding claims"
	errCtxNewJWT         = "creating jwt service"
	defaultAlgorithm     = "HS256"
	jwtSegmentCount      = 3
)

// ErrInvalidAlgorithm представляет статическую ошибку неверного алгоритма подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// Claims используется для адаптации между доменной моделью и библиотекой JWT.
type Claims struct {
	Class   string `json:"cls"`
	Refresh bool   `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// strictClaims перечисляет все допустимые поля полезной нагрузки.
type strictClaims struct {
	Subject   string           `json:"sub"`
	ID        string           `json:"jti"`
	ExpiresAt *jwt.NumericDate `json:"exp"`
	IssuedAt  *jwt.NumericDate `json:"iat"`
	Class     string           `json:"cls"`
	Refresh   *bool            `json:"refresh"`
}

// ServiceJWT реализует кодек токенов с раздельными ключами для access и refresh.
type ServiceJWT struct {
	config services.JWTConfig
	method jwt.SigningMethod
	now    func() time.Time
}

// Option настраивает ServiceJWT.
type Option func(*ServiceJWT)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *ServiceJWT) {
		if now != nil {
			s.now = now
		}
	}
}

// NewJWT создает новый экземпляр сервиса JWT.
func NewJWT(cfg services.JWTConfig, opts ...Option) (svc.TokenService, error) {
	if cfg.Algorithm == "" {
		cfg.Algorithm = defaultAlgorithm
	}

	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q", errCtxNewJWT, ErrInvalidAlgorithm, cfg.Algorithm)
	}

	switch {
	case len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0:
		return nil, fmt.Errorf("%s: %w: empty secret", errCtxNewJWT, services.ErrInvalidJWTConfig)
	case bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret):
		return nil, fmt.Errorf("%s: %w: access and refresh secrets must differ", errCtxNewJWT, services.ErrInvalidJWTConfig)
	case cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0:
		return nil, fmt.Errorf("%s: %w: non-positive ttl", errCtxNewJWT, services.ErrInvalidJWTConfig)
	}

	s := &ServiceJWT{
		config: cfg,
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *ServiceJWT) keyAndTTL(class entities.TokenClass) ([]byte, time.Duration, error) {
	switch class {
	case entities.ClassAccess:
		return s.config.AccessSecret, s.config.AccessTokenTTL, nil
	case entities.ClassRefresh:
		return s.config.RefreshSecret, s.config.RefreshTokenTTL, nil
	default:
		return nil, 0, fmt.Errorf("%w: %q", services.ErrUnknownTokenClass, class)
	}
}

// Issue подписывает новый токен класса class для subject со свежим jti.
func (s *ServiceJWT) Issue(ctx context.Context, class entities.TokenClass, subject string) (*services.IssuedToken, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodIssue),
		zap.String("class", class.String()),
	)
	log.Debug(ctx, msgIssuingToken)

	key, ttl, err := s.keyAndTTL(class)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxIssuingToken, services.ErrGeneratingJWTToken, err)
	}
	if subject == "" {
		return nil, fmt.Errorf("%s: %w: empty subject", errCtxIssuingToken, services.ErrGeneratingJWTToken)
	}

	now := s.now()
	claims := Claims{
		Class:   class.String(),
		Refresh: class == entities.ClassRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(key)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxIssuingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenIssued, zap.String("jti", claims.ID), zap.Time("expiresAt", claims.ExpiresAt.Time))
	return &services.IssuedToken{
		Token:     signed,
		JTI:       claims.ID,
		Class:     class,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify проверяет подпись, алгоритм, срок действия и состав полей токена класса class.
func (s *ServiceJWT) Verify(ctx context.Context, class entities.TokenClass, tokenString string) (*services.JWTClaims, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodVerify),
		zap.String("class", class.String()),
	)
	log.Debug(ctx, msgVerifyingToken)

	key, _, err := s.keyAndTTL(class)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxVerifyingToken, services.ErrInvalidJWTToken, err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug(ctx, msgTokenExpired)
			return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrExpiredJWTToken)
		}
		log.Debug(ctx, msgTokenRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxVerifyingToken, services.ErrInvalidJWTToken, err)
	}
	if !token.Valid {
		log.Debug(ctx, msgTokenRejected)
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidJWTToken)
	}

	if err := checkClaimShape(parser, tokenString, class); err != nil {
		log.Debug(ctx, msgUnexpectedClaims, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxVerifyingToken, services.ErrInvalidJWTToken, err)
	}

	if claims.Class != class.String() || claims.Refresh != (class == entities.ClassRefresh) {
		log.Debug(ctx, msgClassMismatch, zap.String("tokenClass", claims.Class))
		return nil, fmt.Errorf("%s: %w: class mismatch", errCtxVerifyingToken, services.ErrInvalidJWTToken)
	}

	result := jwtToDomainClaims(claims, class)
	log.Debug(ctx, msgTokenVerified, zap.String("jti", result.JTI))
	return result, nil
}

// checkClaimShape повторно декодирует полезную нагрузку, отклоняя лишние поля
// и отсутствие обязательных.
func checkClaimShape(parser *jwt.Parser, tokenString string, class entities.TokenClass) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != jwtSegmentCount {
		return fmt.Errorf("%s: unexpected segment count %d", errCtxDecodingClaims, len(parts))
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxDecodingClaims, err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var wire strictClaims
	if err := dec.Decode(&wire); err != nil {
		return fmt.Errorf("%s: %w", errCtxDecodingClaims, err)
	}

	switch {
	case wire.ExpiresAt == nil:
		return fmt.Errorf("%s: missing exp", errCtxDecodingClaims)
	case wire.Class == "":
		return fmt.Errorf("%s: missing cls", errCtxDecodingClaims)
	case class == entities.ClassRefresh && (wire.Refresh == nil || !*wire.Refresh):
		return fmt.Errorf("%s: refresh marker missing", errCtxDecodingClaims)
	case class == entities.ClassAccess && wire.Refresh != nil:
		return fmt.Errorf("%s: refresh marker on access token", errCtxDecodingClaims)
	}
	return nil
}

// jwtToDomainClaims преобразует claims формата библиотеки JWT в доменные claims.
func jwtToDomainClaims(claims *Claims, class entities.TokenClass) *services.JWTClaims {
	var expiresAt, issuedAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return &services.JWTClaims{
		Subject:   claims.Subject,
		JTI:       claims.ID,
		Class:     class,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
}
