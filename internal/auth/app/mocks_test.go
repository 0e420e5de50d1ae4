package app_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, bool, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*entities.User)
	return user, args.Bool(1), args.Error(2)
}

func (m *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

type mockRevocationStore struct {
	mock.Mock
}

func (m *mockRevocationStore) MarkRevoked(ctx context.Context, entries ...entities.RevocationEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *mockRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) Issue(ctx context.Context, class entities.TokenClass, subject string) (*services.IssuedToken, error) {
	args := m.Called(ctx, class, subject)
	token, _ := args.Get(0).(*services.IssuedToken)
	return token, args.Error(1)
}

func (m *mockTokenService) Verify(ctx context.Context, class entities.TokenClass, token string) (*services.JWTClaims, error) {
	args := m.Called(ctx, class, token)
	claims, _ := args.Get(0).(*services.JWTClaims)
	return claims, args.Error(1)
}

type mockProfileCache struct {
	mock.Mock
}

func (m *mockProfileCache) Get(ctx context.Context, username string) (*entities.User, bool, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*entities.User)
	return user, args.Bool(1), args.Error(2)
}

func (m *mockProfileCache) Set(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
