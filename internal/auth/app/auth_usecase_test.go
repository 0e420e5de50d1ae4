package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskflow/internal/auth/app"
	"taskflow/internal/auth/domain/entities"
	"taskflow/internal/auth/domain/services"
	"taskflow/internal/auth/ports/api"
)

var (
	errDatabase = errors.New("database error")
	errRedis    = errors.New("redis: connection refused")
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	users       *mockUserRepository
	revocations *mockRevocationStore
	passwords   *mockPasswordService
	tokens      *mockTokenService
}

func newTestUseCase() (api.AuthUseCase, *testDeps) {
	deps := &testDeps{
		users:       new(mockUserRepository),
		revocations: new(mockRevocationStore),
		passwords:   new(mockPasswordService),
		tokens:      new(mockTokenService),
	}
	uc := app.NewAuthUseCase(deps.users, deps.revocations, deps.passwords, deps.tokens, services.SessionConfig{
		RotationThreshold:    24 * time.Hour,
		AccessRevocationTTL:  time.Hour,
		RefreshRevocationTTL: 7 * 24 * time.Hour,
		Now:                  func() time.Time { return fixedNow },
	})
	return uc, deps
}

func (d *testDeps) assertExpectations(t *testing.T) {
	t.Helper()
	d.users.AssertExpectations(t)
	d.revocations.AssertExpectations(t)
	d.passwords.AssertExpectations(t)
	d.tokens.AssertExpectations(t)
}

func issued(class entities.TokenClass, token, jti string, ttl time.Duration) *services.IssuedToken {
	return &services.IssuedToken{Token: token, JTI: jti, Class: class, ExpiresAt: fixedNow.Add(ttl)}
}

func claims(class entities.TokenClass, subject, jti string, remaining time.Duration) *services.JWTClaims {
	return &services.JWTClaims{
		Subject:   subject,
		JTI:       jti,
		Class:     class,
		IssuedAt:  fixedNow.Add(-time.Minute),
		ExpiresAt: fixedNow.Add(remaining),
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		email      string
		password   string
		setupMocks func(d *testDeps)
		expectedID int64
		expectErr  error
	}{
		{
			name:     "success",
			username: "alice",
			email:    "alice@example.com",
			password: "password123",
			setupMocks: func(d *testDeps) {
				d.users.On("ExistsByUsernameOrEmail", mock.Anything, "alice", "alice@example.com").Return(false, nil).Once()
				d.passwords.On("Hash", mock.Anything, "password123").Return("$2a$hash", nil).Once()
				d.users.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
					return u.Username == "alice" && u.Email == "alice@example.com" && u.PasswordHash == "$2a$hash"
				})).Return(int64(7), nil).Once()
			},
			expectedID: 7,
		},
		{
			name:     "email is optional",
			username: "bob",
			password: "password123",
			setupMocks: func(d *testDeps) {
				d.users.On("ExistsByUsernameOrEmail", mock.Anything, "bob", "").Return(false, nil).Once()
				d.passwords.On("Hash", mock.Anything, "password123").Return("$2a$hash", nil).Once()
				d.users.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
					return u.Username == "bob" && u.Email == ""
				})).Return(int64(8), nil).Once()
			},
			expectedID: 8,
		},
		{
			name:       "empty username",
			email:      "alice@example.com",
			password:   "password123",
			setupMocks: func(_ *testDeps) {},
			expectErr:  entities.ErrEmptyUsername,
		},
		{
			name:       "invalid email",
			username:   "alice",
			email:      "not-an-email",
			password:   "password123",
			setupMocks: func(_ *testDeps) {},
			expectErr:  entities.ErrInvalidEmail,
		},
		{
			name:       "short password",
			username:   "alice",
			email:      "alice@example.com",
			password:   "abc1",
			setupMocks: func(_ *testDeps) {},
			expectErr:  entities.ErrPasswordTooShort,
		},
		{
			name:       "password without digit",
			username:   "alice",
			email:      "alice@example.com",
			password:   "passwordonly",
			setupMocks: func(_ *testDeps) {},
			expectErr:  entities.ErrPasswordTooWeak,
		},
		{
			name:     "user already exists",
			username: "alice",
			email:    "alice@example.com",
			password: "password123",
			setupMocks: func(d *testDeps) {
				d.users.On("ExistsByUsernameOrEmail", mock.Anything, "alice", "alice@example.com").Return(true, nil).Once()
			},
			expectErr: services.ErrUserAlreadyExists,
		},
		{
			name:     "unique violation on insert",
			username: "alice",
			email:    "alice@example.com",
			password: "password123",
			setupMocks: func(d *testDeps) {
				d.users.On("ExistsByUsernameOrEmail", mock.Anything, "alice", "alice@example.com").Return(false, nil).Once()
				d.passwords.On("Hash", mock.Anything, "password123").Return("$2a$hash", nil).Once()
				d.users.On("Create", mock.Anything, mock.Anything).Return(int64(0), services.ErrUserAlreadyExists).Once()
			},
			expectErr: services.ErrConflict,
		},
		{
			name:     "user store unavailable",
			username: "alice",
			email:    "alice@example.com",
			password: "password123",
			setupMocks: func(d *testDeps) {
				d.users.On("ExistsByUsernameOrEmail", mock.Anything, "alice", "alice@example.com").Return(false, errDatabase).Once()
			},
			expectErr: services.ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, deps := newTestUseCase()
			tt.setupMocks(deps)

			id, err := uc.Register(context.Background(), tt.username, tt.email, tt.password)

			if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}
			deps.assertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	alice := &entities.User{ID: 1, Username: "alice", PasswordHash: "$2a$hash"}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(d *testDeps)
		expectErr  error
	}{
		{
			name:     "success",
			username: "alice",
			password: "correct-pw",
			setupMocks: func(d *testDeps) {
				d.users.On("FindByUsername", mock.Anything, "alice").Return(alice, true, nil).Once()
				d.passwords.On("Verify", mock.Anything, "correct-pw", "$2a$hash").Return(true, nil).Once()
				d.tokens.On("Issue", mock.Anything, entities.ClassAccess, "alice").
					Return(issued(entities.ClassAccess, "access-1", "a-jti", 30*time.Minute), nil).Once()
				d.tokens.On("Issue", mock.Anything, entities.ClassRefresh, "alice").
					Return(issued(entities.ClassRefresh, "refresh-1", "r-jti", 7*24*time.Hour), nil).Once()
			},
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong",
			setupMocks: func(d *testDeps) {
				d.users.On("FindByUsername", mock.Anything, "alice").Return(alice, true, nil).Once()
				d.passwords.On("Verify", mock.Anything, "wrong", "$2a$hash").Return(false, nil).Once()
			},
			expectErr: services.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "mallory",
			password: "whatever1",
			setupMocks: func(d *testDeps) {
				d.users.On("FindByUsername", mock.Anything, "mallory").Return(nil, false, nil).Once()
			},
			expectErr: services.ErrInvalidCredentials,
		},
		{
			name:       "empty password",
			username:   "alice",
			setupMocks: func(_ *testDeps) {},
			expectErr:  services.ErrInvalidCredentials,
		},
		{
			name:     "user store unavailable",
			username: "alice",
			password: "correct-pw",
			setupMocks: func(d *testDeps) {
				d.users.On("FindByUsername", mock.Anything, "alice").Return(nil, false, errDatabase).Once()
			},
			expectErr: services.ErrUserStoreUnavailable,
		},
		{
			name:     "token issue fails",
			username: "alice",
			password: "correct-pw",
			setupMocks: func(d *testDeps) {
				d.users.On("FindByUsername", mock.Anything, "alice").Return(alice, true, nil).Once()
				d.passwords.On("Verify", mock.Anything, "correct-pw", "$2a$hash").Return(true, nil).Once()
				d.tokens.On("Issue", mock.Anything, entities.ClassAccess, "alice").
					Return(nil, services.ErrGeneratingJWTToken).Once()
			},
			expectErr: services.ErrTokenGenerationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, deps := newTestUseCase()
			tt.setupMocks(deps)

			pair, err := uc.Login(context.Background(), tt.username, tt.password)

			if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, pair)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "alice", pair.Username)
				assert.Equal(t, "access-1", pair.AccessToken)
				assert.Equal(t, "refresh-1", pair.RefreshToken)
				assert.Equal(t, fixedNow.Add(30*time.Minute), pair.AccessExpiresAt)
			}
			deps.assertExpectations(t)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(d *testDeps)
		expectErr  error
	}{
		{
			name: "valid and not revoked",
			setupMocks: func(d *testDeps) {
				d.tokens.On("Verify", mock.Anything, entities.ClassAccess, "tok").
					Return(claims(entities.ClassAccess, "alice", "a-jti", 10*time.Minute), nil).Once()
				d.revocations.On("IsRevoked", mock.Anything, "a-jti").Return(false, nil).Once()
			},
		},
		{
			name: "codec rejects token",
			setupMocks: func(d *testDeps) {
				d.tokens.On("Verify", mock.Anything, entities.ClassAccess, "tok").
					Return(nil, services.ErrExpiredJWTToken).Once()
			},
			expectErr: services.ErrTokenRejected,
		},
		{
			name: "missing jti",
			setupMocks: func(d *testDeps) {
				d.tokens.On("Verify", mock.Anything, entities.ClassAccess, "tok").
					Return(claims(entities.ClassAccess, "alice", "", 10*time.Minute), nil).Once()
			},
			expectErr: services.ErrMalformedClaims,
		},
		{
			name: "missing subject",
			setupMocks: func(d *testDeps) {
				d.tokens.On("Verify", mock.Anything, entities.ClassAccess, "tok").
					Return(claims(entities.ClassAccess, "", "a-jti", 10*time.Minute), nil).Once()
			},
			expectErr: services.ErrUnauthorized,
		},
		{
			name: "revoked",
			setupMocks: func(d *testDeps) {
				d.tokens.On("Verify", mock.Anything, entities.ClassAccess, "tok").
					Return(claims(entities.ClassAccess, "alice", "a-jti", 10*time.Minute), nil).Once()
				d.revocations.On("IsRevoked", mock.Anything, "a-jti").Return(true, nil).Once()
			},
			expectErr: services.ErrForbidden,
		},
		{
			name: "revocation store down fails closed",
			setupMocks: func(d *testDeps) {
				d.tokens.On("Verify", mock.Anything, entities.ClassAccess, "tok").
					Return(claims(entities.ClassAccess, "alice", "a-jti", 10*time.Minute), nil).Once()
				d.revocations.On("IsRevoked", mock.Anything, "a-jti").Return(false, errRedis).Once()
			},
			expectErr: services.ErrRevocationUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, deps := newTestUseCase()
			tt.setupMocks(deps)

			identity, err := uc.Authenticate(context.Background(), entities.ClassAccess, "tok")

			if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, identity)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "alice", identity.Username)
				assert.Equal(t, "a-jti", identity.JTI)
				assert.Equal(t, entities.ClassAccess, identity.Class)
			}
			deps.assertExpectations(t)
		})
	}
}

func TestRefresh(t *testing.T) {
	t.Run("keeps refresh token when far from expiry", func(t *testing.T) {
		uc, deps := newTestUseCase()
		deps.tokens.On("Verify", mock.Anything, entities.ClassRefresh, "refresh-1").
			Return(claims(entities.ClassRefresh, "alice", "r-jti", 30*time.Hour), nil).Once()
		deps.revocations.On("IsRevoked", mock.Anything, "r-jti").Return(false, nil).Once()
		deps.tokens.On("Issue", mock.Anything, entities.ClassAccess, "alice").
			Return(issued(entities.ClassAccess, "access-2", "a-jti-2", 30*time.Minute), nil).Once()

		result, err := uc.Refresh(context.Background(), "refresh-1")

		require.NoError(t, err)
		assert.False(t, result.Rotated)
		assert.Equal(t, "access-2", result.AccessToken)
		assert.Empty(t, result.RefreshToken)
		deps.revocations.AssertNotCalled(t, "MarkRevoked", mock.Anything, mock.Anything)
		deps.assertExpectations(t)
	})

	t.Run("rotates refresh token near expiry", func(t *testing.T) {
		uc, deps := newTestUseCase()
		deps.tokens.On("Verify", mock.Anything, entities.ClassRefresh, "refresh-1").
			Return(claims(entities.ClassRefresh, "alice", "r-jti", 2*time.Hour), nil).Once()
		deps.revocations.On("IsRevoked", mock.Anything, "r-jti").Return(false, nil).Once()
		deps.tokens.On("Issue", mock.Anything, entities.ClassAccess, "alice").
			Return(issued(entities.ClassAccess, "access-2", "a-jti-2", 30*time.Minute), nil).Once()
		deps.tokens.On("Issue", mock.Anything, entities.ClassRefresh, "alice").
			Return(issued(entities.ClassRefresh, "refresh-2", "r-jti-2", 7*24*time.Hour), nil).Once()
		deps.revocations.On("MarkRevoked", mock.Anything, []entities.RevocationEntry{
			{JTI: "r-jti", TTL: 7 * 24 * time.Hour},
		}).Return(nil).Once()

		result, err := uc.Refresh(context.Background(), "refresh-1")

		require.NoError(t, err)
		assert.True(t, result.Rotated)
		assert.Equal(t, "refresh-2", result.RefreshToken)
		assert.Equal(t, fixedNow.Add(7*24*time.Hour), result.RefreshExpiresAt)
		deps.assertExpectations(t)
	})

	t.Run("rotation fails when old token cannot be revoked", func(t *testing.T) {
		uc, deps := newTestUseCase()
		deps.tokens.On("Verify", mock.Anything, entities.ClassRefresh, "refresh-1").
			Return(claims(entities.ClassRefresh, "alice", "r-jti", time.Hour), nil).Once()
		deps.revocations.On("IsRevoked", mock.Anything, "r-jti").Return(false, nil).Once()
		deps.tokens.On("Issue", mock.Anything, mock.Anything, "alice").
			Return(issued(entities.ClassAccess, "t", "j", time.Minute), nil).Twice()
		deps.revocations.On("MarkRevoked", mock.Anything, mock.Anything).Return(errRedis).Once()

		result, err := uc.Refresh(context.Background(), "refresh-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrUpstream)
		assert.Nil(t, result)
		deps.assertExpectations(t)
	})

	t.Run("revoked refresh token is forbidden", func(t *testing.T) {
		uc, deps := newTestUseCase()
		deps.tokens.On("Verify", mock.Anything, entities.ClassRefresh, "refresh-1").
			Return(claims(entities.ClassRefresh, "alice", "r-jti", 30*time.Hour), nil).Once()
		deps.revocations.On("IsRevoked", mock.Anything, "r-jti").Return(true, nil).Once()

		_, err := uc.Refresh(context.Background(), "refresh-1")

		assert.ErrorIs(t, err, services.ErrRevokedToken)
		deps.assertExpectations(t)
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes both tokens in one write", func(t *testing.T) {
		uc, deps := newTestUseCase()
		deps.revocations.On("MarkRevoked", mock.Anything, []entities.RevocationEntry{
			{JTI: "a-jti", TTL: time.Hour},
			{JTI: "r-jti", TTL: 7 * 24 * time.Hour},
		}).Return(nil).Once()

		require.NoError(t, uc.Logout(context.Background(), "a-jti", "r-jti"))
		deps.assertExpectations(t)
	})

	t.Run("empty jti", func(t *testing.T) {
		uc, deps := newTestUseCase()

		err := uc.Logout(context.Background(), "a-jti", "")

		assert.ErrorIs(t, err, services.ErrMalformedClaims)
		deps.assertExpectations(t)
	})

	t.Run("store unavailable", func(t *testing.T) {
		uc, deps := newTestUseCase()
		deps.revocations.On("MarkRevoked", mock.Anything, mock.Anything).Return(errRedis).Once()

		err := uc.Logout(context.Background(), "a-jti", "r-jti")

		assert.ErrorIs(t, err, services.ErrRevocationUnavailable)
		assert.ErrorIs(t, err, errRedis)
		deps.assertExpectations(t)
	})
}
