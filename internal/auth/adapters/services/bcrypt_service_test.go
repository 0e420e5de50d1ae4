package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	adapters "taskflow/internal/auth/adapters/services"
	"taskflow/internal/auth/domain/services"
)

const (
	testPassword = "correct-pw"

	msgHashVerifiable     = "created hash should be verifiable"
	msgSaltedHashes       = "hashes of same password should differ due to salt"
	msgNoMatchExpected    = "wrong password must not match"
	msgMalformedExpected  = "error should be ErrMalformedHash"
	msgEmptyPasswordError = "should return error for empty password"
)

func TestBcryptHash(t *testing.T) {
	ctx := context.Background()
	service := adapters.NewBcrypt(bcrypt.MinCost)

	first, err := service.Hash(ctx, testPassword)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(first), []byte(testPassword)), msgHashVerifiable)

	second, err := service.Hash(ctx, testPassword)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, msgSaltedHashes)

	short, err := service.Hash(ctx, "x")
	require.NoError(t, err, "length policy is not enforced by the hasher")
	assert.NotEmpty(t, short)
}

func TestBcryptHashErrors(t *testing.T) {
	ctx := context.Background()
	service := adapters.NewBcrypt(bcrypt.MinCost)

	hash, err := service.Hash(ctx, "")
	require.ErrorIs(t, err, services.ErrEmptyPassword, msgEmptyPasswordError)
	assert.Empty(t, hash)

	hash, err = service.Hash(ctx, strings.Repeat("a", 73))
	require.ErrorIs(t, err, services.ErrHashingFailed)
	assert.Empty(t, hash)
}

func TestBcryptCostFallback(t *testing.T) {
	ctx := context.Background()

	for _, cost := range []int{0, bcrypt.MaxCost + 1} {
		hash, err := adapters.NewBcrypt(cost).Hash(ctx, testPassword)
		require.NoError(t, err)

		got, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, got)
	}
}

func TestBcryptVerify(t *testing.T) {
	ctx := context.Background()
	service := adapters.NewBcrypt(bcrypt.MinCost)

	hash, err := service.Hash(ctx, testPassword)
	require.NoError(t, err)

	tests := []struct {
		name      string
		password  string
		hash      string
		wantMatch bool
		wantErr   error
	}{
		{name: "match", password: testPassword, hash: hash, wantMatch: true},
		{name: "mismatch", password: "wrong-pw", hash: hash},
		{name: "empty password", password: "", hash: hash},
		{name: "empty hash", password: testPassword, hash: "", wantErr: services.ErrMalformedHash},
		{name: "short hash", password: testPassword, hash: "$2a$", wantErr: services.ErrMalformedHash},
		{name: "not a bcrypt hash", password: testPassword, hash: strings.Repeat("z", 60), wantErr: services.ErrMalformedHash},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			match, err := service.Verify(ctx, tc.password, tc.hash)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr, msgMalformedExpected)
				assert.False(t, match)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantMatch, match, msgNoMatchExpected)
		})
	}
}

func TestServiceFactory(t *testing.T) {
	factory, err := adapters.NewServiceFactory(testJWTConfig(), bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotNil(t, factory.PasswordService())
	assert.NotNil(t, factory.TokenService())

	badCfg := testJWTConfig()
	badCfg.RefreshSecret = badCfg.AccessSecret
	factory, err = adapters.NewServiceFactory(badCfg, bcrypt.MinCost)
	require.ErrorIs(t, err, services.ErrInvalidJWTConfig)
	assert.Nil(t, factory)
}
