package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winnervic367/trading-analyser/internal/repository"
	"github.com/winnervic367/trading-analyser/pkg/cache"
)

func newAuth(t *testing.T) *AuthUseCase {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	return NewAuthUseCase(
		repository.NewCacheUserStore(c),
		repository.NewCacheSessionStore(c),
		"test-secret",
		time.Hour,
		nil,
	)
}

func TestAuthRegisterLoginLogout(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	u, err := uc.Register(ctx, " Trader@Example.com ", "hunter22", "Trader")
	require.NoError(t, err)
	assert.Equal(t, "trader@example.com", u.Email)
	assert.NotEmpty(t, u.ID)

	_, err = uc.Register(ctx, "trader@example.com", "other-pass", "Dup")
	assert.ErrorIs(t, err, ErrUserExists)

	_, _, err = uc.Login(ctx, "trader@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = uc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	logged, token, err := uc.Login(ctx, "TRADER@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	me, err := uc.CurrentUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "Trader", me.Name)

	claims, err := uc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	require.NoError(t, uc.Logout(ctx, token))
	_, err = uc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRejectsForeignTokens(t *testing.T) {
	uc := newAuth(t)
	other := newAuth(t)
	other.secret = []byte("another-secret")
	ctx := context.Background()

	_, err := other.Register(ctx, "a@b.c", "secret1", "A")
	require.NoError(t, err)
	_, token, err := other.Login(ctx, "a@b.c", "secret1")
	require.NoError(t, err)

	_, err = uc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = uc.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
