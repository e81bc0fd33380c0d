package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winnervic367/trading-analyser/internal/domain/models"
	"github.com/winnervic367/trading-analyser/internal/repository"
	"github.com/winnervic367/trading-analyser/pkg/cache"
)

func TestCredentials(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()
	uc := NewCredentialsUseCase(repository.NewCacheCredentialStore(c))
	ctx := context.Background()

	got, err := uc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{}, got)

	assert.ErrorIs(t, uc.Save(ctx, "u1", "   ", "secret"), ErrEmptyCredential)
	assert.ErrorIs(t, uc.Save(ctx, "u1", "key", ""), ErrEmptyCredential)

	require.NoError(t, uc.Save(ctx, "u1", " key ", "secret"))
	got, err = uc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{Key: "key", Secret: "secret"}, got)
}
