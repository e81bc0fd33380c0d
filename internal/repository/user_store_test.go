package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
	"github.com/winnervic367/trading-analyser/pkg/cache"
	"github.com/winnervic367/trading-analyser/pkg/metrics"
)

func TestCacheUserStore(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()
	s := NewCacheUserStore(c)
	ctx := context.Background()

	u := models.StoredUser{User: models.User{ID: "u1", Email: "a@b.c", Name: "A"}, PasswordHash: "h"}
	require.NoError(t, s.Create(ctx, u))
	assert.ErrorIs(t, s.Create(ctx, u), drepo.ErrAlreadyExists)

	got, err := s.FindByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = s.FindByEmail(ctx, "missing@b.c")
	assert.ErrorIs(t, err, drepo.ErrNotFound)
}

func TestCacheSessionAndCredentialStores(t *testing.T) {
	c := cache.NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	sessions := NewCacheSessionStore(c)
	revoked, err := sessions.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, revoked)
	require.NoError(t, sessions.Revoke(ctx, "t1", time.Minute))
	revoked, err = sessions.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, revoked)

	creds := NewCacheCredentialStore(c)
	_, err = creds.Get(ctx, "u1")
	assert.ErrorIs(t, err, drepo.ErrNotFound)
	require.NoError(t, creds.Save(ctx, "u1", models.Credentials{Key: "k", Secret: "s"}))
	got, err := creds.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.Credentials{Key: "k", Secret: "s"}, got)
}

type notifierFunc func(context.Context, models.Event) error

func (f notifierFunc) Notify(ctx context.Context, evt models.Event) error { return f(ctx, evt) }

func TestFanOutNotifierContinuesPastFailures(t *testing.T) {
	var delivered []string
	fan := NewFanOutNotifier(metrics.Nop{},
		NamedNotifier{Name: "broken", Notifier: notifierFunc(func(context.Context, models.Event) error {
			return errors.New("down")
		})},
		NamedNotifier{Name: "ws", Notifier: notifierFunc(func(_ context.Context, evt models.Event) error {
			delivered = append(delivered, string(evt.Type))
			return nil
		})},
	)

	err := fan.Notify(context.Background(), models.Event{Type: models.EventDataRefreshed})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, []string{"data.refreshed"}, delivered)
}
