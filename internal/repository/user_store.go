package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
	"github.com/winnervic367/trading-analyser/pkg/cache"
)

const (
	userPrefix       = "user"
	sessionPrefix    = "revoked"
	credentialPrefix = "credentials"
)

// CacheUserStore keeps accounts as key-value records keyed by email.
type CacheUserStore struct {
	cache cache.Service
}

func NewCacheUserStore(c cache.Service) *CacheUserStore {
	return &CacheUserStore{cache: c}
}

var _ drepo.UserStore = (*CacheUserStore)(nil)

func (s *CacheUserStore) Create(ctx context.Context, u models.StoredUser) error {
	key := cache.GenerateKey(userPrefix, u.Email)
	exists, err := s.cache.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("user exists check: %w", err)
	}
	if exists {
		return drepo.ErrAlreadyExists
	}
	// zero expiration: kept for the life of the store
	return s.cache.Set(ctx, key, u, 0)
}

func (s *CacheUserStore) FindByEmail(ctx context.Context, email string) (models.StoredUser, error) {
	var u models.StoredUser
	if err := s.cache.Get(ctx, cache.GenerateKey(userPrefix, email), &u); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return models.StoredUser{}, drepo.ErrNotFound
		}
		return models.StoredUser{}, err
	}
	return u, nil
}

// CacheSessionStore records revoked token ids until they expire.
type CacheSessionStore struct {
	cache cache.Service
}

func NewCacheSessionStore(c cache.Service) *CacheSessionStore {
	return &CacheSessionStore{cache: c}
}

var _ drepo.SessionStore = (*CacheSessionStore)(nil)

func (s *CacheSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, cache.GenerateKey(sessionPrefix, tokenID), "1", ttl)
}

func (s *CacheSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.cache.Exists(ctx, cache.GenerateKey(sessionPrefix, tokenID))
}

// CacheCredentialStore keeps API key pairs in plain text.
type CacheCredentialStore struct {
	cache cache.Service
}

func NewCacheCredentialStore(c cache.Service) *CacheCredentialStore {
	return &CacheCredentialStore{cache: c}
}

var _ drepo.CredentialStore = (*CacheCredentialStore)(nil)

func (s *CacheCredentialStore) Save(ctx context.Context, userID string, c models.Credentials) error {
	return s.cache.Set(ctx, cache.GenerateKey(credentialPrefix, userID), c, 0)
}

func (s *CacheCredentialStore) Get(ctx context.Context, userID string) (models.Credentials, error) {
	var c models.Credentials
	if err := s.cache.Get(ctx, cache.GenerateKey(credentialPrefix, userID), &c); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return models.Credentials{}, drepo.ErrNotFound
		}
		return models.Credentials{}, err
	}
	return c, nil
}
