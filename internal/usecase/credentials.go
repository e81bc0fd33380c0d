package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
)

var ErrEmptyCredential = errors.New("api key and secret must not be empty")

// CredentialsUseCase stores a user's exchange API key pair. Values are kept
// in plain text.
type CredentialsUseCase struct {
	store drepo.CredentialStore
}

func NewCredentialsUseCase(store drepo.CredentialStore) *CredentialsUseCase {
	return &CredentialsUseCase{store: store}
}

func (uc *CredentialsUseCase) Save(ctx context.Context, userID, key, secret string) error {
	key = strings.TrimSpace(key)
	secret = strings.TrimSpace(secret)
	if key == "" || secret == "" {
		return ErrEmptyCredential
	}
	if err := uc.store.Save(ctx, userID, models.Credentials{Key: key, Secret: secret}); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Get returns the stored pair. Missing values come back empty.
func (uc *CredentialsUseCase) Get(ctx context.Context, userID string) (models.Credentials, error) {
	c, err := uc.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return models.Credentials{}, nil
		}
		return models.Credentials{}, fmt.Errorf("get credentials: %w", err)
	}
	return c, nil
}
