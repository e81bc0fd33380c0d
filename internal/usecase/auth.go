package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	drepo "github.com/winnervic367/trading-analyser/internal/domain/repository"
	applogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const DefaultTokenTTL = 24 * time.Hour

// Claims are carried in issued tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// AuthUseCase is a demo login flow. Accounts are kept in the key-value cache.
type AuthUseCase struct {
	users    drepo.UserStore
	sessions drepo.SessionStore
	secret   []byte
	ttl      time.Duration
	logger   *applogger.Logger
	now      func() time.Time
}

func NewAuthUseCase(users drepo.UserStore, sessions drepo.SessionStore, secret string, ttl time.Duration, logger *applogger.Logger) *AuthUseCase {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = applogger.Nop()
	}
	return &AuthUseCase{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger.With("auth"),
		now:      time.Now,
	}
}

func (uc *AuthUseCase) Register(ctx context.Context, email, password, name string) (models.User, error) {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := models.StoredUser{
		User: models.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      strings.TrimSpace(name),
			CreatedAt: uc.now().UTC(),
		},
		PasswordHash: string(hash),
	}
	if err := uc.users.Create(ctx, u); err != nil {
		if errors.Is(err, drepo.ErrAlreadyExists) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	uc.logger.Info("user registered", applogger.String("user_id", u.ID))
	return u.User, nil
}

// Login verifies the password and issues a signed token.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (models.User, string, error) {
	u, err := uc.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := uc.issue(u.User)
	if err != nil {
		return models.User{}, "", err
	}
	return u.User, token, nil
}

// Logout revokes token until it would have expired anyway.
func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	claims, err := uc.parse(token)
	if err != nil {
		return err
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := uc.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Authenticate validates token and checks it has not been revoked.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := uc.parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := uc.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CurrentUser resolves token to its user.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, token string) (models.User, error) {
	claims, err := uc.Authenticate(ctx, token)
	if err != nil {
		return models.User{}, err
	}
	u, err := uc.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u.User, nil
}

func (uc *AuthUseCase) issue(u models.User) (string, error) {
	now := uc.now()
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (uc *AuthUseCase) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return uc.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
