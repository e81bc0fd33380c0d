package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/winnervic367/trading-analyser/internal/usecase"
	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
)

const (
	ContextUserID = "user_id"
	ContextToken  = "token"
)

// Authenticator resolves a bearer token to its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*usecase.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token. On success the
// user id and raw token are stored on the echo context.
func RequireAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c)
			if !ok {
				return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("missing bearer token"))
			}
			claims, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError(usecase.ErrInvalidToken.Error()).WithError(err))
			}
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextToken, token)
			return next(c)
		}
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the id stored by RequireAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)
	return id
}

// Token returns the raw token stored by RequireAuth.
func Token(c echo.Context) string {
	t, _ := c.Get(ContextToken).(string)
	return t
}
