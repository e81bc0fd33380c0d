package api

import (
	"github.com/labstack/echo/v4"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	"github.com/winnervic367/trading-analyser/internal/middleware"
	"github.com/winnervic367/trading-analyser/internal/service/ratelimit"
	"github.com/winnervic367/trading-analyser/internal/usecase"
	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
	xlogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

// AuthHandler serves the demo account flow and per-user trading credentials.
type AuthHandler struct {
	logger  *xlogger.Logger
	auth    *usecase.AuthUseCase
	creds   *usecase.CredentialsUseCase
	limiter *ratelimit.Limiter
}

func NewAuthHandler(logger *xlogger.Logger, auth *usecase.AuthUseCase, creds *usecase.CredentialsUseCase, limiter *ratelimit.Limiter) *AuthHandler {
	return &AuthHandler{logger: logger.With("auth_handler"), auth: auth, creds: creds, limiter: limiter}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	var mw []echo.MiddlewareFunc
	if h.limiter != nil {
		mw = append(mw, h.limiter.Middleware())
	}
	requireAuth := middleware.RequireAuth(h.auth)

	g := e.Group("/api/auth", mw...)
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout, requireAuth)
	g.GET("/me", h.Me, requireAuth)

	u := e.Group("/api", requireAuth)
	u.GET("/credentials", h.GetCredentials)
	u.PUT("/credentials", h.SaveCredentials)
}

func (h *AuthHandler) Register(c echo.Context) error {
	req := &models.RegisterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	u, err := h.auth.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return h.fail(c, "register", err)
	}
	return xhttp.CreatedResponse(c, u)
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := &models.LoginRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	u, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, "login", err)
	}
	return xhttp.SuccessResponse(c, models.LoginResponse{User: u, Token: token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), middleware.Token(c)); err != nil {
		return h.fail(c, "logout", err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.auth.CurrentUser(c.Request().Context(), middleware.Token(c))
	if err != nil {
		return h.fail(c, "me", err)
	}
	return xhttp.SuccessResponse(c, u)
}

func (h *AuthHandler) GetCredentials(c echo.Context) error {
	res, err := h.creds.Get(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "get credentials", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AuthHandler) SaveCredentials(c echo.Context) error {
	req := &models.CredentialsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.creds.Save(c.Request().Context(), middleware.UserID(c), req.Key, req.Secret); err != nil {
		return h.fail(c, "save credentials", err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *AuthHandler) fail(c echo.Context, op string, err error) error {
	if !isClientError(err) {
		h.logger.Error(op+" usecase error", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, toAppError(err))
}
