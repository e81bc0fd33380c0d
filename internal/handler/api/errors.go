package api

import (
	"errors"

	"github.com/winnervic367/trading-analyser/internal/service/market"
	"github.com/winnervic367/trading-analyser/internal/usecase"
	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
)

// toAppError maps usecase sentinels onto HTTP errors. Anything unknown
// falls through and ends up as a 500.
func toAppError(err error) error {
	switch {
	case errors.Is(err, market.ErrUnknownMarketType):
		return xhttp.FieldError("type", err.Error()).WithError(err)
	case errors.Is(err, market.ErrInstrumentNotFound):
		return xhttp.NotFoundError("instrument not found").WithError(err)
	case errors.Is(err, usecase.ErrSignalNotFound):
		return xhttp.NotFoundError("signal not found").WithError(err)
	case errors.Is(err, usecase.ErrUserExists):
		return xhttp.ConflictError(err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials), errors.Is(err, usecase.ErrInvalidToken):
		return xhttp.UnauthorizedError(err.Error())
	case errors.Is(err, usecase.ErrEmptyCredential):
		return xhttp.BadRequestErrorf("invalid credential: %v", err)
	}
	return err
}

// isClientError reports whether err maps to a 4xx. Those are not logged at error level.
func isClientError(err error) bool {
	var appErr *xhttp.AppError
	return errors.As(toAppError(err), &appErr) && appErr.Status < 500
}
