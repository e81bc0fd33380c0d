package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	"github.com/winnervic367/trading-analyser/internal/usecase"
	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
	xlogger "github.com/winnervic367/trading-analyser/pkg/logger"
	"github.com/winnervic367/trading-analyser/pkg/util"
)

// SignalsHandler serves the market registry and the signal query facade.
type SignalsHandler struct {
	logger *xlogger.Logger
	uc     *usecase.SignalsUseCase
}

func NewSignalsHandler(logger *xlogger.Logger, uc *usecase.SignalsUseCase) *SignalsHandler {
	return &SignalsHandler{logger: logger.With("signals_handler"), uc: uc}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/markets/:type", h.Markets)
	g.GET("/markets/:type/:id", h.Instrument)

	g.GET("/signals", h.Signals)
	g.GET("/signals/history", h.History)
	g.GET("/signals/:id", h.Signal)
	g.POST("/signals/reload", h.Reload)
}

func (h *SignalsHandler) Markets(c echo.Context) error {
	req := &models.MarketPathRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.MarketsByType(c.Request().Context(), models.MarketType(req.Type))
	if err != nil {
		return h.fail(c, "markets", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Instrument(c echo.Context) error {
	req := &models.MarketPathRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Instrument(c.Request().Context(), models.MarketType(req.Type), req.ID)
	if err != nil {
		return h.fail(c, "instrument", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.FilteredSignals(c.Request().Context(), models.MarketType(req.MarketType), req.TimeFrame)
	if err != nil {
		return h.fail(c, "signals", err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *SignalsHandler) Signal(c echo.Context) error {
	res, err := h.uc.SignalByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, "signal", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	from, ok := parseBound(req.From)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.FieldError("from", "from must be RFC3339 or unix seconds"))
	}
	to, ok := parseBound(req.To)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.FieldError("to", "to must be RFC3339 or unix seconds"))
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("to must not be before from"))
	}

	res, err := h.uc.History(c.Request().Context(), models.MarketType(req.MarketType), from, to)
	if err != nil {
		return h.fail(c, "history", err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *SignalsHandler) Reload(c echo.Context) error {
	h.uc.Reload(c.Request().Context())
	return xhttp.NoContentResponse(c)
}

func (h *SignalsHandler) fail(c echo.Context, op string, err error) error {
	if !isClientError(err) {
		h.logger.Error(op+" usecase error", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, toAppError(err))
}

// parseBound accepts an empty string as an open bound.
func parseBound(s string) (t time.Time, ok bool) {
	if s == "" {
		return time.Time{}, true
	}
	return util.ParseTime(s)
}
