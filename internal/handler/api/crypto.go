package api

import (
	"github.com/labstack/echo/v4"

	"github.com/winnervic367/trading-analyser/internal/domain/models"
	"github.com/winnervic367/trading-analyser/internal/usecase"
	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
	xlogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

// CryptoHandler proxies the market-data provider. Responses always carry
// data: upstream failures are replaced with generated series.
type CryptoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.MarketDataUseCase
}

func NewCryptoHandler(logger *xlogger.Logger, uc *usecase.MarketDataUseCase) *CryptoHandler {
	return &CryptoHandler{logger: logger.With("crypto_handler"), uc: uc}
}

func (h *CryptoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/crypto")
	g.GET("/markets", h.Markets)
	g.GET("/:id/history", h.History)
	g.GET("/:id", h.Detail)
}

func (h *CryptoHandler) Markets(c echo.Context) error {
	req := &models.CryptoMarketsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res := h.uc.TopCryptos(c.Request().Context(), req.Limit)
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=30")
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *CryptoHandler) History(c echo.Context) error {
	req := &models.HistoricalSeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.uc.HistoricalSeries(c.Request().Context(), req.ID, req.Days, req.Interval))
}

func (h *CryptoHandler) Detail(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Details(c.Request().Context(), c.Param("id")))
}
