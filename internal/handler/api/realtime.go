package api

import (
	"github.com/labstack/echo/v4"

	"github.com/winnervic367/trading-analyser/internal/usecase"
	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
	xlogger "github.com/winnervic367/trading-analyser/pkg/logger"
)

// RealtimeHandler exposes the periodic driver.
type RealtimeHandler struct {
	logger  *xlogger.Logger
	updater *usecase.RealtimeUpdater
}

func NewRealtimeHandler(logger *xlogger.Logger, updater *usecase.RealtimeUpdater) *RealtimeHandler {
	return &RealtimeHandler{logger: logger.With("realtime_handler"), updater: updater}
}

func (h *RealtimeHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/realtime")
	g.GET("/status", h.Status)
	g.POST("/start", h.Start)
	g.POST("/stop", h.Stop)
	g.POST("/tick", h.Tick)
}

func (h *RealtimeHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.updater.Status())
}

func (h *RealtimeHandler) Start(c echo.Context) error {
	if err := h.updater.Start(); err != nil {
		h.logger.Error("start realtime updates", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not start realtime updates").WithError(err))
	}
	return xhttp.SuccessResponse(c, h.updater.Status())
}

func (h *RealtimeHandler) Stop(c echo.Context) error {
	h.updater.Stop()
	return xhttp.SuccessResponse(c, h.updater.Status())
}

// Tick runs one pass immediately, independent of the timer.
func (h *RealtimeHandler) Tick(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.updater.Tick(c.Request().Context()))
}
