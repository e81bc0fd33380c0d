package api

import (
	"github.com/labstack/echo/v4"

	xhttp "github.com/winnervic367/trading-analyser/pkg/http"
)

// Router registers a set of handlers on one Echo instance.
type Router []xhttp.Handler

func NewRouter(handlers ...xhttp.Handler) Router {
	return Router(handlers)
}

func (r Router) RegisterRoutes(e *echo.Echo) {
	for _, h := range r {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}
}
