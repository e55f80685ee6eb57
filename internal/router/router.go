// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps function routes to their handlers.
package router

import (
	"github.com/deppfellow/fnguard/internal/handler"
	"github.com/deppfellow/fnguard/internal/middleware"
	"github.com/deppfellow/fnguard/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the full middleware chain.
//
// Order matters: the request id and caller context must exist before the
// context enhancer builds the request logger.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	r := echo.New()
	r.HideBanner = true
	r.HidePort = true
	r.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	r.Use(
		middlewares.Global.Recover(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Caller.CallerContext(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
	)

	registerSystemRoutes(r, h)
	registerFunctionRoutes(r, h)

	return r
}
