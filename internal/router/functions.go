package router

import (
	"github.com/deppfellow/fnguard/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerFunctionRoutes registers every hosted function under both
// invocation styles.
func registerFunctionRoutes(r *echo.Echo, h *handler.Handlers) {
	callable := r.Group("/callable")
	callable.POST("/createProfile", h.Profile.CreateCallable())

	onRequest := r.Group("/http")
	onRequest.POST("/createProfile", h.Profile.CreateHTTP())
}
