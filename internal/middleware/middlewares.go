package middleware

import (
	"github.com/deppfellow/fnguard/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server,
// so they are built once and wired in one place.
type Middlewares struct {
	Global          *GlobalMiddlewares
	Caller          *CallerMiddleware
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
}

// NewMiddlewares constructs all middleware components using the application container.
//
// When New Relic is not configured the tracing middleware degrades into a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Caller:          NewCallerMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
	}
}
