package middleware

import (
	"net/http"

	"github.com/deppfellow/fnguard/internal/errs"
	"github.com/deppfellow/fnguard/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups global middleware and the global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo's CORS middleware configured by server config.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger writes one "API" log line per request, with severity based
// on the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// When a handler returns an error the response is written later by
			// GlobalErrorHandler, so v.Status is not final yet.
			statusCode := v.Status
			if v.Error != nil {
				statusCode, _ = statusOf(v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns Echo's panic recovery middleware.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the HTTP server.
//
// Every error is rendered as a callable error envelope:
//
//	{ "error": { "status": "INVALID_ARGUMENT", "message": "...", "details": [...] } }
//
// Errors that are not *errs.ValidationError become INTERNAL; their real
// message is logged, never sent.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	status, verr := statusOf(err)

	logger := GetLogger(c)
	var e *zerolog.Event
	if status >= 500 {
		e = logger.Error().Stack()
	} else {
		e = logger.Warn()
	}
	e.Err(err).
		Int("status", status).
		Str("error_code", string(verr.Kind)).
		Msg(verr.Message)

	if !c.Response().Committed {
		if writeErr := c.JSON(status, errs.CallableErrorResponse{Error: verr}); writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}

// statusOf classifies err into the status and error body sent to clients.
func statusOf(err error) (int, *errs.ValidationError) {
	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		return errs.HTTPStatus(verr.Kind), verr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		message := http.StatusText(echoErr.Code)
		if echoErr.Code == http.StatusNotFound {
			message = "Route not found"
		}

		kind := errs.KindFromHTTPStatus(echoErr.Code)
		if kind == errs.KindInternal {
			return http.StatusInternalServerError, errs.NewInternalError()
		}
		return echoErr.Code, &errs.ValidationError{Kind: kind, Message: message}
	}

	return http.StatusInternalServerError, errs.NewInternalError()
}
