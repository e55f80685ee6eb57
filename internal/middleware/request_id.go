package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader is the HTTP header used to store the request correlation ID.
	RequestIDHeader = "X-Request-ID"

	// ExecutionIDHeader is set by function platforms on every invocation.
	ExecutionIDHeader = "Function-Execution-Id"

	// RequestIDKey is the internal key used to store the ID in Echo context.
	RequestIDKey = "request_id"
)

// RequestID returns an Echo middleware that ensures each invocation has a
// correlation id.
//
// The id is taken from X-Request-ID, then from the platform's execution id,
// and generated as a UUID when neither is present. It is stored in the Echo
// context and echoed back in X-Request-ID so callers can quote it.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := invocationID(c)
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

func invocationID(c echo.Context) string {
	header := c.Request().Header
	for _, name := range []string{RequestIDHeader, ExecutionIDHeader} {
		if id := header.Get(name); id != "" {
			return id
		}
	}
	return uuid.New().String()
}

// GetRequestID retrieves the request ID from Echo context.
//
// Returns empty string if not set.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
