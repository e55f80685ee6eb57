package middleware

import (
	"strings"

	"github.com/deppfellow/fnguard/internal/auth"
	"github.com/deppfellow/fnguard/internal/server"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the Echo context key holding the caller id, if any.
const UserIDKey = "user_id"

// CallerMiddleware builds the auth.CallerContext of every request.
//
// It does not verify credentials. The caller id is read from the header
// configured in functions.uid_header, which the gateway in front of this
// service sets after authenticating the request.
type CallerMiddleware struct {
	server *server.Server
}

// NewCallerMiddleware constructs a CallerMiddleware.
func NewCallerMiddleware(s *server.Server) *CallerMiddleware {
	return &CallerMiddleware{server: s}
}

// CallerContext stores an auth.CallerContext in the request context.
// Anonymous requests get a CallerContext with a nil Auth.
func (cm *CallerMiddleware) CallerContext() echo.MiddlewareFunc {
	header := cm.server.Config.Functions.UIDHeader

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			cc := &auth.CallerContext{RawRequest: req}

			if uid := strings.TrimSpace(req.Header.Get(header)); uid != "" {
				cc.Auth = &auth.AuthData{UID: uid}
				c.Set(UserIDKey, uid)
			}

			c.SetRequest(req.WithContext(auth.WithCaller(req.Context(), cc)))

			return next(c)
		}
	}
}

// GetCaller returns the CallerContext of the request, never nil.
func GetCaller(c echo.Context) *auth.CallerContext {
	if cc, ok := auth.FromContext(c.Request().Context()); ok && cc != nil {
		return cc
	}
	return &auth.CallerContext{RawRequest: c.Request()}
}

// GetUserID reads the caller id from Echo context.
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}
