// Package auth checks that a function is invoked by an identified caller.
//
// It does not authenticate anyone. The caller identity is established
// upstream (gateway, platform or an earlier middleware) and handed over as a
// CallerContext. This package only answers "is there a user id?".
package auth

import (
	"context"
	"net/http"

	"github.com/deppfellow/fnguard/internal/errs"
)

// AuthData is the identity of an authenticated caller.
type AuthData struct {
	// UID is the caller's unique identifier.
	UID string
}

// CallerContext describes the caller of the current invocation.
// Auth is nil for anonymous calls.
type CallerContext struct {
	Auth       *AuthData
	RawRequest *http.Request
}

// UID returns the caller id, or "" when there is none.
// It is safe to call on a nil *CallerContext.
func (cc *CallerContext) UID() string {
	if cc == nil || cc.Auth == nil {
		return ""
	}
	return cc.Auth.UID
}

// ValidateUserAuth fails with UNAUTHENTICATED "No user id" unless the caller
// carries a non-empty uid.
func ValidateUserAuth(cc *CallerContext) error {
	if cc.UID() == "" {
		return errs.NewUnauthenticatedError(errs.MessageNoUserID)
	}
	return nil
}

type key struct{}

// WithCaller returns a copy of ctx carrying cc.
func WithCaller(ctx context.Context, cc *CallerContext) context.Context {
	return context.WithValue(ctx, key{}, cc)
}

// FromContext returns the CallerContext stored in ctx.
func FromContext(ctx context.Context) (*CallerContext, bool) {
	cc, ok := ctx.Value(key{}).(*CallerContext)
	return cc, ok
}

// RequireUser returns the caller id stored in ctx, failing like
// ValidateUserAuth when there is none.
func RequireUser(ctx context.Context) (string, error) {
	cc, _ := FromContext(ctx)
	if err := ValidateUserAuth(cc); err != nil {
		return "", err
	}
	return cc.UID(), nil
}
