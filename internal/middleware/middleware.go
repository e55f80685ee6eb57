// Package middleware contains the Echo middleware shared by every function:
// request ids, caller context extraction, request-scoped logging, New Relic
// tracing and the global error handler.
package middleware
