package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/deppfellow/fnguard/internal/auth"
	"github.com/deppfellow/fnguard/internal/errs"
	"github.com/deppfellow/fnguard/internal/middleware"
	"github.com/deppfellow/fnguard/internal/server"
	"github.com/deppfellow/fnguard/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
)

// Handler is the base handler type that holds shared application dependencies.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// FunctionFunc is a typed function body. It receives a validated request.
type FunctionFunc[Req any, Res any] func(c echo.Context, req *Req) (Res, error)

// Option configures a hosted function.
type Option func(*options)

type options struct {
	requireAuth bool
}

// WithAuth rejects invocations without a caller id (UNAUTHENTICATED).
func WithAuth() Option {
	return func(o *options) {
		o.requireAuth = true
	}
}

type invocationStyle string

const (
	styleCallable invocationStyle = "callable"
	styleRequest  invocationStyle = "request"
)

// messageBadRequest is sent when the body is not valid JSON.
const messageBadRequest = "Bad Request"

type callableResponse struct {
	Result any `json:"result"`
}

// EchoResponder adapts an Echo context to validation.JSONResponder.
type EchoResponder struct {
	c echo.Context
}

// NewEchoResponder returns a responder writing to c.
func NewEchoResponder(c echo.Context) EchoResponder {
	return EchoResponder{c: c}
}

// WriteJSON writes body with the given status.
func (r EchoResponder) WriteJSON(status int, body any) error {
	return r.c.JSON(status, body)
}

// Callable hosts fn as a callable function.
//
// Usage:
//
//	r.POST("/callable/createProfile", handler.Callable("createProfile", schema, fn, handler.WithAuth()))
func Callable[Req any, Res any](
	name string,
	schema *validation.StructSchema[Req],
	fn FunctionFunc[Req, Res],
	opts ...Option,
) echo.HandlerFunc {
	o := newOptions(opts)
	return func(c echo.Context) error {
		return handleFunction(c, name, styleCallable, o, schema, fn)
	}
}

// OnRequest hosts fn as an HTTP-style function.
func OnRequest[Req any, Res any](
	name string,
	schema *validation.StructSchema[Req],
	fn FunctionFunc[Req, Res],
	opts ...Option,
) echo.HandlerFunc {
	o := newOptions(opts)
	return func(c echo.Context) error {
		return handleFunction(c, name, styleRequest, o, schema, fn)
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// handleFunction is the shared execution pipeline of every hosted function.
func handleFunction[Req any, Res any](
	c echo.Context,
	name string,
	style invocationStyle,
	o options,
	schema *validation.StructSchema[Req],
	fn FunctionFunc[Req, Res],
) error {
	start := time.Now()
	ctx := c.Request().Context()

	txn := newrelic.FromContext(ctx)
	if txn != nil {
		txn.AddAttribute("function.name", name)
		txn.AddAttribute("function.style", string(style))
	}

	logger := middleware.GetLogger(c).With().
		Str("function", name).
		Str("style", string(style)).
		Logger()

	logger.Debug().Msg("handling invocation")

	if o.requireAuth {
		if _, err := auth.RequireUser(ctx); err != nil {
			logger.Warn().Msg("invocation without caller id rejected")
			return err
		}
	}

	payload, err := readPayload(c, style)
	if err != nil {
		return err
	}

	// Only HTTP-style functions answer validation failures themselves.
	var responder validation.JSONResponder
	if style == styleRequest {
		responder = NewEchoResponder(c)
	}

	validationStart := time.Now()
	req, handled, err := validation.Bind(ctx, schema, payload, responder)
	validationDuration := time.Since(validationStart)

	if err != nil || handled {
		logger.Warn().
			Err(err).
			Bool("responded", handled).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := fn(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("function execution failed")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
	}

	logger.Info().
		Dur("validation_duration", validationDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("invocation completed")

	if style == styleCallable {
		return c.JSON(http.StatusOK, callableResponse{Result: result})
	}
	return c.JSON(http.StatusOK, result)
}

// readPayload extracts the raw payload from the request body.
//
// Callable bodies wrap the payload in "data", which may be missing: the
// payload is then nil. HTTP-style bodies are the payload itself and an empty
// body counts as {}.
func readPayload(c echo.Context, style invocationStyle) (any, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read request body")
	}

	if len(bytes.TrimSpace(body)) == 0 {
		if style == styleCallable {
			return nil, nil
		}
		return map[string]any{}, nil
	}

	if style == styleCallable {
		var envelope struct {
			Data any `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, errs.NewInvalidArgumentError(messageBadRequest, nil)
		}
		return envelope.Data, nil
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errs.NewInvalidArgumentError(messageBadRequest, nil)
	}
	return payload, nil
}
