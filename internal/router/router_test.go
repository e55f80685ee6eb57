package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/fnguard/internal/config"
	"github.com/deppfellow/fnguard/internal/handler"
	"github.com/deppfellow/fnguard/internal/logger"
	"github.com/deppfellow/fnguard/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*echo.Echo, *bytes.Buffer) {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "development"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
		},
		Functions: config.FunctionsConfig{UIDHeader: "X-User-Id"},
		Observability: config.ObservabilityConfig{
			ServiceName:  "fnguard",
			Environment:  "development",
			Logging:      config.LoggingConfig{Level: "debug", Format: "json"},
			HealthChecks: config.HealthChecksConfig{Timeout: time.Second},
		},
	}

	var logs bytes.Buffer
	log := zerolog.New(&logs)

	s, err := server.New(cfg, &log, &logger.LoggerService{})
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s)), &logs
}

func do(r *echo.Echo, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

var authenticated = map[string]string{"X-User-Id": "user-1"}

func TestCallable_Success(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(r, "/callable/createProfile", `{"data": {"name": "Ada", "email": "ada@example.com", "age": 36, "handle": "ada"}}`, authenticated)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result": {
		"owner_id": "user-1",
		"name": "Ada",
		"email": "ada@example.com",
		"age": 36,
		"handle": "ada",
		"locale": "en"
	}}`, rec.Body.String())
}

func TestCallable_Unauthenticated(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(r, "/callable/createProfile", `{"data": {"name": "Ada"}}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": {"status": "UNAUTHENTICATED", "message": "No user id"}}`, rec.Body.String())
}

func TestCallable_MissingData(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, body := range []string{``, `{}`, `{"data": null}`, `{"data": 0}`, `{"data": ""}`} {
		rec := do(r, "/callable/createProfile", body, authenticated)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error": {"status": "INVALID_ARGUMENT", "message": "Request data must be an object"}}`, rec.Body.String(), body)
	}
}

func TestCallable_InvalidData(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(r, "/callable/createProfile", `{"data": {"age": 12}}`, authenticated)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": {
		"status": "INVALID_ARGUMENT",
		"message": "Missing or invalid parameter (see error.details)",
		"details": [
			{"property": "name", "info": {"isNotEmpty": "name should not be empty"}},
			{"property": "email", "info": {"isNotEmpty": "email should not be empty"}},
			{"property": "handle", "info": {"isNotEmpty": "handle should not be empty"}}
		]
	}}`, rec.Body.String())
}

func TestOnRequest_Success(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(r, "/http/createProfile", `{"name": "Ada", "email": "ada@example.com", "handle": "ada", "locale": "de"}`, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var profile handler.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "", profile.OwnerID)
	assert.Equal(t, "de", profile.Locale)
}

func TestOnRequest_InvalidAnsweredDirectly(t *testing.T) {
	r, logs := newTestRouter(t)

	for _, body := range []string{``, `{}`} {
		rec := do(r, "/http/createProfile", body, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{
			"error": "Missing or invalid parameter (see details)",
			"details": [
				{"property": "name", "info": {"isNotEmpty": "name should not be empty"}},
				{"property": "email", "info": {"isNotEmpty": "email should not be empty"}},
				{"property": "handle", "info": {"isNotEmpty": "handle should not be empty"}}
			]
		}`, rec.Body.String(), body)
	}

	assert.Contains(t, logs.String(), "request validation failed")
}

func TestOnRequest_NullBody(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(r, "/http/createProfile", `null`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": {"status": "INVALID_ARGUMENT", "message": "Request data must be an object"}}`, rec.Body.String())
}

func TestOnRequest_MalformedJSON(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(r, "/http/createProfile", `{"name": `, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": {"status": "INVALID_ARGUMENT", "message": "Bad Request"}}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := do(r, "/callable/deleteEverything", `{}`, authenticated)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": {"status": "NOT_FOUND", "message": "Route not found"}}`, rec.Body.String())
}

func TestStatus(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "development", body["environment"])
}
