package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/fnguard/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestReadPayload_Callable(t *testing.T) {
	tests := []struct {
		body     string
		expected any
	}{
		{body: ``, expected: nil},
		{body: `  `, expected: nil},
		{body: `{}`, expected: nil},
		{body: `{"data": {"name": "Ada"}}`, expected: map[string]any{"name": "Ada"}},
		{body: `{"data": [1]}`, expected: []any{float64(1)}},
	}

	for _, tt := range tests {
		c, _ := newContext(tt.body)

		payload, err := readPayload(c, styleCallable)

		require.NoError(t, err, tt.body)
		assert.Equal(t, tt.expected, payload, tt.body)
	}
}

func TestReadPayload_Request(t *testing.T) {
	c, _ := newContext(``)
	payload, err := readPayload(c, styleRequest)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, payload)

	c, _ = newContext(`null`)
	payload, err = readPayload(c, styleRequest)
	require.NoError(t, err)
	assert.Nil(t, payload)

	c, _ = newContext(`{"name": "Ada"}`)
	payload, err = readPayload(c, styleRequest)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada"}, payload)
}

func TestReadPayload_Malformed(t *testing.T) {
	for _, style := range []invocationStyle{styleCallable, styleRequest} {
		c, _ := newContext(`{"data": `)

		_, err := readPayload(c, style)

		assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	}
}

func TestEchoResponder(t *testing.T) {
	c, rec := newContext(``)

	err := NewEchoResponder(c).WriteJSON(http.StatusBadRequest, errs.NewInvalidRequestResponse(nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Missing or invalid parameter (see details)", "details": null}`, rec.Body.String())
}
