package validation

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/deppfellow/fnguard/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Name   string   `json:"name" validate:"required,max=16"`
	Email  string   `json:"email" validate:"omitempty,email"`
	Age    int      `json:"age" validate:"gte=0,lte=150"`
	Locale string   `json:"locale" default:"en" validate:"oneof=en de fr"`
	Tags   []string `json:"tags" validate:"omitempty,max=2"`
}

var signupSchema = MustStructSchema[signupRequest]()

type recordedResponse struct {
	calls  int
	status int
	body   any
	err    error
}

func (r *recordedResponse) WriteJSON(status int, body any) error {
	r.calls++
	r.status = status
	r.body = body
	return r.err
}

func TestValidateRequestData_AbsentPayload(t *testing.T) {
	var nilMap map[string]any
	var nilPtr *signupRequest

	for name, payload := range map[string]any{
		"nil":         nil,
		"nil map":     nilMap,
		"nil pointer": nilPtr,
		"zero int":    0,
		"zero float":  0.0,
		"empty":       "",
		"false":       false,
	} {
		t.Run(name, func(t *testing.T) {
			responder := &recordedResponse{}

			handled, err := ValidateRequestData(context.Background(), signupSchema, payload, responder)

			assert.False(t, handled)
			var verr *errs.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, errs.KindInvalidArgument, verr.Kind)
			assert.Equal(t, "Request data must be an object", verr.Message)
			assert.Nil(t, verr.Details)
			assert.Zero(t, responder.calls, "absent payload is never answered through the responder")
		})
	}
}

func TestValidateRequestData_Valid(t *testing.T) {
	responder := &recordedResponse{}

	handled, err := ValidateRequestData(context.Background(), signupSchema, map[string]any{
		"name":    "ada",
		"email":   "ada@example.com",
		"age":     36,
		"unknown": "ignored",
	}, responder)

	require.NoError(t, err)
	assert.False(t, handled)
	assert.Zero(t, responder.calls)
}

func TestValidateRequestData_EmptyObject(t *testing.T) {
	_, err := ValidateRequestData(context.Background(), signupSchema, map[string]any{}, nil)

	var verr *errs.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, errs.KindInvalidArgument, verr.Kind)
	assert.Equal(t, "Missing or invalid parameter (see error.details)", verr.Message)
	assert.Equal(t, []errs.Violation{
		{Property: "name", Info: map[string]string{"isNotEmpty": "name should not be empty"}},
	}, verr.Details)
}

func TestValidateRequestData_OneViolationPerField(t *testing.T) {
	_, err := ValidateRequestData(context.Background(), signupSchema, map[string]any{
		"name":   "",
		"email":  "not-an-email",
		"age":    200,
		"locale": "xx",
		"tags":   []any{"a", "b", "c"},
	}, nil)

	var verr *errs.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Details, 5)

	assert.Equal(t, "name", verr.Details[0].Property)
	assert.Equal(t, map[string]string{"isEmail": "email must be an email"}, verr.Details[1].Info)
	assert.Equal(t, map[string]string{"max": "age must not be greater than 150"}, verr.Details[2].Info)
	assert.Equal(t, map[string]string{"isIn": "locale must be one of the following values: en, de, fr"}, verr.Details[3].Info)
	assert.Equal(t, map[string]string{"arrayMaxSize": "tags must contain no more than 2 elements"}, verr.Details[4].Info)
}

func TestValidateRequestData_Responder(t *testing.T) {
	responder := &recordedResponse{}

	handled, err := ValidateRequestData(context.Background(), signupSchema, map[string]any{}, responder)

	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 1, responder.calls)
	assert.Equal(t, http.StatusBadRequest, responder.status)
	assert.Equal(t, errs.InvalidRequestResponse{
		Error: "Missing or invalid parameter (see details)",
		Details: []errs.Violation{
			{Property: "name", Info: map[string]string{"isNotEmpty": "name should not be empty"}},
		},
	}, responder.body)
}

func TestValidateRequestData_ResponderWriteError(t *testing.T) {
	writeErr := errors.New("connection reset")
	responder := &recordedResponse{err: writeErr}

	handled, err := ValidateRequestData(context.Background(), signupSchema, map[string]any{}, responder)

	assert.True(t, handled)
	assert.ErrorIs(t, err, writeErr)
}

func TestValidateRequestData_NonObject(t *testing.T) {
	_, err := ValidateRequestData(context.Background(), signupSchema, "hello", nil)

	var verr *errs.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []errs.Violation{{
		Property: "",
		Info:     map[string]string{"unknownValue": "an unknown value was passed to the validate function"},
	}}, verr.Details)
}

func TestValidateRequestData_UncoercibleField(t *testing.T) {
	_, err := ValidateRequestData(context.Background(), signupSchema, map[string]any{
		"name": "ada",
		"age":  map[string]any{"years": 3},
	}, nil)

	var verr *errs.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Details, 1)
	assert.Equal(t, "age", verr.Details[0].Property)
	assert.Contains(t, verr.Details[0].Info["isValidType"], "age expected type 'int'")
}

func TestValidateRequestData_TypeMismatch(t *testing.T) {
	cases := []struct {
		name     string
		payload  map[string]any
		property string
	}{
		{"fractional int", map[string]any{"name": "ada", "age": 150.9}, "age"},
		{"bool as int", map[string]any{"name": "ada", "age": true}, "age"},
		{"empty string as int", map[string]any{"name": "ada", "age": ""}, "age"},
		{"numeric string as int", map[string]any{"name": "ada", "age": "36"}, "age"},
		{"number as string", map[string]any{"name": 123}, "name"},
		{"infinite int", map[string]any{"name": "ada", "age": math.Inf(1)}, "age"},
		{"out of range int", map[string]any{"name": "ada", "age": 1e300}, "age"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, handled, err := Bind(context.Background(), signupSchema, tc.payload, nil)

			assert.Nil(t, req)
			assert.False(t, handled)
			var verr *errs.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, errs.KindInvalidArgument, verr.Kind)
			require.NotEmpty(t, verr.Details)
			assert.Equal(t, tc.property, verr.Details[0].Property)
			assert.Contains(t, verr.Details[0].Info, "isValidType")
		})
	}
}

func TestValidateRequestData_FractionMessage(t *testing.T) {
	_, err := ValidateRequestData(context.Background(), signupSchema, map[string]any{
		"name": "ada",
		"age":  150.9,
	}, nil)

	var verr *errs.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Details, 1)
	assert.Equal(t, "age", verr.Details[0].Property)
	assert.Equal(t, "age expected type 'int', got non-integral or out of range number 150.9", verr.Details[0].Info["isValidType"])
}

func TestValidateRequestData_StringKeysOnly(t *testing.T) {
	_, err := ValidateRequestData(context.Background(), signupSchema, map[int]any{1: "ada"}, nil)

	var verr *errs.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, errs.KindInvalidArgument, verr.Kind)
	assert.Equal(t, []errs.Violation{{
		Property: "",
		Info:     map[string]string{"unknownValue": "an unknown value was passed to the validate function"},
	}}, verr.Details)
}

func TestBind(t *testing.T) {
	// JSON numbers arrive as float64.
	req, handled, err := Bind(context.Background(), signupSchema, map[string]any{
		"name": "ada",
		"age":  36.0,
	}, nil)

	require.NoError(t, err)
	assert.False(t, handled)
	require.NotNil(t, req)
	assert.Equal(t, "ada", req.Name)
	assert.Equal(t, 36, req.Age)
	assert.Equal(t, "en", req.Locale, "default applied")
}

func TestBind_Invalid(t *testing.T) {
	req, handled, err := Bind(context.Background(), signupSchema, map[string]any{"name": ""}, nil)

	assert.Nil(t, req)
	assert.False(t, handled)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestNewStructSchema_NotAStruct(t *testing.T) {
	_, err := NewStructSchema[string]()
	assert.Error(t, err)
}
