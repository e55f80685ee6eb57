package errs

import "net/http"

// ValidationError is the structured error returned by the validators.
//
// It implements `error` and is designed to be serialized directly as the
// "error" object of a callable function response:
//
//	{ "status": "INVALID_ARGUMENT", "message": "...", "details": [...] }
type ValidationError struct {
	Kind    Kind   `json:"status"`
	Message string `json:"message"`

	// Details is only set for INVALID_ARGUMENT produced by failed rules.
	Details []Violation `json:"details,omitempty"`
}

// Error returns the message so logs show what the client sees.
func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is match on Kind.
//
// A target without a Kind matches any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}

	return t.Kind == "" || t.Kind == e.Kind
}

// WithMessage returns a copy of the error with Message replaced.
func (e *ValidationError) WithMessage(message string) *ValidationError {
	return &ValidationError{
		Kind:    e.Kind,
		Message: message,
		Details: e.Details,
	}
}

// HTTPStatus maps a Kind to the HTTP status a callable function answers with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// KindFromHTTPStatus is the inverse of HTTPStatus, used for errors raised by
// the router itself (unknown route, malformed body).
func KindFromHTTPStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return KindInvalidArgument
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return KindNotFound
	default:
		return KindInternal
	}
}

// CallableErrorResponse is the envelope of a failed callable invocation.
type CallableErrorResponse struct {
	Error *ValidationError `json:"error"`
}

// InvalidRequestResponse is the body written by the response-channel fallback
// of request validation (HTTP-style functions).
type InvalidRequestResponse struct {
	Error   string      `json:"error"`
	Details []Violation `json:"details"`
}

// NewInvalidRequestResponse builds the fallback body for the given violations.
func NewInvalidRequestResponse(details []Violation) InvalidRequestResponse {
	return InvalidRequestResponse{
		Error:   MessageInvalidResponse,
		Details: details,
	}
}
