package errs

// Messages sent to clients. They are part of the public contract of the
// functions, so clients may match on them.
const (
	MessageNotAnObject     = "Request data must be an object"
	MessageInvalidParams   = "Missing or invalid parameter (see error.details)"
	MessageInvalidResponse = "Missing or invalid parameter (see details)"
	MessageNoUserID        = "No user id"
)

// Sentinels for errors.Is. They only carry a Kind, so
//
//	errors.Is(err, errs.ErrUnauthenticated)
//
// is true for any UNAUTHENTICATED error regardless of its message.
var (
	ErrInvalidArgument = &ValidationError{Kind: KindInvalidArgument}
	ErrUnauthenticated = &ValidationError{Kind: KindUnauthenticated}
)

// NewInvalidArgumentError creates an INVALID_ARGUMENT error.
//
// details is optional: it is nil for a missing payload and holds one entry per
// invalid field when rule evaluation failed.
func NewInvalidArgumentError(message string, details []Violation) *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidArgument,
		Message: message,
		Details: details,
	}
}

// NewUnauthenticatedError creates an UNAUTHENTICATED error.
func NewUnauthenticatedError(message string) *ValidationError {
	return &ValidationError{
		Kind:    KindUnauthenticated,
		Message: message,
	}
}

// NewInternalError creates the generic INTERNAL error returned to clients
// when something unexpected failed. The real cause is logged, never sent.
func NewInternalError() *ValidationError {
	return &ValidationError{
		Kind:    KindInternal,
		Message: "Internal",
	}
}
