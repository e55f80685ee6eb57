// Package errs defines the error signal produced at the function boundary.
//
// Validators in this repository never write transport responses on their own
// (with one explicit exception, see validation.JSONResponder). They return a
// *ValidationError carrying a machine-readable Kind, a human-readable message
// and, for failed validation, the list of offending fields. Translating that
// error into a protocol-specific response is done by the helpers in http.go.
package errs

// Kind is the machine-readable category of a ValidationError.
//
// The values follow the canonical status names used by callable functions,
// so they can be sent to clients unchanged.
type Kind string

const (
	// KindInvalidArgument reports a missing or malformed request payload.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"

	// KindUnauthenticated reports a request without a caller identity.
	KindUnauthenticated Kind = "UNAUTHENTICATED"

	// KindNotFound is only produced by the transport layer for unknown routes.
	KindNotFound Kind = "NOT_FOUND"

	// KindInternal is only produced by the transport layer for errors that are
	// not ValidationErrors. The validators never return it.
	KindInternal Kind = "INTERNAL"
)

// Violation is a single field-level validation failure.
// Example:
//
//	{ "property": "name", "info": { "isNotEmpty": "name should not be empty" } }
type Violation struct {
	// Property is the json path of the field, e.g. "name" or "address.city".
	// It is empty when the payload as a whole was rejected.
	Property string `json:"property"`

	// Info maps each failed rule name to its message.
	Info map[string]string `json:"info"`
}
