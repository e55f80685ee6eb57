// Package validation contains the logic for validating
// request data at the entry of a function.
//
// A Schema turns an untyped payload into a typed instance (coercion) and then
// runs the declared rules against it. StructSchema implements Schema on top of
// plain Go structs: `json` tags name the fields, `default` tags fill missing
// values and `validate` tags declare the rules enforced by the `validator`
// library. Failed rules are reported as errs.Violation entries, one per field.
//
// ValidateRequestData is the entry point used by handlers. It either succeeds
// silently, returns an INVALID_ARGUMENT *errs.ValidationError, or, when a
// JSONResponder is supplied, answers the request itself with a 400.
package validation
