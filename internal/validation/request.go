package validation

import (
	"context"
	"math"
	"net/http"
	"reflect"

	"github.com/deppfellow/fnguard/internal/errs"
)

// JSONResponder is an optional response channel.
//
// When handed to ValidateRequestData, failed validation is answered through
// it instead of being returned as an error. Transports provide adapters
// (see handler.EchoResponder).
type JSONResponder interface {
	WriteJSON(status int, body any) error
}

// ValidateRequestData validates payload against schema.
//
// Outcomes:
//   - payload is absent (nil, false, 0, "", nil map/pointer):
//     INVALID_ARGUMENT "Request data must be an object", schema not evaluated.
//   - every rule passes: (false, nil).
//   - rules fail and responder is non-nil: a 400 with
//     {"error": "...", "details": [...]} is written, and (true, writeErr)
//     is returned. No validation error is raised.
//   - rules fail and responder is nil: INVALID_ARGUMENT
//     "Missing or invalid parameter (see error.details)" with Details set.
//
// Other errors only come from a misconfigured schema.
func ValidateRequestData(ctx context.Context, schema Schema, payload any, responder JSONResponder) (bool, error) {
	_, handled, err := validateRequest(ctx, schema, payload, responder)
	return handled, err
}

// Bind validates payload like ValidateRequestData and returns the coerced
// instance on success. The instance is nil whenever handled or err is set.
func Bind[T any](ctx context.Context, schema *StructSchema[T], payload any, responder JSONResponder) (*T, bool, error) {
	instance, handled, err := validateRequest(ctx, schema, payload, responder)
	if err != nil || handled {
		return nil, handled, err
	}

	return instance.(*T), false, nil
}

func validateRequest(ctx context.Context, schema Schema, payload any, responder JSONResponder) (any, bool, error) {
	// Callable invocations may deliver no data at all, HTTP invocations always
	// deliver at least {}. Both end up here with the same outcome.
	if isAbsent(payload) {
		return nil, false, errs.NewInvalidArgumentError(errs.MessageNotAnObject, nil)
	}

	instance, coerceViolations, err := schema.Coerce(payload)
	if err != nil {
		return nil, false, err
	}

	set := newViolationSet()
	set.merge(coerceViolations)

	if instance != nil {
		ruleViolations, err := schema.Validate(ctx, instance)
		if err != nil {
			return nil, false, err
		}
		set.merge(ruleViolations)
	}

	violations := set.list()
	if len(violations) == 0 {
		return instance, false, nil
	}

	if responder != nil {
		return nil, true, responder.WriteJSON(http.StatusBadRequest, errs.NewInvalidRequestResponse(violations))
	}

	return nil, false, errs.NewInvalidArgumentError(errs.MessageInvalidParams, violations)
}

// isAbsent reports whether payload is falsy: nil, a nil pointer/map/slice,
// or the zero value of a scalar.
func isAbsent(payload any) bool {
	if payload == nil {
		return true
	}

	v := reflect.ValueOf(payload)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0 || math.IsNaN(v.Float())
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.IsZero()
	default:
		return false
	}
}
