package validation

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/deppfellow/fnguard/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Schema is the capability ValidateRequestData relies on.
type Schema interface {
	// Coerce transforms a raw payload into an instance of the declared shape.
	//
	// Values that cannot be coerced are reported as violations rather than
	// errors. A nil instance means the payload was rejected as a whole and
	// rule evaluation must be skipped.
	Coerce(payload any) (any, []errs.Violation, error)

	// Validate runs every declared rule against a coerced instance.
	// Rules may block on ctx (e.g. uniqueness lookups).
	Validate(ctx context.Context, instance any) ([]errs.Violation, error)
}

// StructSchema is a Schema described by the struct type T.
//
// Example:
//
//	type CreateProfileRequest struct {
//		Name   string `json:"name" validate:"required,max=64"`
//		Locale string `json:"locale" default:"en" validate:"oneof=en de fr"`
//	}
//
//	var schema = validation.MustStructSchema[CreateProfileRequest]()
type StructSchema[T any] struct {
	validate *validator.Validate
	rules    map[string]Rule
}

// NewStructSchema builds a schema for T and registers the custom rules.
//
// T must be a struct type.
func NewStructSchema[T any](rules ...Rule) (*StructSchema[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema type %s is not a struct", t)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	s := &StructSchema[T]{
		validate: v,
		rules:    make(map[string]Rule, len(rules)),
	}

	for _, rule := range rules {
		if err := v.RegisterValidationCtx(rule.Tag, rule.Fn); err != nil {
			return nil, fmt.Errorf("failed to register rule %q: %w", rule.Tag, err)
		}
		s.rules[rule.Tag] = rule
	}

	return s, nil
}

// MustStructSchema is like NewStructSchema but panics on error.
// It is meant for package-level schema variables.
func MustStructSchema[T any](rules ...Rule) *StructSchema[T] {
	s, err := NewStructSchema[T](rules...)
	if err != nil {
		panic(err)
	}
	return s
}

// Coerce decodes payload into a new *T.
//
// Defaults from `default` tags are applied first, then the payload is decoded
// on top of them. Unknown fields are ignored. Values keep their type: the only
// conversions allowed are lossless numeric ones (36.0 -> 36), anything else is
// reported as an isValidType violation.
func (s *StructSchema[T]) Coerce(payload any) (any, []errs.Violation, error) {
	if !isObject(payload) {
		return nil, []errs.Violation{unknownValueViolation()}, nil
	}

	instance := new(T)
	if err := defaults.Set(instance); err != nil {
		return nil, nil, errors.Wrap(err, "failed to apply schema defaults")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		DecodeHook: mapstructure.DecodeHookFuncType(losslessNumbers),
		Result:     instance,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(payload); err != nil {
		var decodeErr *mapstructure.Error
		if errors.As(err, &decodeErr) {
			return instance, decodeViolations(decodeErr), nil
		}
		return nil, nil, errors.Wrap(err, "failed to decode payload")
	}

	return instance, nil, nil
}

// Validate runs validator rules against instance, which must be a *T.
func (s *StructSchema[T]) Validate(ctx context.Context, instance any) ([]errs.Violation, error) {
	err := s.validate.StructCtx(ctx, instance)
	if err == nil {
		return nil, nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		// InvalidValidationError: instance was not a struct. Programmer error.
		return nil, errors.Wrap(err, "failed to validate instance")
	}

	set := newViolationSet()
	for _, fe := range fieldErrors {
		rule, message := s.describe(fe)
		set.add(propertyPath(fe), rule, message)
	}

	return set.list(), nil
}

// describe returns the rule name and message for a failed field.
// Custom rules win over the built-in tag mapping.
func (s *StructSchema[T]) describe(fe validator.FieldError) (string, string) {
	if rule, ok := s.rules[fe.Tag()]; ok {
		return rule.name(), rule.message(fe.Field(), fe.Param())
	}
	return describeTag(fe)
}

// jsonFieldName makes validator report json names instead of Go field names.
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// propertyPath strips the root struct name from the namespace:
// "CreateProfileRequest.address.city" -> "address.city".
func propertyPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// isObject reports whether payload can be decoded into a struct: a struct or
// a map keyed by strings.
func isObject(payload any) bool {
	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return true
	case reflect.Map:
		return v.Type().Key().Kind() == reflect.String
	default:
		return false
	}
}

// losslessNumbers rejects numbers that would change value when stored in an
// integer field: fractions, out-of-range values and negatives for unsigned
// fields. mapstructure would otherwise truncate them silently.
func losslessNumbers(from reflect.Type, to reflect.Type, data any) (any, error) {
	if !isNumberKind(from.Kind()) {
		return data, nil
	}

	v := reflect.ValueOf(data)
	target := reflect.New(to).Elem()

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch {
		case isFloatKind(from.Kind()):
			f := v.Float()
			if f != math.Trunc(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 || target.OverflowInt(int64(f)) {
				return nil, fmt.Errorf("expected type '%s', got non-integral or out of range number %v", to, data)
			}
		case isUintKind(from.Kind()):
			if v.Uint() > math.MaxInt64 || target.OverflowInt(int64(v.Uint())) {
				return nil, fmt.Errorf("expected type '%s', got out of range number %v", to, data)
			}
		default:
			if target.OverflowInt(v.Int()) {
				return nil, fmt.Errorf("expected type '%s', got out of range number %v", to, data)
			}
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch {
		case isFloatKind(from.Kind()):
			f := v.Float()
			if f != math.Trunc(f) || math.IsInf(f, 0) || f < 0 || f >= math.MaxUint64 || target.OverflowUint(uint64(f)) {
				return nil, fmt.Errorf("expected type '%s', got non-integral or out of range number %v", to, data)
			}
		case isUintKind(from.Kind()):
			if target.OverflowUint(v.Uint()) {
				return nil, fmt.Errorf("expected type '%s', got out of range number %v", to, data)
			}
		default:
			if v.Int() < 0 || target.OverflowUint(uint64(v.Int())) {
				return nil, fmt.Errorf("expected type '%s', got out of range number %v", to, data)
			}
		}
	}

	return data, nil
}

func isNumberKind(k reflect.Kind) bool {
	return isFloatKind(k) || isUintKind(k) || (k >= reflect.Int && k <= reflect.Int64)
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isUintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func unknownValueViolation() errs.Violation {
	return errs.Violation{
		Property: "",
		Info: map[string]string{
			"unknownValue": "an unknown value was passed to the validate function",
		},
	}
}

// decodeViolations converts mapstructure errors into violations.
//
// mapstructure only exposes its errors as strings of the form
//
//	'age' expected type 'int', got unconvertible type 'string', value: 'abc'
//	error decoding 'age': expected type 'int', got non-integral ... 150.9
//
// so the field path is taken from the first quoted segment. Messages that do
// not follow that shape are attached to the payload as a whole.
func decodeViolations(err *mapstructure.Error) []errs.Violation {
	set := newViolationSet()

	for _, msg := range err.Errors {
		msg = strings.TrimPrefix(msg, "error decoding ")
		property, rest := "", msg
		if strings.HasPrefix(msg, "'") {
			if end := strings.Index(msg[1:], "'"); end >= 0 {
				property = msg[1 : end+1]
				rest = strings.TrimSpace(strings.TrimPrefix(msg[end+2:], ":"))
			}
		}

		message := rest
		if property != "" {
			message = property + " " + rest
		}
		set.add(property, "isValidType", message)
	}

	return set.list()
}
