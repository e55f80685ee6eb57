package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// describeTag converts a validator tag failure into a rule name and a
// user-friendly message. Rule names are stable identifiers that clients may
// key on; messages are for humans.
func describeTag(fe validator.FieldError) (string, string) {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required", "required_with", "required_without", "required_if":
		return "isNotEmpty", fmt.Sprintf("%s should not be empty", field)

	case "min", "gte":
		// min means:
		// - for strings: minimum length
		// - for slices/maps: minimum number of elements
		// - for numbers: minimum value
		switch fe.Kind() {
		case reflect.String:
			return "minLength", fmt.Sprintf("%s must be longer than or equal to %s characters", field, param)
		case reflect.Slice, reflect.Array, reflect.Map:
			return "arrayMinSize", fmt.Sprintf("%s must contain at least %s elements", field, param)
		default:
			return "min", fmt.Sprintf("%s must not be less than %s", field, param)
		}

	case "max", "lte":
		switch fe.Kind() {
		case reflect.String:
			return "maxLength", fmt.Sprintf("%s must be shorter than or equal to %s characters", field, param)
		case reflect.Slice, reflect.Array, reflect.Map:
			return "arrayMaxSize", fmt.Sprintf("%s must contain no more than %s elements", field, param)
		default:
			return "max", fmt.Sprintf("%s must not be greater than %s", field, param)
		}

	case "gt":
		return "isGreaterThan", fmt.Sprintf("%s must be greater than %s", field, param)

	case "lt":
		return "isLessThan", fmt.Sprintf("%s must be less than %s", field, param)

	case "len":
		return "isLength", fmt.Sprintf("%s must be exactly %s characters", field, param)

	case "oneof":
		return "isIn", fmt.Sprintf("%s must be one of the following values: %s", field, strings.Join(strings.Fields(param), ", "))

	case "email":
		return "isEmail", fmt.Sprintf("%s must be an email", field)

	case "url", "http_url":
		return "isUrl", fmt.Sprintf("%s must be a URL address", field)

	case "uuid", "uuid4":
		return "isUuid", fmt.Sprintf("%s must be a UUID", field)

	case "e164":
		return "isPhoneNumber", fmt.Sprintf("%s must be a valid phone number", field)

	case "alphanum":
		return "isAlphanumeric", fmt.Sprintf("%s must contain only letters and numbers", field)

	case "numeric", "number":
		return "isNumberString", fmt.Sprintf("%s must be a number string", field)

	case "datetime":
		return "isDateString", fmt.Sprintf("%s must be a valid date in the format %s", field, param)

	default:
		// Fallback for tags not explicitly handled above.
		// Includes tag name and param (if any) to help debugging.
		if param != "" {
			return fe.Tag(), fmt.Sprintf("%s failed on %s:%s", field, fe.Tag(), param)
		}
		return fe.Tag(), fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
