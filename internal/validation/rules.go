package validation

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Rule is a custom validation rule registered on a StructSchema.
//
// Rules are referenced from struct tags by Tag and run with the request
// context, so they may perform lookups.
type Rule struct {
	// Tag is the validator tag, e.g. "unique" in `validate:"unique=handles"`.
	Tag string

	// Name is the rule name reported in Violation.Info. Defaults to Tag.
	Name string

	// Message formats the violation message. Defaults to "<field> is invalid".
	Message func(field, param string) string

	Fn validator.FuncCtx
}

func (r Rule) name() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Tag
}

func (r Rule) message(field, param string) string {
	if r.Message != nil {
		return r.Message(field, param)
	}
	return fmt.Sprintf("%s is invalid", field)
}

// SetMembershipChecker is the subset of the Redis client used by UniqueInSet.
// *redis.Client satisfies it.
type SetMembershipChecker interface {
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
}

// UniqueInSet returns a rule rejecting values that are already members of a
// Redis set. The set key is the tag parameter:
//
//	Handle string `json:"handle" validate:"required,unique=profiles:handles"`
//
// Empty values pass (pair with required). A nil checker disables the lookup.
// Lookup failures fail the rule; the cause is logged with the logger found on
// the context.
func UniqueInSet(checker SetMembershipChecker) Rule {
	return Rule{
		Tag:  "unique",
		Name: "isUnique",
		Message: func(field, _ string) string {
			return fmt.Sprintf("%s already exists", field)
		},
		Fn: func(ctx context.Context, fl validator.FieldLevel) bool {
			if checker == nil {
				return true
			}

			value := fmt.Sprint(fl.Field().Interface())
			if value == "" {
				return true
			}

			taken, err := checker.SIsMember(ctx, fl.Param(), value).Result()
			if err != nil {
				zerolog.Ctx(ctx).Error().
					Err(err).
					Str("set", fl.Param()).
					Str("field", fl.FieldName()).
					Msg("uniqueness lookup failed")
				return false
			}

			return !taken
		},
	}
}
