package validate

import (
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags and returns the
// raw validator error so callers can map field violations to their own
// user-facing messages.
func Struct(s interface{}) validator.ValidationErrors {
	if err := v.Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return ve
		}
	}
	return nil
}

// Var validates a single value against a tag expression, e.g. "required,email".
func Var(value interface{}, tag string) error {
	return v.Var(value, tag)
}
