package validation

import (
	"errors"
	"fmt"
	"slices"
)

// ConfigValidator collects every problem in a config instead of stopping
// at the first.
type ConfigValidator struct {
	prefix string
	errs   []error
}

// NewConfigValidator creates a validator whose messages start with prefix
func NewConfigValidator(prefix string) *ConfigValidator {
	return &ConfigValidator{prefix: prefix}
}

func (cv *ConfigValidator) fail(field, format string, args ...any) *ConfigValidator {
	cv.errs = append(cv.errs, fmt.Errorf("%s.%s: %s", cv.prefix, field, fmt.Sprintf(format, args...)))
	return cv
}

// Required rejects an empty string
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		return cv.fail(field, "required field is empty")
	}
	return cv
}

// NonNegative rejects values below zero
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		return cv.fail(field, "value %d must be non-negative", value)
	}
	return cv
}

// OneOf rejects values outside allowed
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	if !slices.Contains(allowed, value) {
		return cv.fail(field, "value %q must be one of %v", value, allowed)
	}
	return cv
}

// Bounds rejects a min above max. A max of zero means unbounded.
func (cv *ConfigValidator) Bounds(field string, lo, hi int) *ConfigValidator {
	if hi > 0 && lo > hi {
		return cv.fail(field, "min %d exceeds max %d", lo, hi)
	}
	return cv
}

// Struct applies the validate tags of v, reporting each failure under field.
func (cv *ConfigValidator) Struct(field string, v any) *ConfigValidator {
	for _, fe := range Struct(v) {
		cv.fail(field, "%s", fe.Message)
	}
	return cv
}

// Custom records the error returned by fn
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errs = append(cv.errs, fmt.Errorf("%s.%s: %w", cv.prefix, field, err))
	}
	return cv
}

// HasErrors reports whether any check failed
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errs) > 0
}

// Errors returns the failures in the order they were found
func (cv *ConfigValidator) Errors() []error {
	return cv.errs
}

// Validate joins the failures, or returns nil
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errs) {
	case 0:
		return nil
	case 1:
		return cv.errs[0]
	}
	return fmt.Errorf("%s validation failed with %d errors: %w", cv.prefix, len(cv.errs), errors.Join(cv.errs...))
}

// DefaultOr returns value unless it is the zero value
func DefaultOr[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}
