package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	MaxComponentNameLength = 255
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)
}

// fieldName reports fields by their document key (json, then yaml tag),
// falling back to the lowercased Go field name for untagged fields.
func fieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" {
		name, _, _ = strings.Cut(fld.Tag.Get("yaml"), ",")
	}
	if name == "-" {
		return ""
	}
	if name == "" {
		return strings.ToLower(fld.Name)
	}
	return name
}

// FieldError describes one failed struct-tag rule
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Struct validates v against its validate tags. It returns nil when v is
// valid and one FieldError per failed rule otherwise.
func Struct(v any) []FieldError {
	if v == nil {
		return []FieldError{{Message: "value cannot be nil"}}
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		out = append(out, formatFieldError(e))
	}
	return out
}

// ValidateComponentName checks a node, parameter or recorder name
func ValidateComponentName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if len(name) > MaxComponentNameLength {
		return fmt.Errorf("name %q exceeds maximum length of %d characters", name, MaxComponentNameLength)
	}
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("name %q has leading or trailing whitespace", name)
	}
	return nil
}

// formatFieldError converts a validator error to a user-friendly message
func formatFieldError(e validator.FieldError) FieldError {
	fe := FieldError{
		Field: e.Field(),
		Tag:   e.Tag(),
		Param: e.Param(),
	}

	switch fe.Tag {
	case "required":
		fe.Message = fmt.Sprintf("%s: field is required", fe.Field)
	case "min":
		fe.Message = fmt.Sprintf("%s: must be at least %s", fe.Field, fe.Param)
	case "max":
		fe.Message = fmt.Sprintf("%s: must not exceed %s", fe.Field, fe.Param)
	case "datetime":
		fe.Message = fmt.Sprintf("%s: %v is not a date in format %s", fe.Field, e.Value(), fe.Param)
	case "oneof":
		fe.Message = fmt.Sprintf("%s: must be one of [%s]", fe.Field, fe.Param)
	default:
		fe.Message = fmt.Sprintf("%s: validation failed (%s)", fe.Field, fe.Tag)
	}
	return fe
}
