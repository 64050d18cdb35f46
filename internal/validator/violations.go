package validator

import (
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"

	apperrors "cattery/internal/errors"
)

// Violations maps a field name to every reason it was rejected.
type Violations map[string][]string

// Add records a violation for field.
func (v Violations) Add(field, message string) {
	v[field] = append(v[field], message)
}

// Has reports whether field has at least one violation.
func (v Violations) Has(field string) bool {
	return len(v[field]) > 0
}

// Fields returns the rejected field names in sorted order.
func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err returns nil when there are no violations, and a VALIDATION_FAILED
// AppError carrying the violations as details otherwise.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apperrors.WithDetails(apperrors.ErrValidationFailed, v)
}

// FromBindingError converts an error returned by Gin binding into field
// violations. Errors that are not validation errors (malformed JSON, wrong
// JSON types) are reported under the "body" key.
func FromBindingError(err error) Violations {
	v := Violations{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.Add("body", err.Error())
		return v
	}
	for _, fe := range verrs {
		v.Add(fieldPath(fe), bindingMessage(fe))
	}
	return v
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	// Drop the root struct name ("ReorderPhotosRequest.items[0].id" -> "items[0].id").
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			return ns[i+1:]
		}
	}
	return fe.Field()
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "nefield":
		return fe.Field() + " must differ from " + fe.Param()
	case "cat_gender":
		return fe.Field() + " must be one of: male, female"
	case "cat_type":
		return fe.Field() + " must be one of: breeder, kitten"
	case "cat_status":
		return fe.Field() + " must be one of: available, reserved, sold"
	case "sort_spec":
		return fe.Field() + " must look like field:asc|desc"
	}
	return fe.Field() + " failed " + fe.Tag() + " validation"
}
