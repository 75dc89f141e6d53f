package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes a single violated constraint. The message is
// surfaced to the client verbatim.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates field-level violations.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// First returns the first violated constraint, or a zero value when empty.
func (e ValidationErrors) First() ValidationError {
	if len(e) == 0 {
		return ValidationError{}
	}
	return e[0]
}

// ToValidationErrors converts go-playground validator errors into the
// internal representation.
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var result ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			result = append(result, ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return result
	}

	return ValidationErrors{{Field: "request", Message: err.Error()}}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "complaint_title":
		return "title must be between 5 and 200 characters"
	case "complaint_description":
		return "description must be between 20 and 2000 characters"
	case "complaint_category":
		return "category must be one of Technical, Academic, Behavior, Facility, Other"
	case "complaint_status":
		return "status must be one of Pending, Under Review, Resolved"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
