package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z .'-]{1,49}$`)
)

// ValidateEmail checks basic email format
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhone checks E.164-ish phone format
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// ValidatePassengerName checks a passenger name
func ValidatePassengerName(name string) bool {
	return nameRegex.MatchString(strings.TrimSpace(name))
}

// ValidatePassenger validates one passenger entry and collects field errors
func ValidatePassenger(index int, name, gender, phone string, age int) FieldValidationErrors {
	var errs FieldValidationErrors
	prefix := fmt.Sprintf("passengers[%d]", index)

	if !ValidatePassengerName(name) {
		errs = append(errs, FieldValidationError{
			Field:   prefix + ".name",
			Message: "Name is required and may only contain letters, spaces, dots, apostrophes and hyphens",
		})
	}
	if age <= 0 || age > 120 {
		errs = append(errs, FieldValidationError{
			Field:   prefix + ".age",
			Message: "Age must be between 1 and 120",
		})
	}
	switch strings.ToLower(gender) {
	case "male", "female", "other":
	default:
		errs = append(errs, FieldValidationError{
			Field:   prefix + ".gender",
			Message: "Gender must be one of: male, female, other",
		})
	}
	if phone != "" && !ValidatePhone(phone) {
		errs = append(errs, FieldValidationError{
			Field:   prefix + ".phone",
			Message: "Invalid phone number format",
		})
	}
	return errs
}

// ValidatePaymentReference checks a manual payment reference id
func ValidatePaymentReference(ref string) bool {
	return len(strings.TrimSpace(ref)) >= MinPaymentReferenceLength
}
