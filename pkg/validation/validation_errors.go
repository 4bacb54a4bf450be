package validation

import (
	"errors"
	"fmt"
	"strings"

	"job-tracker-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps request struct fields to the labels shown to users.
var FieldLabels = map[string]string{
	"Company":     "Company",
	"Title":       "Job title",
	"URL":         "Job URL",
	"Status":      "Status",
	"DateApplied": "Date applied",
	"Notes":       "Notes",
	"Email":       "Email",
	"Password":    "Password",
	"Format":      "Export format",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))

	case "email":
		return fmt.Sprintf("%s: invalid email format", label)

	case "job_status":
		return fmt.Sprintf("%s: must be one of: %s", label, statusList())

	case "status_filter":
		return fmt.Sprintf("%s: must be all or one of: %s", label, statusList())

	case "iso_date":
		return fmt.Sprintf("%s: must be a date in YYYY-MM-DD form", label)

	case "job_url":
		return fmt.Sprintf("%s: must be an http or https URL", label)

	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

func statusList() string {
	values := make([]string, len(domain.StatusOptions))
	for i, o := range domain.StatusOptions {
		values[i] = string(o.Value)
	}
	return strings.Join(values, ", ")
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
