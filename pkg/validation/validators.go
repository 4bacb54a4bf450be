package validation

import (
	"net/url"
	"time"

	"job-tracker-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers the tracker's custom tags on v.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("job_status", JobStatus)
	_ = v.RegisterValidation("status_filter", StatusFilter)
	_ = v.RegisterValidation("iso_date", ISODate)
	_ = v.RegisterValidation("job_url", JobURL)
}

// JobStatus accepts one of the five pipeline statuses, case-insensitively.
func JobStatus(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	_, err := domain.ParseStatus(val)
	return err == nil
}

// StatusFilter accepts a status or "all".
func StatusFilter(fl validator.FieldLevel) bool {
	_, err := domain.ParseFilter(fl.Field().String())
	return err == nil
}

// ISODate accepts a calendar date in YYYY-MM-DD form.
func ISODate(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, val)
	return err == nil
}

// JobURL accepts absolute http(s) URLs.
func JobURL(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	u, err := url.Parse(val)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
