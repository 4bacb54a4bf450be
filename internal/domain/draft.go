package domain

import (
	"fmt"
	"strings"
)

// Draft field names, matching the JSON names of JobApplication.
const (
	FieldCompany     = "company"
	FieldTitle       = "title"
	FieldURL         = "url"
	FieldStatus      = "status"
	FieldDateApplied = "date_applied"
	FieldNotes       = "notes"
)

// DraftFields lists the editable fields in form order.
var DraftFields = []string{FieldCompany, FieldTitle, FieldStatus, FieldDateApplied, FieldURL, FieldNotes}

// Draft is the editable form state of one record. All fields are plain
// strings; empty optional fields are stored as NULL.
type Draft struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Status      Status `json:"status"`
	DateApplied string `json:"date_applied"`
	Notes       string `json:"notes"`
}

// EmptyDraft returns the defaults of a fresh form.
func EmptyDraft() Draft {
	return Draft{Status: StatusSaved}
}

// DraftFrom copies an existing record into a draft.
func DraftFrom(app JobApplication) Draft {
	d := Draft{
		Company: app.Company,
		Title:   app.Title,
		Status:  app.Status,
	}
	if app.URL != nil {
		d.URL = *app.URL
	}
	if app.DateApplied != nil {
		d.DateApplied = *app.DateApplied
	}
	if app.Notes != nil {
		d.Notes = *app.Notes
	}
	if d.Status == "" {
		d.Status = StatusSaved
	}
	return d
}

// Normalize trims surrounding whitespace and fills in the default status.
func (d Draft) Normalize() Draft {
	d.Company = strings.TrimSpace(d.Company)
	d.Title = strings.TrimSpace(d.Title)
	d.URL = strings.TrimSpace(d.URL)
	d.DateApplied = strings.TrimSpace(d.DateApplied)
	d.Notes = strings.TrimSpace(d.Notes)
	if d.Status == "" {
		d.Status = StatusSaved
	}
	return d
}

// Validate is the required-field gate: company and title must be non-blank
// and status must be one of the known values.
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Company) == "" {
		missing = append(missing, FieldCompany)
	}
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, FieldTitle)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequiredField, strings.Join(missing, ", "))
	}
	if d.Status != "" && !d.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(d.Status))
	}
	return nil
}

// Set assigns one field by name.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldCompany:
		d.Company = value
	case FieldTitle:
		d.Title = value
	case FieldURL:
		d.URL = value
	case FieldStatus:
		s, err := ParseStatus(value)
		if err != nil {
			return err
		}
		d.Status = s
	case FieldDateApplied:
		d.DateApplied = value
	case FieldNotes:
		d.Notes = value
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}

// Get reads one field by name.
func (d Draft) Get(field string) string {
	switch field {
	case FieldCompany:
		return d.Company
	case FieldTitle:
		return d.Title
	case FieldURL:
		return d.URL
	case FieldStatus:
		return string(d.Status)
	case FieldDateApplied:
		return d.DateApplied
	case FieldNotes:
		return d.Notes
	}
	return ""
}

// Patch turns the whole draft into an update that rewrites every editable field.
func (d Draft) Patch() ApplicationPatch {
	n := d.Normalize()
	return ApplicationPatch{
		Company:     &n.Company,
		Title:       &n.Title,
		URL:         &n.URL,
		Status:      &n.Status,
		DateApplied: &n.DateApplied,
		Notes:       &n.Notes,
	}
}

// Application builds a new record for userID from the draft.
func (d Draft) Application(userID string) *JobApplication {
	n := d.Normalize()
	return &JobApplication{
		UserID:      userID,
		Company:     n.Company,
		Title:       n.Title,
		URL:         optional(n.URL),
		Status:      n.Status,
		DateApplied: optional(n.DateApplied),
		Notes:       optional(n.Notes),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
