package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrRequiredField  = errors.New("required field missing")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidFilter  = errors.New("invalid status filter")
	ErrInvalidField   = errors.New("unknown field")
	ErrSubmitInFlight = errors.New("a submit is already in progress")
)

// Status is the pipeline stage of a job application.
type Status string

const (
	StatusSaved        Status = "saved"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusRejected     Status = "rejected"
	StatusOffer        Status = "offer"
)

// StatusOption pairs a status with its display label.
type StatusOption struct {
	Value Status `json:"value"`
	Label string `json:"label"`
}

// StatusOptions lists every status in pipeline order.
var StatusOptions = []StatusOption{
	{Value: StatusSaved, Label: "Saved"},
	{Value: StatusApplied, Label: "Applied"},
	{Value: StatusInterviewing, Label: "Interviewing"},
	{Value: StatusRejected, Label: "Rejected"},
	{Value: StatusOffer, Label: "Offer"},
}

func (s Status) Valid() bool {
	for _, opt := range StatusOptions {
		if opt.Value == s {
			return true
		}
	}
	return false
}

func (s Status) Label() string {
	for _, opt := range StatusOptions {
		if opt.Value == s {
			return opt.Label
		}
	}
	return string(s)
}

// ParseStatus accepts a status value case-insensitively.
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
	return s, nil
}

// FilterAll selects every record.
const FilterAll Filter = "all"

// Filter is either FilterAll or a single Status value.
type Filter string

// ParseFilter treats an empty value as FilterAll.
func ParseFilter(v string) (Filter, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || Filter(v) == FilterAll {
		return FilterAll, nil
	}
	if !Status(v).Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, v)
	}
	return Filter(v), nil
}

// Matches reports whether a record with status s belongs to the filtered view.
func (f Filter) Matches(s Status) bool {
	return f == FilterAll || f == "" || Status(f) == s
}

// JobApplication is one tracked application row, owned by a single user.
type JobApplication struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	URL         *string   `json:"url"`
	Status      Status    `json:"status"`
	DateApplied *string   `json:"date_applied"` // YYYY-MM-DD
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApplicationPatch carries a partial update. Nil fields are left unchanged;
// an empty string clears an optional field.
type ApplicationPatch struct {
	Company     *string `json:"company,omitempty"`
	Title       *string `json:"title,omitempty"`
	URL         *string `json:"url,omitempty"`
	Status      *Status `json:"status,omitempty"`
	DateApplied *string `json:"date_applied,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (p ApplicationPatch) IsEmpty() bool {
	return p.Company == nil && p.Title == nil && p.URL == nil &&
		p.Status == nil && p.DateApplied == nil && p.Notes == nil
}

// Validate rejects patches that would blank a required field or set an unknown status.
func (p ApplicationPatch) Validate() error {
	var missing []string
	if p.Company != nil && strings.TrimSpace(*p.Company) == "" {
		missing = append(missing, "company")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequiredField, strings.Join(missing, ", "))
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(*p.Status))
	}
	return nil
}

// ApplicationStats holds the dashboard counters computed over the full record set.
type ApplicationStats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}

type ApplicationRepository interface {
	FetchByUser(ctx context.Context, userID string) ([]JobApplication, error)
	GetByID(ctx context.Context, userID, id string) (*JobApplication, error)
	Create(ctx context.Context, app *JobApplication) error
	Update(ctx context.Context, userID, id string, patch ApplicationPatch) (*JobApplication, error)
	Delete(ctx context.Context, userID, id string) error
}

// ApplicationUsecase is the record store accessor. Every call is scoped to the
// explicitly passed session.
type ApplicationUsecase interface {
	FetchAll(ctx context.Context, session Session) ([]JobApplication, error)
	FetchFiltered(ctx context.Context, session Session, filter Filter) ([]JobApplication, error)
	Get(ctx context.Context, session Session, id string) (*JobApplication, error)
	Insert(ctx context.Context, session Session, draft Draft) (*JobApplication, error)
	Update(ctx context.Context, session Session, id string, patch ApplicationPatch) (*JobApplication, error)
	Replace(ctx context.Context, session Session, id string, draft Draft) (*JobApplication, error)
	Delete(ctx context.Context, session Session, id string) error
	Stats(ctx context.Context, session Session) (*ApplicationStats, error)
	Export(ctx context.Context, session Session, filter Filter, format string) ([]byte, string, error)
}
