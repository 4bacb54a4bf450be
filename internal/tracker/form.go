package tracker

import (
	"context"
	"sync"

	"job-tracker-backend/internal/domain"
)

// Store is the remote record store as seen by the client. Every call carries
// the session explicitly; failures come back as *domain.RemoteError.
type Store interface {
	FetchAll(ctx context.Context, session domain.Session) ([]domain.JobApplication, error)
	Insert(ctx context.Context, session domain.Session, draft domain.Draft) (*domain.JobApplication, error)
	Update(ctx context.Context, session domain.Session, id string, patch domain.ApplicationPatch) (*domain.JobApplication, error)
	Delete(ctx context.Context, session domain.Session, id string) error
}

// RefreshFunc re-fetches the full record set after a successful mutation.
type RefreshFunc func(ctx context.Context) error

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// FormController owns the draft of one record. In Create mode the draft
// starts from empty defaults; in Edit mode it starts from the selected
// record and the target id is remembered.
type FormController struct {
	store   Store
	refresh RefreshFunc

	mu      sync.Mutex
	mode    Mode
	editID  string
	draft   domain.Draft
	loading bool
}

func NewFormController(store Store, refresh RefreshFunc) *FormController {
	return &FormController{
		store:   store,
		refresh: refresh,
		mode:    ModeCreate,
		draft:   domain.EmptyDraft(),
	}
}

func (f *FormController) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// EditingID is empty in Create mode.
func (f *FormController) EditingID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editID
}

func (f *FormController) Draft() domain.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Loading is true while a submit is waiting on the store.
func (f *FormController) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Set changes one draft field. Unknown fields and statuses are rejected and
// leave the draft untouched. Set, Edit and Cancel fail with ErrSubmitInFlight
// while a submit is waiting on the store.
func (f *FormController) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loading {
		return domain.ErrSubmitInFlight
	}

	d := f.draft
	if err := d.Set(field, value); err != nil {
		return err
	}
	f.draft = d
	return nil
}

// Edit switches to Edit mode with the draft copied from app.
func (f *FormController) Edit(app domain.JobApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loading {
		return domain.ErrSubmitInFlight
	}

	f.mode = ModeEdit
	f.editID = app.ID
	f.draft = domain.DraftFrom(app)
	return nil
}

// Cancel discards the draft and returns to Create mode.
func (f *FormController) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loading {
		return domain.ErrSubmitInFlight
	}
	f.reset()
	return nil
}

func (f *FormController) reset() {
	f.mode = ModeCreate
	f.editID = ""
	f.draft = domain.EmptyDraft()
}

// Submit validates the draft and hands it to the store. A draft missing
// company or title never reaches the store. On failure the draft and mode
// are kept so the user can retry. On success the form returns to a fresh
// Create draft and the refresh hook runs once; the saved record is returned
// even if that refresh fails.
func (f *FormController) Submit(ctx context.Context, session domain.Session) (*domain.JobApplication, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil, domain.ErrSubmitInFlight
	}
	if err := f.draft.Validate(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	mode, id, draft := f.mode, f.editID, f.draft
	f.loading = true
	f.mu.Unlock()

	var saved *domain.JobApplication
	var err error
	if mode == ModeEdit {
		saved, err = f.store.Update(ctx, session, id, draft.Patch())
	} else {
		saved, err = f.store.Insert(ctx, session, draft.Normalize())
	}

	f.mu.Lock()
	f.loading = false
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.reset()
	f.mu.Unlock()

	if f.refresh != nil {
		if err := f.refresh(ctx); err != nil {
			return saved, err
		}
	}
	return saved, nil
}
