package tracker

import (
	"context"
	"fmt"
	"strings"

	"job-tracker-backend/internal/domain"
)

// Dashboard is the client state of one signed-in user: the projector, the
// form, and the explicit fetch-then-project pipeline between them and the
// store.
type Dashboard struct {
	store     Store
	session   domain.Session
	projector *Projector
	form      *FormController
}

func NewDashboard(store Store, session domain.Session) *Dashboard {
	d := &Dashboard{
		store:     store,
		session:   session,
		projector: NewProjector(),
	}
	d.form = NewFormController(store, d.Refresh)
	return d
}

func (d *Dashboard) Session() domain.Session {
	return d.session
}

func (d *Dashboard) Form() *FormController {
	return d.form
}

func (d *Dashboard) Projector() *Projector {
	return d.projector
}

// Refresh fetches the full set and recomputes the view. A failed fetch leaves
// the previously fetched records in place.
func (d *Dashboard) Refresh(ctx context.Context) error {
	records, err := d.store.FetchAll(ctx, d.session)
	if err != nil {
		return err
	}
	d.projector.SetRecords(records)
	return nil
}

// Submit saves the form draft; the form triggers the refresh.
func (d *Dashboard) Submit(ctx context.Context) (*domain.JobApplication, error) {
	return d.form.Submit(ctx, d.session)
}

// Delete removes a record and re-fetches.
func (d *Dashboard) Delete(ctx context.Context, id string) error {
	if err := d.store.Delete(ctx, d.session, id); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

// EditRecord moves the form into Edit mode for the record matching ref.
func (d *Dashboard) EditRecord(ref string) (domain.JobApplication, error) {
	app, err := d.Lookup(ref)
	if err != nil {
		return domain.JobApplication{}, err
	}
	if err := d.form.Edit(app); err != nil {
		return domain.JobApplication{}, err
	}
	return app, nil
}

// Lookup finds a fetched record by full id or by a unique id prefix.
func (d *Dashboard) Lookup(ref string) (domain.JobApplication, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.JobApplication{}, domain.ErrNotFound
	}

	var matches []domain.JobApplication
	for _, rec := range d.projector.Records() {
		if rec.ID == ref {
			return rec, nil
		}
		if strings.HasPrefix(rec.ID, ref) {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 0:
		return domain.JobApplication{}, domain.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return domain.JobApplication{}, fmt.Errorf("id prefix %q matches %d records", ref, len(matches))
	}
}

func (d *Dashboard) SetFilter(filter domain.Filter) {
	d.projector.SetFilter(filter)
}

func (d *Dashboard) View() []domain.JobApplication {
	return d.projector.View()
}

func (d *Dashboard) Stats() domain.ApplicationStats {
	return d.projector.Stats()
}
