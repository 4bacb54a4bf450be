// Package tracker holds the client-side state of the job tracker: the
// projector that derives the filtered view from the last fetched record set,
// the form controller that edits one draft, and the dashboard that wires both
// to a remote store.
package tracker

import (
	"sync"

	"job-tracker-backend/internal/domain"
)

// Project returns the records matching filter in their original order.
// FilterAll returns a copy of the full set.
func Project(records []domain.JobApplication, filter domain.Filter) []domain.JobApplication {
	view := make([]domain.JobApplication, 0, len(records))
	for _, rec := range records {
		if filter.Matches(rec.Status) {
			view = append(view, rec)
		}
	}
	return view
}

// Tally counts records per status. Every known status is present in the map.
func Tally(records []domain.JobApplication) domain.ApplicationStats {
	stats := domain.ApplicationStats{
		Total:    len(records),
		ByStatus: make(map[domain.Status]int, len(domain.StatusOptions)),
	}
	for _, opt := range domain.StatusOptions {
		stats.ByStatus[opt.Value] = 0
	}
	for _, rec := range records {
		stats.ByStatus[rec.Status]++
	}
	return stats
}

// Projector keeps the last fetched record set and the selected filter, and
// recomputes the derived view whenever either changes.
type Projector struct {
	mu      sync.RWMutex
	records []domain.JobApplication
	filter  domain.Filter
	view    []domain.JobApplication
}

func NewProjector() *Projector {
	return &Projector{
		filter:  domain.FilterAll,
		records: []domain.JobApplication{},
		view:    []domain.JobApplication{},
	}
}

// SetRecords replaces the full set. Whichever call lands last wins.
func (p *Projector) SetRecords(records []domain.JobApplication) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.records = clone(records)
	p.view = Project(p.records, p.filter)
}

func (p *Projector) SetFilter(filter domain.Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filter = filter
	p.view = Project(p.records, p.filter)
}

func (p *Projector) Filter() domain.Filter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.filter
}

// View returns a copy of the derived view.
func (p *Projector) View() []domain.JobApplication {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return clone(p.view)
}

// Records returns a copy of the full set.
func (p *Projector) Records() []domain.JobApplication {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return clone(p.records)
}

// Stats counts over the full set, not the filtered view.
func (p *Projector) Stats() domain.ApplicationStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Tally(p.records)
}

func clone(records []domain.JobApplication) []domain.JobApplication {
	out := make([]domain.JobApplication, len(records))
	copy(out, records)
	return out
}
