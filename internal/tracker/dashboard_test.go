package tracker_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memStore keeps records per user, newest first, and counts fetches.
type memStore struct {
	mu      sync.Mutex
	seq     int
	rows    []domain.JobApplication
	fetches int
}

func (s *memStore) FetchAll(ctx context.Context, session domain.Session) ([]domain.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	var out []domain.JobApplication
	for _, r := range s.rows {
		if r.UserID == session.UserID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) Insert(ctx context.Context, session domain.Session, draft domain.Draft) (*domain.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	app := draft.Application(session.UserID)
	app.ID = fmt.Sprintf("id-%03d", s.seq)
	s.rows = append([]domain.JobApplication{*app}, s.rows...)
	return app, nil
}

func (s *memStore) Update(ctx context.Context, session domain.Session, id string, patch domain.ApplicationPatch) (*domain.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.ID == id && r.UserID == session.UserID {
			if patch.Status != nil {
				s.rows[i].Status = *patch.Status
			}
			if patch.Title != nil {
				s.rows[i].Title = *patch.Title
			}
			out := s.rows[i]
			return &out, nil
		}
	}
	return nil, &domain.RemoteError{Op: "update", Status: 404, Message: "Application not found"}
}

func (s *memStore) Delete(ctx context.Context, session domain.Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, r := range s.rows {
		if !(r.ID == id && r.UserID == session.UserID) {
			kept = append(kept, r)
		}
	}
	s.rows = kept
	return nil
}

func TestDashboardAcmeScenario(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()
	dash := tracker.NewDashboard(store, testSession)

	form := dash.Form()
	require.NoError(t, form.Set("company", "Initech"))
	require.NoError(t, form.Set("title", "Analyst"))
	_, err := dash.Submit(ctx)
	require.NoError(t, err)

	require.NoError(t, form.Set("company", "Acme"))
	require.NoError(t, form.Set("title", "Engineer"))
	saved, err := dash.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSaved, saved.Status)

	view := dash.View()
	require.Len(t, view, 2)
	assert.Equal(t, "Acme", view[0].Company)

	dash.SetFilter(domain.Filter(domain.StatusApplied))
	assert.Empty(t, dash.View())

	dash.SetFilter(domain.FilterAll)
	assert.Equal(t, "Acme", dash.View()[0].Company)
}

func TestDashboardUpdateFetchesOnce(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()
	dash := tracker.NewDashboard(store, testSession)

	require.NoError(t, dash.Form().Set("company", "Acme"))
	require.NoError(t, dash.Form().Set("title", "Engineer"))
	saved, err := dash.Submit(ctx)
	require.NoError(t, err)

	_, err = dash.EditRecord(saved.ID[:5])
	require.NoError(t, err)
	require.NoError(t, dash.Form().Set("status", "interviewing"))

	before := store.fetches
	_, err = dash.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, before+1, store.fetches)
	assert.Equal(t, tracker.ModeCreate, dash.Form().Mode())
	assert.Equal(t, domain.StatusInterviewing, dash.View()[0].Status)
	assert.Equal(t, 1, dash.Stats().ByStatus[domain.StatusInterviewing])
}

func TestDashboardDeleteRefreshes(t *testing.T) {
	store := &memStore{}
	ctx := context.Background()
	dash := tracker.NewDashboard(store, testSession)

	require.NoError(t, dash.Form().Set("company", "Acme"))
	require.NoError(t, dash.Form().Set("title", "Engineer"))
	saved, err := dash.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, dash.View(), 1)

	require.NoError(t, dash.Delete(ctx, saved.ID))
	assert.Empty(t, dash.View())

	// deleting again is a no-op
	require.NoError(t, dash.Delete(ctx, saved.ID))
}

func TestDashboardFailedRefreshKeepsStaleRecords(t *testing.T) {
	store := new(MockStore)
	ctx := context.Background()
	dash := tracker.NewDashboard(store, testSession)

	first := []domain.JobApplication{{ID: "a1", Company: "Acme", Status: domain.StatusSaved}}
	store.On("FetchAll", mock.Anything, testSession).Return(first, nil).Once()
	store.On("FetchAll", mock.Anything, testSession).
		Return(nil, &domain.RemoteError{Op: "fetch-all", Status: 503, Message: "unavailable"}).Once()

	require.NoError(t, dash.Refresh(ctx))
	err := dash.Refresh(ctx)

	_, ok := domain.IsRemoteError(err)
	assert.True(t, ok)
	assert.Equal(t, first, dash.View())
}

func TestDashboardLookup(t *testing.T) {
	store := new(MockStore)
	dash := tracker.NewDashboard(store, testSession)
	store.On("FetchAll", mock.Anything, testSession).Return([]domain.JobApplication{
		{ID: "abc-1"}, {ID: "abc-2"}, {ID: "def-1"},
	}, nil)
	require.NoError(t, dash.Refresh(context.Background()))

	app, err := dash.Lookup("def")
	require.NoError(t, err)
	assert.Equal(t, "def-1", app.ID)

	app, err = dash.Lookup("abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", app.ID)

	_, err = dash.Lookup("abc")
	assert.ErrorContains(t, err, "matches 2 records")

	_, err = dash.Lookup("zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
