package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/usecase"
	"job-tracker-backend/pkg/apperror"
	"job-tracker-backend/pkg/supabase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Mock Repositories
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) FetchByUser(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, userID, id string) (*domain.JobApplication, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) Update(ctx context.Context, userID, id string, patch domain.ApplicationPatch) (*domain.JobApplication, error) {
	args := m.Called(ctx, userID, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}

func (m *MockApplicationRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

var session = domain.Session{UserID: "user1", Email: "me@example.com", AccessToken: "token"}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func sampleApps() []domain.JobApplication {
	return []domain.JobApplication{
		{ID: "a3", UserID: "user1", Company: "Acme", Title: "Engineer", Status: domain.StatusSaved},
		{ID: "a2", UserID: "user1", Company: "Globex", Title: "SRE", Status: domain.StatusApplied},
		{ID: "a1", UserID: "user1", Company: "Initech", Title: "Dev", Status: domain.StatusApplied},
	}
}

func TestApplicationSessionRequired(t *testing.T) {
	repo := new(MockApplicationRepo)
	uc := usecase.NewApplicationUsecase(repo)

	_, err := uc.FetchAll(context.Background(), domain.Session{})
	assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
	repo.AssertNotCalled(t, "FetchByUser", mock.Anything, mock.Anything)
}

func TestApplicationInsert(t *testing.T) {
	t.Run("Blank company or title never reaches the repository", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)

		_, err := uc.Insert(context.Background(), session, domain.Draft{Company: "  ", Title: "Engineer"})
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		assert.ErrorIs(t, err, domain.ErrRequiredField)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Attaches the session user and defaults status", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.JobApplication) bool {
			return a.UserID == "user1" && a.Company == "Acme" && a.Status == domain.StatusSaved &&
				a.URL == nil && a.Notes != nil && *a.Notes == "referral"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.JobApplication).ID = "new-id"
		}).Return(nil).Once()

		app, err := uc.Insert(context.Background(), session, domain.Draft{Company: " Acme ", Title: "Engineer", Notes: "referral"})
		require.NoError(t, err)
		assert.Equal(t, "new-id", app.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Repository failure is an internal error", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := uc.Insert(context.Background(), session, domain.Draft{Company: "Acme", Title: "Engineer"})
		assert.Equal(t, http.StatusInternalServerError, appErrCode(t, err))
	})
}

func TestApplicationUpdate(t *testing.T) {
	t.Run("Missing record maps to not found", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)
		status := domain.StatusOffer
		repo.On("Update", mock.Anything, "user1", "missing", domain.ApplicationPatch{Status: &status}).
			Return(nil, domain.ErrNotFound)

		_, err := uc.Update(context.Background(), session, "missing", domain.ApplicationPatch{Status: &status})
		assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
	})

	t.Run("Blanking a required field is rejected", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)
		blank := "   "

		_, err := uc.Update(context.Background(), session, "a1", domain.ApplicationPatch{Title: &blank})
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Replace sends every editable field", func(t *testing.T) {
		repo := new(MockApplicationRepo)
		uc := usecase.NewApplicationUsecase(repo)
		repo.On("Update", mock.Anything, "user1", "a1", mock.MatchedBy(func(p domain.ApplicationPatch) bool {
			return p.URL != nil && *p.URL == "" && p.Status != nil && *p.Status == domain.StatusApplied
		})).Return(&domain.JobApplication{ID: "a1"}, nil).Once()

		app, err := uc.Replace(context.Background(), session, "a1", domain.Draft{Company: "Acme", Title: "Engineer", Status: domain.StatusApplied})
		require.NoError(t, err)
		assert.Equal(t, "a1", app.ID)
		repo.AssertExpectations(t)
	})
}

func TestApplicationDeleteIsIdempotent(t *testing.T) {
	repo := new(MockApplicationRepo)
	uc := usecase.NewApplicationUsecase(repo)
	repo.On("Delete", mock.Anything, "user1", "gone").Return(nil).Twice()

	assert.NoError(t, uc.Delete(context.Background(), session, "gone"))
	assert.NoError(t, uc.Delete(context.Background(), session, "gone"))
	repo.AssertExpectations(t)
}

func TestApplicationFetchFilteredAndStats(t *testing.T) {
	repo := new(MockApplicationRepo)
	uc := usecase.NewApplicationUsecase(repo)
	repo.On("FetchByUser", mock.Anything, "user1").Return(sampleApps(), nil)

	view, err := uc.FetchFiltered(context.Background(), session, domain.Filter(domain.StatusApplied))
	require.NoError(t, err)
	require.Len(t, view, 2)
	assert.Equal(t, "a2", view[0].ID)
	assert.Equal(t, "a1", view[1].ID)

	stats, err := uc.Stats(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[domain.StatusApplied])
	assert.Equal(t, 0, stats.ByStatus[domain.StatusOffer])
}

func TestApplicationFetchAllNeverReturnsNil(t *testing.T) {
	repo := new(MockApplicationRepo)
	uc := usecase.NewApplicationUsecase(repo)
	repo.On("FetchByUser", mock.Anything, "user1").Return(nil, nil)

	apps, err := uc.FetchAll(context.Background(), session)
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)
}

func TestApplicationExport(t *testing.T) {
	repo := new(MockApplicationRepo)
	uc := usecase.NewApplicationUsecase(repo)
	apps := sampleApps()
	notes := "met at meetup, followed up"
	apps[0].Notes = &notes
	repo.On("FetchByUser", mock.Anything, "user1").Return(apps, nil)

	t.Run("CSV of the filtered view", func(t *testing.T) {
		data, filename, err := uc.Export(context.Background(), session, domain.Filter(domain.StatusSaved), "csv")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filename, "job_applications_"))
		assert.True(t, strings.HasSuffix(filename, ".csv"))

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "COMPANY,TITLE,STATUS,DATE APPLIED,URL,NOTES,CREATED AT", lines[0])
		assert.Contains(t, lines[1], `Acme,Engineer,Saved,,,"met at meetup, followed up"`)
	})

	t.Run("XLSX is a zip container", func(t *testing.T) {
		data, filename, err := uc.Export(context.Background(), session, domain.FilterAll, "")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))
		assert.Equal(t, []byte("PK"), data[:2])
	})

	t.Run("Unknown format is a bad request", func(t *testing.T) {
		_, _, err := uc.Export(context.Background(), session, domain.FilterAll, "pdf")
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	})
}

func TestExportQuotesFormulaCells(t *testing.T) {
	notes := "-5 days since reply"
	url := "https://acme.example/jobs"
	apps := []domain.JobApplication{{
		Company: "=HYPERLINK(\"http://evil.example\")",
		Title:   "@SUM(A1:A2)",
		URL:     &url,
		Notes:   &notes,
		Status:  domain.StatusApplied,
	}}

	data, _, err := usecase.ExportApplications(apps, usecase.ExportCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], `"'=HYPERLINK(""http://evil.example"")",'@SUM(A1:A2),Applied,,https://acme.example/jobs,'-5 days since reply,`))

	data, _, err = usecase.ExportApplications(apps, usecase.ExportXLSX)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	company, err := f.GetCellValue("Applications", "A2")
	require.NoError(t, err)
	assert.Equal(t, "'=HYPERLINK(\"http://evil.example\")", company)
	formula, err := f.GetCellFormula("Applications", "A2")
	require.NoError(t, err)
	assert.Empty(t, formula)
	url2, err := f.GetCellValue("Applications", "E2")
	require.NoError(t, err)
	assert.Equal(t, url, url2)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*supabase.Token, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.Token), args.Error(1)
}

func (m *MockIdentityProvider) GetUser(ctx context.Context, accessToken string) (*supabase.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.User), args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func TestAuthSignIn(t *testing.T) {
	t.Run("Success maps the token to a session", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		uc := usecase.NewAuthUsecase(idp)
		idp.On("SignInWithPassword", mock.Anything, "me@example.com", "secret").Return(&supabase.Token{
			AccessToken: "at", RefreshToken: "rt", ExpiresAt: 1700000000,
			User: supabase.User{ID: "user1", Email: "me@example.com"},
		}, nil)

		res, err := uc.SignIn(context.Background(), " me@example.com ", "secret")
		require.NoError(t, err)
		assert.Equal(t, "at", res.AccessToken)
		assert.Equal(t, time.Unix(1700000000, 0), res.ExpiresAt)
		assert.Equal(t, "user1", res.Session().UserID)
	})

	t.Run("Rejected credentials are unauthorized", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		uc := usecase.NewAuthUsecase(idp)
		idp.On("SignInWithPassword", mock.Anything, "me@example.com", "wrong").
			Return(nil, &supabase.APIError{Status: http.StatusBadRequest, Message: "Invalid login credentials"})

		_, err := uc.SignIn(context.Background(), "me@example.com", "wrong")
		assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
	})

	t.Run("Transport failure is an upstream error", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		uc := usecase.NewAuthUsecase(idp)
		idp.On("SignInWithPassword", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: timeout"))

		_, err := uc.SignIn(context.Background(), "me@example.com", "secret")
		assert.Equal(t, http.StatusBadGateway, appErrCode(t, err))
	})

	t.Run("Missing password is a bad request", func(t *testing.T) {
		idp := new(MockIdentityProvider)
		uc := usecase.NewAuthUsecase(idp)

		_, err := uc.SignIn(context.Background(), "me@example.com", "")
		assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		idp.AssertNotCalled(t, "SignInWithPassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthCurrentUserAndSignOut(t *testing.T) {
	idp := new(MockIdentityProvider)
	uc := usecase.NewAuthUsecase(idp)
	idp.On("GetUser", mock.Anything, "token").Return(&supabase.User{ID: "user1", Email: "me@example.com"}, nil)
	idp.On("SignOut", mock.Anything, "token").Return(&supabase.APIError{Status: http.StatusInternalServerError, Message: "down"})

	user, err := uc.CurrentUser(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)

	err = uc.SignOut(context.Background(), session)
	assert.Equal(t, http.StatusBadGateway, appErrCode(t, err))

	assert.NoError(t, uc.SignOut(context.Background(), domain.Session{}))
}

func TestHealthCheck(t *testing.T) {
	uc := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    nil,
	})
	assert.Equal(t, map[string]string{"status": "ok", "database": "ok", "redis": "disabled"}, uc.Check(context.Background()))

	uc = usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": func(context.Context) error { return errors.New("down") },
	})
	res := uc.Check(context.Background())
	assert.Equal(t, "degraded", res["status"])
	assert.Equal(t, "unavailable", res["database"])
}
