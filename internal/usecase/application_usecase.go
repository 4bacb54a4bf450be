package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/tracker"
	"job-tracker-backend/pkg/apperror"
)

type applicationUsecase struct {
	repo domain.ApplicationRepository
}

func NewApplicationUsecase(repo domain.ApplicationRepository) domain.ApplicationUsecase {
	return &applicationUsecase{repo: repo}
}

func requireSession(session domain.Session) error {
	if session.IsZero() {
		return apperror.Unauthorized("User not authenticated")
	}
	return nil
}

// mapError turns repository and domain errors into API errors.
func mapError(op string, err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domain.ErrNotFound):
		return apperror.New(http.StatusNotFound, "Application not found", err)
	case errors.Is(err, domain.ErrRequiredField), errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidFilter):
		return apperror.New(http.StatusBadRequest, err.Error(), err)
	default:
		return apperror.Internal(fmt.Errorf("failed to %s: %w", op, err))
	}
}

func (u *applicationUsecase) FetchAll(ctx context.Context, session domain.Session) ([]domain.JobApplication, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	apps, err := u.repo.FetchByUser(ctx, session.UserID)
	if err != nil {
		return nil, mapError("fetch applications", err)
	}
	if apps == nil {
		apps = []domain.JobApplication{}
	}
	return apps, nil
}

// FetchFiltered fetches the full set and derives the filtered view from it.
func (u *applicationUsecase) FetchFiltered(ctx context.Context, session domain.Session, filter domain.Filter) ([]domain.JobApplication, error) {
	apps, err := u.FetchAll(ctx, session)
	if err != nil {
		return nil, err
	}
	return tracker.Project(apps, filter), nil
}

func (u *applicationUsecase) Get(ctx context.Context, session domain.Session, id string) (*domain.JobApplication, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	app, err := u.repo.GetByID(ctx, session.UserID, id)
	if err != nil {
		return nil, mapError("fetch application", err)
	}
	return app, nil
}

func (u *applicationUsecase) Insert(ctx context.Context, session domain.Session, draft domain.Draft) (*domain.JobApplication, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, mapError("validate application", err)
	}

	app := draft.Application(session.UserID)
	if err := u.repo.Create(ctx, app); err != nil {
		return nil, mapError("create application", err)
	}
	return app, nil
}

func (u *applicationUsecase) Update(ctx context.Context, session domain.Session, id string, patch domain.ApplicationPatch) (*domain.JobApplication, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	patch = trimPatch(patch)
	if err := patch.Validate(); err != nil {
		return nil, mapError("validate application", err)
	}

	app, err := u.repo.Update(ctx, session.UserID, id, patch)
	if err != nil {
		return nil, mapError("update application", err)
	}
	return app, nil
}

// Replace rewrites every editable field from draft.
func (u *applicationUsecase) Replace(ctx context.Context, session domain.Session, id string, draft domain.Draft) (*domain.JobApplication, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if err := draft.Normalize().Validate(); err != nil {
		return nil, mapError("validate application", err)
	}

	app, err := u.repo.Update(ctx, session.UserID, id, draft.Patch())
	if err != nil {
		return nil, mapError("replace application", err)
	}
	return app, nil
}

// Delete succeeds whether or not the record still exists.
func (u *applicationUsecase) Delete(ctx context.Context, session domain.Session, id string) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, session.UserID, id); err != nil {
		return mapError("delete application", err)
	}
	return nil
}

func (u *applicationUsecase) Stats(ctx context.Context, session domain.Session) (*domain.ApplicationStats, error) {
	apps, err := u.FetchAll(ctx, session)
	if err != nil {
		return nil, err
	}
	stats := tracker.Tally(apps)
	return &stats, nil
}

func (u *applicationUsecase) Export(ctx context.Context, session domain.Session, filter domain.Filter, format string) ([]byte, string, error) {
	apps, err := u.FetchFiltered(ctx, session, filter)
	if err != nil {
		return nil, "", err
	}
	data, filename, err := ExportApplications(apps, format)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, "", appErr
		}
		return nil, "", apperror.Internal(err)
	}
	return data, filename, nil
}

func trimPatch(p domain.ApplicationPatch) domain.ApplicationPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	p.Company = trim(p.Company)
	p.Title = trim(p.Title)
	p.URL = trim(p.URL)
	p.DateApplied = trim(p.DateApplied)
	p.Notes = trim(p.Notes)
	return p
}
