package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-tracker-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgxpool.Pool used by the repository.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

type applicationRepo struct {
	db DBTX
}

func NewApplicationRepository(db DBTX) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationColumns = `id::text, user_id::text, company, title, url, status,
	to_char(date_applied, 'YYYY-MM-DD'), notes, created_at, updated_at`

func scanApplication(row pgx.Row) (*domain.JobApplication, error) {
	var app domain.JobApplication
	var status string
	err := row.Scan(
		&app.ID, &app.UserID, &app.Company, &app.Title, &app.URL, &status,
		&app.DateApplied, &app.Notes, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	app.Status = domain.Status(status)
	return &app, nil
}

func (r *applicationRepo) FetchByUser(ctx context.Context, userID string) ([]domain.JobApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM job_applications
		WHERE user_id = $1::uuid
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]domain.JobApplication, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepo) GetByID(ctx context.Context, userID, id string) (*domain.JobApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM job_applications
		WHERE id = $1::uuid AND user_id = $2::uuid`

	app, err := scanApplication(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.JobApplication) error {
	query := `INSERT INTO job_applications (user_id, company, title, url, status, date_applied, notes)
		VALUES ($1::uuid, $2, $3, $4, $5, $6::date, $7)
		RETURNING id::text, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		app.UserID, app.Company, app.Title, app.URL, string(app.Status), app.DateApplied, app.Notes,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
}

// Update applies only the fields present in patch. Rows owned by another
// user are reported as not found.
func (r *applicationRepo) Update(ctx context.Context, userID, id string, patch domain.ApplicationPatch) (*domain.JobApplication, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, userID, id)
	}

	args := []any{id, userID}
	var sets []string
	set := func(column, cast string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", column, len(args), cast))
	}

	if patch.Company != nil {
		set("company", "", strings.TrimSpace(*patch.Company))
	}
	if patch.Title != nil {
		set("title", "", strings.TrimSpace(*patch.Title))
	}
	if patch.URL != nil {
		set("url", "", nullIfBlank(*patch.URL))
	}
	if patch.Status != nil {
		set("status", "", string(*patch.Status))
	}
	if patch.DateApplied != nil {
		set("date_applied", "::date", nullIfBlank(*patch.DateApplied))
	}
	if patch.Notes != nil {
		set("notes", "", nullIfBlank(*patch.Notes))
	}
	sets = append(sets, "updated_at = now()")

	query := `UPDATE job_applications SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1::uuid AND user_id = $2::uuid
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Delete is idempotent: removing a row that is already gone is not an error.
func (r *applicationRepo) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM job_applications WHERE id = $1::uuid AND user_id = $2::uuid`
	_, err := r.db.Exec(ctx, query, id, userID)
	return err
}

func nullIfBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
