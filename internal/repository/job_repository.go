package repository

import (
	"context"
	"errors"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/domain/job"

	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	FindWithCompany(ctx context.Context, jobID uuid.UUID) (job.WithCompany, error)
	ListApprovedSince(ctx context.Context, since time.Time) ([]job.WithCompany, error)
	ListApproved(ctx context.Context) ([]job.WithCompany, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const selectJobWithCompany = `SELECT j.id, j.title, j.description, j.requirements, j.location, j.salary, j.job_type,
		j.status, j.deadline, j.created_at, c.id, c.name
	 FROM jobs j
	 JOIN companies c ON c.id = j.company_id`

func (r *PostgresJobRepository) FindWithCompany(ctx context.Context, jobID uuid.UUID) (job.WithCompany, error) {
	row := r.db.QueryRow(ctx, selectJobWithCompany+` WHERE j.id = $1`, jobID)

	j, err := scanJobWithCompany(row)
	if err != nil {
		if database.IsNoRows(err) {
			return job.WithCompany{}, ErrJobNotFound
		}
		return job.WithCompany{}, err
	}
	return j, nil
}

// ListApprovedSince returns approved jobs created at or after since, newest first.
func (r *PostgresJobRepository) ListApprovedSince(ctx context.Context, since time.Time) ([]job.WithCompany, error) {
	rows, err := r.db.Query(ctx,
		selectJobWithCompany+` WHERE j.status = $1 AND j.created_at >= $2 ORDER BY j.created_at DESC`,
		string(job.StatusApproved), since,
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (r *PostgresJobRepository) ListApproved(ctx context.Context) ([]job.WithCompany, error) {
	rows, err := r.db.Query(ctx,
		selectJobWithCompany+` WHERE j.status = $1 ORDER BY j.created_at DESC`,
		string(job.StatusApproved),
	)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func collectJobs(rows database.Rows) ([]job.WithCompany, error) {
	defer rows.Close()

	out := make([]job.WithCompany, 0)
	for rows.Next() {
		j, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJobWithCompany(row database.Row) (job.WithCompany, error) {
	var (
		j      job.WithCompany
		status string
	)
	if err := row.Scan(
		&j.ID, &j.Title, &j.Description, &j.Requirements, &j.Location, &j.Salary, &j.Type,
		&status, &j.Deadline, &j.CreatedAt, &j.Company.ID, &j.Company.Name,
	); err != nil {
		return job.WithCompany{}, err
	}
	j.Status = job.Status(status)
	return j, nil
}
