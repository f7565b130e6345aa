package seeder

import (
	"context"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/domain/job"
)

type demoCompany struct {
	Key  string
	Name string
}

type demoJob struct {
	Key          string
	CompanyKey   string
	Title        string
	Description  string
	Requirements string
	Location     string
	Salary       string
	Type         string
	Status       job.Status
	AgeDays      int
}

var demoCompanies = []demoCompany{
	{Key: "nusantara", Name: "Nusantara Digital"},
	{Key: "lautan", Name: "Lautan Cloud"},
	{Key: "merapi", Name: "Merapi Labs"},
}

var demoJobs = []demoJob{
	{
		Key: "go-backend", CompanyKey: "nusantara",
		Title:        "Senior Go Backend Engineer",
		Description:  "Own payment services running on Kubernetes.",
		Requirements: "PostgreSQL, Redis, gRPC",
		Location:     "Jakarta", Salary: "IDR 35-45jt", Type: "full_time",
		Status: job.StatusApproved, AgeDays: 2,
	},
	{
		Key: "platform", CompanyKey: "lautan",
		Title:        "Platform Engineer",
		Description:  "Build internal tooling with Terraform and Docker.",
		Requirements: "AWS, Kubernetes, Go",
		Location:     "Remote", Salary: "USD 4-6k", Type: "full_time",
		Status: job.StatusApproved, AgeDays: 10,
	},
	{
		Key: "frontend", CompanyKey: "merapi",
		Title:        "React Frontend Developer",
		Description:  "Design system work in TypeScript.",
		Requirements: "React, CSS, testing-library",
		Location:     "Yogyakarta", Salary: "IDR 15-20jt", Type: "contract",
		Status: job.StatusApproved, AgeDays: 40,
	},
	{
		Key: "data", CompanyKey: "merapi",
		Title:        "Data Engineer",
		Description:  "Batch pipelines in Python and Airflow.",
		Requirements: "Python, SQL, Spark",
		Location:     "Bandung", Salary: "IDR 20-30jt", Type: "full_time",
		Status: job.StatusPending, AgeDays: 1,
	},
}

type CompaniesSeeder struct{}

func (CompaniesSeeder) Name() string { return "companies" }

func (CompaniesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "companies", "id", "name"); err != nil {
		return err
	}
	return inTx(ctx, db, func(tx database.Tx) error {
		for _, c := range demoCompanies {
			if _, err := tx.Exec(ctx,
				`INSERT INTO companies (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
				seedID("company", c.Key), c.Name,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// JobsSeeder inserts jobs with backdated created_at so the recent-jobs window
// has something on both sides of it.
type JobsSeeder struct {
	Now func() time.Time
}

func (JobsSeeder) Name() string { return "jobs" }

func (s JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "jobs",
		"id", "company_id", "title", "description", "requirements",
		"location", "salary", "job_type", "status", "created_at",
	); err != nil {
		return err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	return inTx(ctx, db, func(tx database.Tx) error {
		for _, j := range demoJobs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobs (id, company_id, title, description, requirements, location, salary, job_type, status, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				 ON CONFLICT (id) DO NOTHING`,
				seedID("job", j.Key), seedID("company", j.CompanyKey),
				j.Title, j.Description, j.Requirements, j.Location, j.Salary, j.Type,
				string(j.Status), now().UTC().AddDate(0, 0, -j.AgeDays),
			); err != nil {
				return err
			}
		}
		return nil
	})
}
