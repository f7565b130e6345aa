package seeder

import (
	"context"

	"job-portal/internal/database"

	"github.com/google/uuid"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Defaults seeds a small demo catalogue: companies with approved and pending
// jobs, and users with skill profiles that match some of them.
func Defaults() []Seeder {
	return []Seeder{
		CompaniesSeeder{},
		JobsSeeder{},
		UsersSeeder{},
		UserSkillsSeeder{},
		PasswordResetTokensSeeder{},
	}
}

var seedNamespace = uuid.MustParse("6f1c2a43-8d0e-4b8f-9a57-3f0d2b1c9e11")

// seedID derives a stable id so reseeding never duplicates rows.
func seedID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+key))
}
