package repository

import (
	"context"
	"time"

	"job-portal/internal/database"
)

type PasswordResetTokenRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PostgresPasswordResetTokenRepository struct {
	db database.DB
}

func NewPostgresPasswordResetTokenRepository(db database.DB) *PostgresPasswordResetTokenRepository {
	return &PostgresPasswordResetTokenRepository{db: db}
}

// DeleteExpired removes tokens whose expiry is strictly before now, used or not.
func (r *PostgresPasswordResetTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM password_reset_tokens WHERE expires < $1`, now)
}
