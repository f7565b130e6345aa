package seeder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/domain/token"
)

// PasswordResetTokensSeeder leaves one live and one expired token so the
// token sweep has work on a fresh database.
type PasswordResetTokensSeeder struct {
	Now func() time.Time
}

func (PasswordResetTokensSeeder) Name() string { return "password_reset_tokens" }

func (s PasswordResetTokensSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "password_reset_tokens", "token_hash", "user_id", "expires", "used"); err != nil {
		return err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now().UTC()

	tokens := []token.PasswordResetToken{
		{TokenHash: hashToken("demo-live"), UserID: seedID("user", "ayu"), Expires: t.Add(time.Hour)},
		{TokenHash: hashToken("demo-expired"), UserID: seedID("user", "budi"), Expires: t.Add(-time.Hour)},
	}

	return inTx(ctx, db, func(tx database.Tx) error {
		for _, tok := range tokens {
			if _, err := tx.Exec(ctx,
				`INSERT INTO password_reset_tokens (token_hash, user_id, expires, used) VALUES ($1, $2, $3, $4)
				 ON CONFLICT (token_hash) DO UPDATE SET expires = EXCLUDED.expires`,
				tok.TokenHash, tok.UserID, tok.Expires, tok.Used,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
