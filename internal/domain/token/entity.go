package token

import (
	"time"

	"github.com/google/uuid"
)

type PasswordResetToken struct {
	TokenHash string
	UserID    uuid.UUID
	Expires   time.Time
	Used      bool
	CreatedAt time.Time
}

func (t PasswordResetToken) ExpiredAt(now time.Time) bool {
	return t.Expires.Before(now)
}
