package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeJobMatch          Type = "job_match"
	TypeApplicationStatus Type = "application_status"
	TypeGeneral           Type = "general"
)

type Notification struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	JobID           uuid.UUID
	Type            Type
	Title           string
	Message         string
	IsRead          bool
	MatchScore      *float64
	MatchPercentage *float64
	MatchedSkills   []string
	CreatedAt       time.Time
}

// View is a mailbox entry with the job and company it refers to.
type View struct {
	Notification
	JobTitle    string
	CompanyID   uuid.UUID
	CompanyName string
}
