package job

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Company struct {
	ID   uuid.UUID
	Name string
}

type Listing struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Requirements string
	Location     string
	Salary       string
	Type         string
	Status       Status
	Deadline     *time.Time
	CreatedAt    time.Time
}

func (l Listing) IsApproved() bool {
	return l.Status == StatusApproved
}

// WithCompany is a listing joined with its owning company for display.
type WithCompany struct {
	Listing
	Company Company
}
