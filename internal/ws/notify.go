package ws

import (
	"context"
	"encoding/json"
	"time"

	"job-portal/internal/domain/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventNotificationCreated = "notification_created"

type NotificationPayload struct {
	ID              uuid.UUID  `json:"id"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	JobID           *uuid.UUID `json:"jobId,omitempty"`
	MatchPercentage *float64   `json:"matchPercentage,omitempty"`
	MatchedSkills   []string   `json:"matchedSkills"`
	CreatedAt       string     `json:"createdAt"`
}

type NotificationCreatedEvent struct {
	Type         string              `json:"type"`
	Notification NotificationPayload `json:"notification"`
	Timestamp    string              `json:"timestamp"`
}

// Pusher forwards freshly created notifications to the owner's open sessions.
type Pusher struct {
	hub *Hub
	log *zap.Logger
	now func() time.Time
}

func NewPusher(hub *Hub, log *zap.Logger) *Pusher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pusher{hub: hub, log: log, now: time.Now}
}

func (p *Pusher) NotificationCreated(_ context.Context, n notification.Notification) {
	if p == nil || p.hub == nil {
		return
	}
	if p.hub.SessionCount(n.UserID) == 0 {
		return
	}

	payload := NotificationPayload{
		ID:              n.ID,
		Type:            string(n.Type),
		Title:           n.Title,
		Message:         n.Message,
		MatchPercentage: n.MatchPercentage,
		MatchedSkills:   n.MatchedSkills,
		CreatedAt:       n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if payload.MatchedSkills == nil {
		payload.MatchedSkills = []string{}
	}
	if n.JobID != uuid.Nil {
		id := n.JobID
		payload.JobID = &id
	}

	b, err := json.Marshal(NotificationCreatedEvent{
		Type:         EventNotificationCreated,
		Notification: payload,
		Timestamp:    p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.log.Warn("ws encode notification failed", zap.Error(err))
		return
	}
	p.hub.SendToUser(n.UserID, b)
}
