package dto

import (
	"time"

	"job-portal/internal/domain/notification"
	"job-portal/internal/usecase"

	"github.com/google/uuid"
)

type NotificationJobResponse struct {
	ID      uuid.UUID               `json:"id"`
	Title   string                  `json:"title"`
	Company *NotificationCompanyRef `json:"company,omitempty"`
}

type NotificationCompanyRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type NotificationResponse struct {
	ID              uuid.UUID                `json:"id"`
	Type            string                   `json:"type"`
	Title           string                   `json:"title"`
	Message         string                   `json:"message"`
	IsRead          bool                     `json:"isRead"`
	MatchScore      *float64                 `json:"matchScore"`
	MatchPercentage *float64                 `json:"matchPercentage"`
	MatchedSkills   []string                 `json:"matchedSkills"`
	Job             *NotificationJobResponse `json:"job"`
	CreatedAt       time.Time                `json:"createdAt"`
}

type NotificationPaginationResponse struct {
	CurrentPage          int  `json:"currentPage"`
	TotalPages           int  `json:"totalPages"`
	TotalNotifications   int  `json:"totalNotifications"`
	NotificationsPerPage int  `json:"notificationsPerPage"`
	HasNextPage          bool `json:"hasNextPage"`
	HasPrevPage          bool `json:"hasPrevPage"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse         `json:"notifications"`
	Pagination    NotificationPaginationResponse `json:"pagination"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unreadCount"`
}

type AffectedResponse struct {
	Count int64 `json:"count"`
}

func NewNotificationResponse(v notification.View) NotificationResponse {
	res := NotificationResponse{
		ID:              v.ID,
		Type:            string(v.Type),
		Title:           v.Title,
		Message:         v.Message,
		IsRead:          v.IsRead,
		MatchScore:      v.MatchScore,
		MatchPercentage: v.MatchPercentage,
		MatchedSkills:   v.MatchedSkills,
		CreatedAt:       v.CreatedAt,
	}
	if res.MatchedSkills == nil {
		res.MatchedSkills = []string{}
	}
	if v.JobID != uuid.Nil {
		res.Job = &NotificationJobResponse{ID: v.JobID, Title: v.JobTitle}
		if v.CompanyID != uuid.Nil {
			res.Job.Company = &NotificationCompanyRef{ID: v.CompanyID, Name: v.CompanyName}
		}
	}
	return res
}

func NewNotificationListResponse(page usecase.NotificationPage) NotificationListResponse {
	items := make([]NotificationResponse, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, NewNotificationResponse(it))
	}
	p := page.Pagination
	return NotificationListResponse{
		Notifications: items,
		Pagination: NotificationPaginationResponse{
			CurrentPage:          p.CurrentPage,
			TotalPages:           p.TotalPages,
			TotalNotifications:   p.Total,
			NotificationsPerPage: p.PerPage,
			HasNextPage:          p.HasNextPage,
			HasPrevPage:          p.HasPrevPage,
		},
	}
}
