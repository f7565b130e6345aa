package v1

import (
	"job-portal/internal/delivery/http/handler"
	"job-portal/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Notifications    *handler.NotificationHandler
	PersonalizedJobs *handler.PersonalizedJobsHandler
}

// Register mounts the v1 API. Every v1 route requires an access token.
func Register(r fiber.Router, authMw *middleware.AuthMiddleware, h Handlers) {
	if r == nil || authMw == nil {
		return
	}

	protected := r.Group("", authMw.Middleware())

	RegisterNotifications(protected, h.Notifications)
	RegisterJobs(protected, h.PersonalizedJobs)
}
