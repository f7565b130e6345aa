package v1

import (
	"job-portal/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterNotifications(r fiber.Router, notificationHandler *handler.NotificationHandler) {
	if r == nil {
		return
	}
	if notificationHandler == nil {
		return
	}

	notificationHandler.RegisterRoutes(r)
}
