package v1

import (
	"job-portal/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterJobs(r fiber.Router, personalizedJobsHandler *handler.PersonalizedJobsHandler) {
	if r == nil {
		return
	}
	if personalizedJobsHandler == nil {
		return
	}

	personalizedJobsHandler.RegisterRoutes(r)
}
