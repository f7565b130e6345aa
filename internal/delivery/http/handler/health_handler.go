package handler

import (
	"context"
	"time"

	"job-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness plus the state of each dependency. Only the
// database is critical; anything else is reported as degraded.
type HealthHandler struct {
	db       Pinger
	optional map[string]Pinger
	timeout  time.Duration
}

func NewHealthHandler(db Pinger, optional map[string]Pinger) *HealthHandler {
	return &HealthHandler{db: db, optional: optional, timeout: 2 * time.Second}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	res := healthResponse{Status: "ok", Checks: map[string]string{}}
	status := fiber.StatusOK

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			res.Checks["database"] = "down"
			res.Status = "down"
			status = fiber.StatusServiceUnavailable
		} else {
			res.Checks["database"] = "up"
		}
	}
	for name, p := range h.optional {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			res.Checks[name] = "down"
			if res.Status == "ok" {
				res.Status = "degraded"
			}
			continue
		}
		res.Checks[name] = "up"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, res)
	}
	return response.Success(c, status, response.MessageOK, res)
}
