package handler

import (
	"strconv"

	"job-portal/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func currentUserID(c fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return userID, nil
}

// pageParams reads ?page and ?limit. Missing values are left at zero so the
// usecase applies its own defaults; malformed ones are a 400.
func pageParams(c fiber.Ctx) (int, int, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return 0, 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid page", nil, err)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	return page, limit, nil
}

func queryInt(c fiber.Ctx, key string) (int, error) {
	s := c.Query(key)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
