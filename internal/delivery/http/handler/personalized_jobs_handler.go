package handler

import (
	"errors"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/pkg/response"
	"job-portal/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	MessageEmptySkillProfile = "Please add your skills to get personalized job suggestions"
	ActionAddSkills          = "add_skills"
)

type PersonalizedJobsHandler struct {
	uc usecase.PersonalizedJobsUsecase
}

func NewPersonalizedJobsHandler(uc usecase.PersonalizedJobsUsecase) *PersonalizedJobsHandler {
	return &PersonalizedJobsHandler{uc: uc}
}

func (h *PersonalizedJobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs/personalized", h.List)
}

func (h *PersonalizedJobsHandler) List(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	res, err := h.uc.Suggest(c.Context(), userID, page, limit)
	if err != nil {
		return mapPersonalizedJobsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPersonalizedJobsResponse(res))
}

func mapPersonalizedJobsUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUserSkillProfileEmpty):
		return middleware.NewAppError(fiber.StatusBadRequest, MessageEmptySkillProfile, dto.EmptyProfileResponse{Action: ActionAddSkills}, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
