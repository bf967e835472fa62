package handlers

import (
	"errors"
	"strconv"

	"pantrywatch/domain"
	"pantrywatch/internal/api/presenters"
	"pantrywatch/pkg/suggestion"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SuggestionHandler interface {
		GetSuggestions(c *fiber.Ctx) error
		RunBatchSweep(c *fiber.Ctx) error
		GetNotificationHistory(c *fiber.Ctx) error
	}

	suggestionHandler struct {
		suggestionService suggestion.SuggestionService
		validator         *validator.Validate
	}
)

func NewSuggestionHandler(suggestionService suggestion.SuggestionService, validator *validator.Validate) SuggestionHandler {
	return &suggestionHandler{
		suggestionService: suggestionService,
		validator:         validator,
	}
}

func (h *suggestionHandler) GetSuggestions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// Body is optional: an empty body means the default expiry window.
	req := domain.SuggestionRequest{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
		if err := h.validator.Struct(&req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSuggestions, err)
		}
	}

	res, err := h.suggestionService.SuggestForUser(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			return presenters.ErrorResponse(c, fiber.StatusTooManyRequests, domain.MessageFailedGetSuggestions, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetSuggestions, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSuggestions)
}

func (h *suggestionHandler) RunBatchSweep(c *fiber.Ctx) error {
	metrics, err := h.suggestionService.RunBatchSweep(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRunSweep, err)
	}

	return presenters.SuccessResponse(c, metrics, fiber.StatusOK, domain.MessageSuccessRunSweep)
}

func (h *suggestionHandler) GetNotificationHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	res, err := h.suggestionService.GetNotificationHistory(c.Context(), userID, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetHistory, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetHistory)
}
