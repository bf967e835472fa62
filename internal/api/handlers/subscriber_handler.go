package handlers

import (
	"pantrywatch/domain"
	"pantrywatch/internal/api/presenters"
	"pantrywatch/pkg/subscriber"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SubscriberHandler interface {
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		UpdatePreferences(c *fiber.Ctx) error
	}

	subscriberHandler struct {
		subscriberService subscriber.SubscriberService
		validator         *validator.Validate
	}
)

func NewSubscriberHandler(subscriberService subscriber.SubscriberService, validator *validator.Validate) SubscriberHandler {
	return &subscriberHandler{
		subscriberService: subscriberService,
		validator:         validator,
	}
}

func (h *subscriberHandler) Subscribe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SubscribeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubscribe, err)
	}

	if err := h.subscriberService.Subscribe(c.Context(), *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubscribe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *subscriberHandler) Unsubscribe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UnsubscribeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnsubscribe, err)
	}

	if err := h.subscriberService.Unsubscribe(c.Context(), *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnsubscribe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUnsubscribe)
}

func (h *subscriberHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdatePreferencesRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdatePreferences, err)
	}

	if err := h.subscriberService.UpdatePreferences(c.Context(), *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdatePreferences, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdatePreferences)
}
