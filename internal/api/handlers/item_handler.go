package handlers

import (
	"strconv"

	"pantrywatch/domain"
	"pantrywatch/internal/api/presenters"
	"pantrywatch/pkg/item"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ItemHandler interface {
		AddItem(c *fiber.Ctx) error
		GetItems(c *fiber.Ctx) error
		GetItemByID(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		UpdateItemStatus(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
	}

	itemHandler struct {
		itemService item.ItemService
		validator   *validator.Validate
	}
)

func NewItemHandler(itemService item.ItemService, validator *validator.Validate) ItemHandler {
	return &itemHandler{
		itemService: itemService,
		validator:   validator,
	}
}

func (h *itemHandler) AddItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	res, err := h.itemService.AddItem(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddItem)
}

func (h *itemHandler) GetItems(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	status := c.Query("status", "all")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	items, count, err := h.itemService.GetItems(c.Context(), userID, status, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetItems, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) GetItemByID(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if itemID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetItems, domain.ErrItemNotFound)
	}

	res, err := h.itemService.GetItemByID(c.Context(), itemID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) UpdateItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")
	req := new(domain.UpdateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}

	if err := h.itemService.UpdateItem(c.Context(), itemID, *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateItem)
}

func (h *itemHandler) UpdateItemStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateItemStatusRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItemStatus, err)
	}

	if err := h.itemService.UpdateItemStatus(c.Context(), *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItemStatus, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateItemStatus)
}

func (h *itemHandler) DeleteItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.itemService.DeleteItem(c.Context(), itemID, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteItem)
}
