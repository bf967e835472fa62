package domain

import (
	"errors"
	"time"
)

const (
	ItemStatusActive    = "active"
	ItemStatusUsed      = "used"
	ItemStatusDiscarded = "discarded"
)

var (
	MessageSuccessAddItem          = "item added successfully"
	MessageSuccessUpdateItem       = "item updated successfully"
	MessageSuccessDeleteItem       = "item deleted successfully"
	MessageSuccessGetItems         = "items retrieved successfully"
	MessageSuccessUpdateItemStatus = "item status updated successfully"

	MessageFailedAddItem          = "failed to add item"
	MessageFailedUpdateItem       = "failed to update item"
	MessageFailedDeleteItem       = "failed to delete item"
	MessageFailedGetItems         = "failed to retrieve items"
	MessageFailedUpdateItemStatus = "failed to update item status"

	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidExpiryDate  = errors.New("invalid expiry date")
	ErrInvalidItemStatus  = errors.New("invalid item status")
	ErrUnauthorizedAccess = errors.New("unauthorized access to item")
)

type (
	AddItemRequest struct {
		Name       string `json:"name" validate:"required"`
		ExpiryDate string `json:"expiry_date" validate:"required"`
	}

	UpdateItemRequest struct {
		Name       string `json:"name" validate:"omitempty"`
		ExpiryDate string `json:"expiry_date" validate:"omitempty"`
		Status     string `json:"status" validate:"omitempty,oneof=active used discarded"`
	}

	UpdateItemStatusRequest struct {
		ItemID string `json:"item_id" validate:"required,uuid"`
		Status string `json:"status" validate:"required,oneof=used discarded"`
	}

	ItemResponse struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		ExpiryDate time.Time `json:"expiry_date"`
		Status     string    `json:"status"`
		CreatedAt  time.Time `json:"created_at"`
	}
)
