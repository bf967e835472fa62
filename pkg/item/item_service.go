package item

import (
	"context"
	"errors"
	"time"

	"pantrywatch/domain"
	"pantrywatch/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ItemService interface {
		AddItem(ctx context.Context, req domain.AddItemRequest, userID string) (domain.ItemResponse, error)
		GetItems(ctx context.Context, userID string, status string, page, limit int) ([]domain.ItemResponse, int64, error)
		GetItemByID(ctx context.Context, id string, userID string) (domain.ItemResponse, error)
		UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest, userID string) error
		UpdateItemStatus(ctx context.Context, req domain.UpdateItemStatusRequest, userID string) error
		DeleteItem(ctx context.Context, id string, userID string) error
	}

	itemService struct {
		itemRepository ItemRepository
	}
)

func NewItemService(itemRepository ItemRepository) ItemService {
	return &itemService{itemRepository: itemRepository}
}

func toItemResponse(item *entities.PerishableItem) domain.ItemResponse {
	return domain.ItemResponse{
		ID:         item.ID.String(),
		Name:       item.Name,
		ExpiryDate: item.ExpiryDate,
		Status:     item.Status,
		CreatedAt:  item.CreatedAt,
	}
}

func (s *itemService) AddItem(ctx context.Context, req domain.AddItemRequest, userID string) (domain.ItemResponse, error) {
	expiryDate, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return domain.ItemResponse{}, domain.ErrInvalidExpiryDate
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ItemResponse{}, domain.ErrParseUUID
	}

	item := &entities.PerishableItem{
		ID:         uuid.New(),
		UserID:     userUUID,
		Name:       req.Name,
		ExpiryDate: expiryDate,
		Status:     domain.ItemStatusActive,
	}

	if err := s.itemRepository.AddItem(ctx, item); err != nil {
		return domain.ItemResponse{}, err
	}

	return toItemResponse(item), nil
}

func (s *itemService) GetItems(ctx context.Context, userID string, status string, page, limit int) ([]domain.ItemResponse, int64, error) {
	items, count, err := s.itemRepository.GetItems(ctx, userID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.ItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	return result, count, nil
}

func (s *itemService) GetItemByID(ctx context.Context, id string, userID string) (domain.ItemResponse, error) {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ItemResponse{}, domain.ErrItemNotFound
		}
		return domain.ItemResponse{}, err
	}

	if item.UserID.String() != userID {
		return domain.ItemResponse{}, domain.ErrUnauthorizedAccess
	}

	return toItemResponse(item), nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest, userID string) error {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}

	if item.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.ExpiryDate != "" {
		expiryDate, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return domain.ErrInvalidExpiryDate
		}
		item.ExpiryDate = expiryDate
	}
	if req.Status != "" {
		item.Status = req.Status
	}

	return s.itemRepository.UpdateItem(ctx, item)
}

func (s *itemService) UpdateItemStatus(ctx context.Context, req domain.UpdateItemStatusRequest, userID string) error {
	item, err := s.itemRepository.GetItemByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}

	if item.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	if req.Status != domain.ItemStatusUsed && req.Status != domain.ItemStatusDiscarded {
		return domain.ErrInvalidItemStatus
	}

	return s.itemRepository.UpdateItemStatus(ctx, req.ItemID, req.Status)
}

func (s *itemService) DeleteItem(ctx context.Context, id string, userID string) error {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}

	if item.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	return s.itemRepository.DeleteItem(ctx, id)
}
