package item

import (
	"context"
	"time"

	"pantrywatch/entities"

	"gorm.io/gorm"
)

type (
	ItemRepository interface {
		AddItem(ctx context.Context, item *entities.PerishableItem) error
		GetItemByID(ctx context.Context, id string) (*entities.PerishableItem, error)
		GetItemsByIDs(ctx context.Context, userID string, ids []string) ([]*entities.PerishableItem, error)
		GetItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.PerishableItem, int64, error)
		GetActiveItemsByExpiryRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.PerishableItem, error)
		GetAllActiveItemsByExpiryRange(ctx context.Context, startDate, endDate time.Time) ([]*entities.PerishableItem, error)
		UpdateItem(ctx context.Context, item *entities.PerishableItem) error
		UpdateItemStatus(ctx context.Context, id string, status string) error
		DeleteItem(ctx context.Context, id string) error
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) AddItem(ctx context.Context, item *entities.PerishableItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetItemByID(ctx context.Context, id string) (*entities.PerishableItem, error) {
	var item entities.PerishableItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetItemsByIDs(ctx context.Context, userID string, ids []string) ([]*entities.PerishableItem, error) {
	var items []*entities.PerishableItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ? AND status = ?", userID, ids, "active").
		Order("expiry_date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) GetItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.PerishableItem, int64, error) {
	var items []*entities.PerishableItem
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "all" && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Model(&entities.PerishableItem{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("expiry_date asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *itemRepository) GetActiveItemsByExpiryRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.PerishableItem, error) {
	var items []*entities.PerishableItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND expiry_date BETWEEN ? AND ? AND status = ?",
			userID, startDate, endDate, "active").
		Order("expiry_date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) GetAllActiveItemsByExpiryRange(ctx context.Context, startDate, endDate time.Time) ([]*entities.PerishableItem, error) {
	var items []*entities.PerishableItem
	if err := r.db.WithContext(ctx).
		Where("expiry_date BETWEEN ? AND ? AND status = ?", startDate, endDate, "active").
		Order("expiry_date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *entities.PerishableItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) UpdateItemStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).Model(&entities.PerishableItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status}).Error
}

func (r *itemRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.PerishableItem{}).Error
}
