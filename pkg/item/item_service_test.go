package item

import (
	"context"
	"testing"
	"time"

	"pantrywatch/domain"
	"pantrywatch/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryItemRepo struct {
	items    map[string]*entities.PerishableItem
	statuses map[string]string
	deleted  []string
}

func newMemoryItemRepo() *memoryItemRepo {
	return &memoryItemRepo{
		items:    make(map[string]*entities.PerishableItem),
		statuses: make(map[string]string),
	}
}

func (r *memoryItemRepo) AddItem(ctx context.Context, item *entities.PerishableItem) error {
	r.items[item.ID.String()] = item
	return nil
}

func (r *memoryItemRepo) GetItemByID(ctx context.Context, id string) (*entities.PerishableItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *memoryItemRepo) GetItemsByIDs(ctx context.Context, userID string, ids []string) ([]*entities.PerishableItem, error) {
	return nil, nil
}

func (r *memoryItemRepo) GetItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.PerishableItem, int64, error) {
	var result []*entities.PerishableItem
	for _, item := range r.items {
		if item.UserID.String() == userID {
			result = append(result, item)
		}
	}
	return result, int64(len(result)), nil
}

func (r *memoryItemRepo) GetActiveItemsByExpiryRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.PerishableItem, error) {
	return nil, nil
}

func (r *memoryItemRepo) GetAllActiveItemsByExpiryRange(ctx context.Context, startDate, endDate time.Time) ([]*entities.PerishableItem, error) {
	return nil, nil
}

func (r *memoryItemRepo) UpdateItem(ctx context.Context, item *entities.PerishableItem) error {
	r.items[item.ID.String()] = item
	return nil
}

func (r *memoryItemRepo) UpdateItemStatus(ctx context.Context, id string, status string) error {
	r.statuses[id] = status
	return nil
}

func (r *memoryItemRepo) DeleteItem(ctx context.Context, id string) error {
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func seedItem(repo *memoryItemRepo, userID uuid.UUID) *entities.PerishableItem {
	item := &entities.PerishableItem{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       "Milk",
		ExpiryDate: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		Status:     domain.ItemStatusActive,
	}
	repo.items[item.ID.String()] = item
	return item
}

func TestAddItem(t *testing.T) {
	repo := newMemoryItemRepo()
	service := NewItemService(repo)
	userID := uuid.New()

	resp, err := service.AddItem(context.Background(), domain.AddItemRequest{
		Name:       "Spinach",
		ExpiryDate: "2026-09-05",
	}, userID.String())
	require.NoError(t, err)

	assert.Equal(t, "Spinach", resp.Name)
	assert.Equal(t, domain.ItemStatusActive, resp.Status)
	assert.Equal(t, time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC), resp.ExpiryDate)
	assert.Len(t, repo.items, 1)
}

func TestAddItem_InvalidExpiryDate(t *testing.T) {
	service := NewItemService(newMemoryItemRepo())

	_, err := service.AddItem(context.Background(), domain.AddItemRequest{
		Name:       "Spinach",
		ExpiryDate: "05-09-2026",
	}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrInvalidExpiryDate)
}

func TestGetItemByID_OwnershipEnforced(t *testing.T) {
	repo := newMemoryItemRepo()
	service := NewItemService(repo)
	owner := uuid.New()
	item := seedItem(repo, owner)

	resp, err := service.GetItemByID(context.Background(), item.ID.String(), owner.String())
	require.NoError(t, err)
	assert.Equal(t, "Milk", resp.Name)

	_, err = service.GetItemByID(context.Background(), item.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
}

func TestUpdateItem_PartialFields(t *testing.T) {
	repo := newMemoryItemRepo()
	service := NewItemService(repo)
	owner := uuid.New()
	item := seedItem(repo, owner)

	err := service.UpdateItem(context.Background(), item.ID.String(), domain.UpdateItemRequest{
		Name: "Whole Milk",
	}, owner.String())
	require.NoError(t, err)

	updated := repo.items[item.ID.String()]
	assert.Equal(t, "Whole Milk", updated.Name)
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), updated.ExpiryDate, "unset fields stay untouched")
}

func TestUpdateItemStatus_RejectsInvalidTransition(t *testing.T) {
	repo := newMemoryItemRepo()
	service := NewItemService(repo)
	owner := uuid.New()
	item := seedItem(repo, owner)

	err := service.UpdateItemStatus(context.Background(), domain.UpdateItemStatusRequest{
		ItemID: item.ID.String(),
		Status: domain.ItemStatusActive,
	}, owner.String())
	assert.ErrorIs(t, err, domain.ErrInvalidItemStatus)

	err = service.UpdateItemStatus(context.Background(), domain.UpdateItemStatusRequest{
		ItemID: item.ID.String(),
		Status: domain.ItemStatusUsed,
	}, owner.String())
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusUsed, repo.statuses[item.ID.String()])
}

func TestDeleteItem_OwnershipEnforced(t *testing.T) {
	repo := newMemoryItemRepo()
	service := NewItemService(repo)
	owner := uuid.New()
	item := seedItem(repo, owner)

	err := service.DeleteItem(context.Background(), item.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
	assert.Empty(t, repo.deleted)

	err = service.DeleteItem(context.Background(), item.ID.String(), owner.String())
	require.NoError(t, err)
	assert.Equal(t, []string{item.ID.String()}, repo.deleted)
}
