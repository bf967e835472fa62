package suggestion

import (
	"context"

	"pantrywatch/entities"

	"gorm.io/gorm"
)

type (
	// CacheRepository stores AI-generated recipe sets keyed by ingredient
	// fingerprint. Rows are insert-only; Lookup returns the newest row for a
	// fingerprint and gorm.ErrRecordNotFound when none exists.
	CacheRepository interface {
		Lookup(ctx context.Context, fingerprint string) (*entities.SuggestionCacheEntry, error)
		Store(ctx context.Context, entry *entities.SuggestionCacheEntry) error
	}

	cacheRepository struct {
		db *gorm.DB
	}
)

func NewCacheRepository(db *gorm.DB) CacheRepository {
	return &cacheRepository{db: db}
}

func (r *cacheRepository) Lookup(ctx context.Context, fingerprint string) (*entities.SuggestionCacheEntry, error) {
	var entry entities.SuggestionCacheEntry
	if err := r.db.WithContext(ctx).
		Where("fingerprint = ?", fingerprint).
		Order("created_at desc").
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *cacheRepository) Store(ctx context.Context, entry *entities.SuggestionCacheEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
