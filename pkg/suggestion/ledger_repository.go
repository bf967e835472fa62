package suggestion

import (
	"context"
	"time"

	"pantrywatch/entities"

	"gorm.io/gorm"
)

type (
	// LedgerRepository is the append-only record of who was notified or
	// served for which fingerprint. It backs both the batch dedup check and
	// the on-demand daily quota.
	LedgerRepository interface {
		HasEntry(ctx context.Context, userID string, category string, fingerprint string) (bool, error)
		CountSince(ctx context.Context, userID string, category string, since time.Time) (int64, error)
		Append(ctx context.Context, entry *entities.NotificationLog) error
		ListRecent(ctx context.Context, userID string, limit int) ([]*entities.NotificationLog, error)
	}

	ledgerRepository struct {
		db *gorm.DB
	}
)

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) HasEntry(ctx context.Context, userID string, category string, fingerprint string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.NotificationLog{}).
		Where("user_id = ? AND category = ? AND fingerprint = ?", userID, category, fingerprint).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ledgerRepository) CountSince(ctx context.Context, userID string, category string, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.NotificationLog{}).
		Where("user_id = ? AND category = ? AND sent_at >= ?", userID, category, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ledgerRepository) Append(ctx context.Context, entry *entities.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*entities.NotificationLog, error) {
	var entries []*entities.NotificationLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at desc").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
