package subscriber

import (
	"context"

	"pantrywatch/entities"

	"gorm.io/gorm"
)

type (
	SubscriberRepository interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetActiveSubscriptions(ctx context.Context, userID string) ([]*entities.PushSubscription, error)
		SaveSubscription(ctx context.Context, sub *entities.PushSubscription) error
		DeleteSubscription(ctx context.Context, userID string, endpoint string) error
		DeactivateSubscriptionByEndpoint(ctx context.Context, endpoint string) error
		SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) error
	}

	subscriberRepository struct {
		db *gorm.DB
	}
)

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *subscriberRepository) GetActiveSubscriptions(ctx context.Context, userID string) ([]*entities.PushSubscription, error) {
	var subs []*entities.PushSubscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriberRepository) SaveSubscription(ctx context.Context, sub *entities.PushSubscription) error {
	// Re-subscribing with a known endpoint reactivates it instead of
	// violating the endpoint unique index.
	var existing entities.PushSubscription
	err := r.db.WithContext(ctx).Where("endpoint = ?", sub.Endpoint).First(&existing).Error
	if err == nil {
		existing.UserID = sub.UserID
		existing.P256dhKey = sub.P256dhKey
		existing.AuthKey = sub.AuthKey
		existing.IsActive = true
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriberRepository) DeleteSubscription(ctx context.Context, userID string, endpoint string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&entities.PushSubscription{}).Error
}

func (r *subscriberRepository) DeactivateSubscriptionByEndpoint(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).Model(&entities.PushSubscription{}).
		Where("endpoint = ?", endpoint).
		Updates(map[string]interface{}{"is_active": false}).Error
}

func (r *subscriberRepository) SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"notifications_enabled": enabled}).Error
}
