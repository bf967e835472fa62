package subscriber

import (
	"context"
	"errors"

	"pantrywatch/domain"
	"pantrywatch/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SubscriberService interface {
		Subscribe(ctx context.Context, req domain.SubscribeRequest, userID string) error
		Unsubscribe(ctx context.Context, req domain.UnsubscribeRequest, userID string) error
		UpdatePreferences(ctx context.Context, req domain.UpdatePreferencesRequest, userID string) error
	}

	subscriberService struct {
		subscriberRepository SubscriberRepository
	}
)

func NewSubscriberService(subscriberRepository SubscriberRepository) SubscriberService {
	return &subscriberService{subscriberRepository: subscriberRepository}
}

func (s *subscriberService) Subscribe(ctx context.Context, req domain.SubscribeRequest, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	sub := &entities.PushSubscription{
		ID:        uuid.New(),
		UserID:    userUUID,
		Endpoint:  req.Endpoint,
		P256dhKey: req.P256dhKey,
		AuthKey:   req.AuthKey,
		IsActive:  true,
	}

	return s.subscriberRepository.SaveSubscription(ctx, sub)
}

func (s *subscriberService) Unsubscribe(ctx context.Context, req domain.UnsubscribeRequest, userID string) error {
	if err := s.subscriberRepository.DeleteSubscription(ctx, userID, req.Endpoint); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *subscriberService) UpdatePreferences(ctx context.Context, req domain.UpdatePreferencesRequest, userID string) error {
	if req.NotificationsEnabled == nil {
		return nil
	}
	return s.subscriberRepository.SetNotificationsEnabled(ctx, userID, *req.NotificationsEnabled)
}
