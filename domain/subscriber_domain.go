package domain

import (
	"errors"
)

var (
	MessageSuccessSubscribe         = "push subscription saved successfully"
	MessageSuccessUnsubscribe       = "push subscription removed successfully"
	MessageSuccessUpdatePreferences = "notification preferences updated successfully"

	MessageFailedSubscribe         = "failed to save push subscription"
	MessageFailedUnsubscribe       = "failed to remove push subscription"
	MessageFailedUpdatePreferences = "failed to update notification preferences"

	ErrSubscriptionNotFound = errors.New("push subscription not found")
)

type (
	SubscribeRequest struct {
		Endpoint  string `json:"endpoint" validate:"required,url"`
		P256dhKey string `json:"p256dh_key" validate:"required"`
		AuthKey   string `json:"auth_key" validate:"required"`
	}

	UnsubscribeRequest struct {
		Endpoint string `json:"endpoint" validate:"required,url"`
	}

	UpdatePreferencesRequest struct {
		NotificationsEnabled *bool `json:"notifications_enabled" validate:"required"`
	}
)
