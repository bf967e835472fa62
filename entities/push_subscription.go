package entities

import (
	"github.com/google/uuid"
)

type PushSubscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `json:"user_id" gorm:"index"`
	Endpoint  string    `json:"endpoint" gorm:"type:text;uniqueIndex:idx_push_endpoint,length:255"`
	P256dhKey string    `json:"p256dh_key" gorm:"type:text"`
	AuthKey   string    `json:"auth_key" gorm:"type:text"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
