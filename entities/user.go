package entities

import (
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}

type User struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email" gorm:"uniqueIndex"`
	NotificationsEnabled bool      `json:"notifications_enabled" gorm:"default:true"`

	Timestamp
}
