package entities

import (
	"time"

	"github.com/google/uuid"
)

type PerishableItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID `json:"user_id" gorm:"index"`
	Name       string    `json:"name"`
	ExpiryDate time.Time `json:"expiry_date" gorm:"index"` // calendar date, time component zeroed
	Status     string    `json:"status"`                   // "active", "used", "discarded"

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
