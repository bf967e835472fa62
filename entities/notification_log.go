package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLog is the durable ledger behind both batch dedup (one entry
// per user per fingerprint for category "recipe_suggestion") and the
// on-demand daily quota (count of "recipe_suggestion_single" entries since
// local midnight).
type NotificationLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID `json:"user_id" gorm:"index:idx_notification_user_category,priority:1"`
	Category    string    `json:"category" gorm:"size:64;index:idx_notification_user_category,priority:2"`
	ItemIDs     string    `json:"item_ids" gorm:"type:text"` // JSON array of item identifiers
	Fingerprint *string   `json:"fingerprint,omitempty" gorm:"size:64;index"`
	Status      string    `json:"status" gorm:"size:32"` // "sent", "fallback", "served"
	SentAt      time.Time `json:"sent_at" gorm:"type:timestamp;index"`

	User *User `gorm:"foreignKey:UserID"`
}
