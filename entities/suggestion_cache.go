package entities

import (
	"time"

	"github.com/google/uuid"
)

// SuggestionCacheEntry is append-only: rows are created on a provider cache
// miss and never updated. ExpiresAt is a housekeeping marker for an external
// cleanup job; lookups do not filter on it.
type SuggestionCacheEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Fingerprint  string    `json:"fingerprint" gorm:"size:64;index"`
	Ingredients  string    `json:"ingredients" gorm:"type:text"` // JSON array of names
	Recipes      string    `json:"recipes" gorm:"type:text"`     // JSON array of recipe suggestions
	PromptText   string    `json:"prompt_text" gorm:"type:text"`
	PromptTokens int       `json:"prompt_tokens"`
	OutputTokens int       `json:"output_tokens"`
	LatencyMs    int64     `json:"latency_ms"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"index"`
	CreatedAt    time.Time `gorm:"type:timestamp" json:"created_at"`
}
