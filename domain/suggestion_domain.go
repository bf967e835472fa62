package domain

import (
	"errors"
)

const (
	CategoryRecipeSuggestion       = "recipe_suggestion"
	CategoryRecipeSuggestionSingle = "recipe_suggestion_single"

	LedgerStatusSent     = "sent"
	LedgerStatusFallback = "fallback"
	LedgerStatusServed   = "served"
)

var (
	MessageSuccessGetSuggestions = "recipe suggestions retrieved successfully"
	MessageSuccessRunSweep       = "notification sweep completed"
	MessageSuccessGetHistory     = "notification history retrieved successfully"
	MessageNothingExpiring       = "nothing is expiring soon, no suggestions needed"
	MessageNoValidIngredients    = "no valid ingredients found in your items"

	MessageFailedGetSuggestions = "failed to get recipe suggestions"
	MessageFailedRunSweep       = "failed to run notification sweep"
	MessageFailedGetHistory     = "failed to retrieve notification history"

	ErrRateLimited             = errors.New("daily suggestion limit reached")
	ErrProviderEmptyResponse   = errors.New("provider returned no usable text")
	ErrProviderMalformedOutput = errors.New("provider output is not valid JSON")
	ErrProviderInvalidShape    = errors.New("provider output has no recipes")
)

type (
	RecipeSuggestion struct {
		Title           string   `json:"title"`
		Description     string   `json:"description"`
		Steps           []string `json:"steps"`
		IngredientsUsed []string `json:"ingredients_used"`
	}

	SuggestionRequest struct {
		ItemIDs    []string `json:"item_ids" validate:"omitempty,dive,uuid"`
		WindowDays int      `json:"window_days" validate:"omitempty,min=1,max=30"`
	}

	SuggestionResponse struct {
		Recipes     []RecipeSuggestion `json:"recipes"`
		Ingredients []string           `json:"ingredients"`
		Cached      bool               `json:"cached"`
		ElapsedMs   int64              `json:"elapsed_ms"`
		Message     string             `json:"message,omitempty"`
	}

	UserSweepResult struct {
		UserID    string `json:"user_id"`
		Outcome   string `json:"outcome"` // notified, fallback, skipped_*, error
		CacheHit  bool   `json:"cache_hit,omitempty"`
		PushSent  bool   `json:"push_sent,omitempty"`
		EmailSent bool   `json:"email_sent,omitempty"`
		Error     string `json:"error,omitempty"`
	}

	SweepMetrics struct {
		TotalItems     int               `json:"total_items"`
		UsersProcessed int               `json:"users_processed"`
		AICalls        int               `json:"ai_calls"`
		CacheHits      int               `json:"cache_hits"`
		PushesSent     int               `json:"pushes_sent"`
		EmailsSent     int               `json:"emails_sent"`
		FallbacksSent  int               `json:"fallbacks_sent"`
		Errors         int               `json:"errors"`
		ElapsedMs      int64             `json:"elapsed_ms"`
		Users          []UserSweepResult `json:"users"`
	}

	NotificationLogResponse struct {
		ID          string   `json:"id"`
		Category    string   `json:"category"`
		ItemIDs     []string `json:"item_ids"`
		Fingerprint string   `json:"fingerprint,omitempty"`
		Status      string   `json:"status"`
		SentAt      string   `json:"sent_at"`
	}
)
