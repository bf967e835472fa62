package suggestion

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"pantrywatch/domain"
	"pantrywatch/entities"
	"pantrywatch/internal/utils/logging"
	"pantrywatch/pkg/item"
	"pantrywatch/pkg/subscriber"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dailySuggestionQuota = 3

	defaultWindowDays = 3
	minWindowDays     = 1
	maxWindowDays     = 30

	batchWindowDays = 3
	sweepWorkers    = 4

	// Housekeeping marker only; lookups never filter on it.
	cacheRetention = 30 * 24 * time.Hour
)

type (
	SuggestionService interface {
		SuggestForUser(ctx context.Context, userID string, req domain.SuggestionRequest) (domain.SuggestionResponse, error)
		RunBatchSweep(ctx context.Context) (domain.SweepMetrics, error)
		GetNotificationHistory(ctx context.Context, userID string, limit int) ([]domain.NotificationLogResponse, error)
	}

	suggestionService struct {
		itemRepository       item.ItemRepository
		subscriberRepository subscriber.SubscriberRepository
		cacheRepository      CacheRepository
		ledgerRepository     LedgerRepository
		provider             Provider
		dispatcher           *Dispatcher
	}

	// sweepOutcome carries one user's result plus the counters the summary
	// needs that the public result type does not expose.
	sweepOutcome struct {
		result    domain.UserSweepResult
		aiCalled  bool
		itemCount int
	}
)

func NewSuggestionService(
	itemRepository item.ItemRepository,
	subscriberRepository subscriber.SubscriberRepository,
	cacheRepository CacheRepository,
	ledgerRepository LedgerRepository,
	provider Provider,
	dispatcher *Dispatcher,
) SuggestionService {
	return &suggestionService{
		itemRepository:       itemRepository,
		subscriberRepository: subscriberRepository,
		cacheRepository:      cacheRepository,
		ledgerRepository:     ledgerRepository,
		provider:             provider,
		dispatcher:           dispatcher,
	}
}

func localMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func itemIDsJSON(items []*entities.PerishableItem) string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID.String())
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

func (s *suggestionService) SuggestForUser(ctx context.Context, userID string, req domain.SuggestionRequest) (domain.SuggestionResponse, error) {
	start := time.Now()

	count, err := s.ledgerRepository.CountSince(ctx, userID, domain.CategoryRecipeSuggestionSingle, localMidnight(start))
	if err != nil {
		return domain.SuggestionResponse{}, err
	}
	if count >= dailySuggestionQuota {
		return domain.SuggestionResponse{}, domain.ErrRateLimited
	}

	items, err := s.fetchItems(ctx, userID, req)
	if err != nil {
		return domain.SuggestionResponse{}, err
	}
	if len(items) == 0 {
		return domain.SuggestionResponse{
			Recipes:     []domain.RecipeSuggestion{},
			Ingredients: []string{},
			Cached:      false,
			ElapsedMs:   time.Since(start).Milliseconds(),
			Message:     domain.MessageNothingExpiring,
		}, nil
	}

	ingredients := NormalizeIngredients(items)
	if len(ingredients) == 0 {
		return domain.SuggestionResponse{
			Recipes:     []domain.RecipeSuggestion{},
			Ingredients: []string{},
			Cached:      false,
			ElapsedMs:   time.Since(start).Milliseconds(),
			Message:     domain.MessageNoValidIngredients,
		}, nil
	}

	fingerprint := Fingerprint(ingredients)

	recipes, cached, err := s.recipesFor(ctx, fingerprint, ingredients)
	if err != nil {
		return domain.SuggestionResponse{}, err
	}

	s.appendLedger(ctx, userID, domain.CategoryRecipeSuggestionSingle, itemIDsJSON(items), fingerprint, domain.LedgerStatusServed)

	return domain.SuggestionResponse{
		Recipes:     recipes,
		Ingredients: ingredients,
		Cached:      cached,
		ElapsedMs:   time.Since(start).Milliseconds(),
	}, nil
}

func (s *suggestionService) fetchItems(ctx context.Context, userID string, req domain.SuggestionRequest) ([]*entities.PerishableItem, error) {
	if len(req.ItemIDs) > 0 {
		return s.itemRepository.GetItemsByIDs(ctx, userID, req.ItemIDs)
	}

	windowDays := req.WindowDays
	if windowDays == 0 {
		windowDays = defaultWindowDays
	}
	if windowDays < minWindowDays {
		windowDays = minWindowDays
	}
	if windowDays > maxWindowDays {
		windowDays = maxWindowDays
	}

	now := time.Now()
	return s.itemRepository.GetActiveItemsByExpiryRange(ctx, userID, now, now.AddDate(0, 0, windowDays))
}

// recipesFor resolves the recipe set for a fingerprint: cache first, provider
// on miss, best-effort store afterwards.
func (s *suggestionService) recipesFor(ctx context.Context, fingerprint string, ingredients []string) ([]domain.RecipeSuggestion, bool, error) {
	entry, err := s.cacheRepository.Lookup(ctx, fingerprint)
	if err == nil {
		var recipes []domain.RecipeSuggestion
		if err := json.Unmarshal([]byte(entry.Recipes), &recipes); err == nil {
			return recipes, true, nil
		}
		logging.Warn("unreadable cache entry, regenerating",
			zap.String("fingerprint", fingerprint),
			zap.Error(err),
		)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Warn("cache lookup failed, treating as miss",
			zap.String("fingerprint", fingerprint),
			zap.Error(err),
		)
	}

	result, err := s.provider.GenerateSuggestions(ctx, ingredients)
	if err != nil {
		return nil, false, err
	}

	s.storeCacheEntry(ctx, fingerprint, ingredients, result)
	return result.Recipes, false, nil
}

// storeCacheEntry is best-effort: a failed write only degrades future hit
// rate and must never mask a result the caller already has.
func (s *suggestionService) storeCacheEntry(ctx context.Context, fingerprint string, ingredients []string, result *GenerationResult) {
	ingredientsData, _ := json.Marshal(ingredients)
	recipesData, _ := json.Marshal(result.Recipes)

	now := time.Now()
	entry := &entities.SuggestionCacheEntry{
		ID:           uuid.New(),
		Fingerprint:  fingerprint,
		Ingredients:  string(ingredientsData),
		Recipes:      string(recipesData),
		PromptText:   result.Prompt,
		PromptTokens: result.PromptTokens,
		OutputTokens: result.OutputTokens,
		LatencyMs:    result.Latency.Milliseconds(),
		ExpiresAt:    now.Add(cacheRetention),
		CreatedAt:    now,
	}
	if err := s.cacheRepository.Store(ctx, entry); err != nil {
		logging.Warn("failed to store suggestion cache entry",
			zap.String("fingerprint", fingerprint),
			zap.Error(err),
		)
	}
}

// appendLedger is best-effort: the user-facing operation already succeeded.
func (s *suggestionService) appendLedger(ctx context.Context, userID string, category string, itemIDs string, fingerprint string, status string) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		logging.Warn("failed to record ledger entry", zap.String("user_id", userID), zap.Error(err))
		return
	}
	entry := &entities.NotificationLog{
		ID:          uuid.New(),
		UserID:      userUUID,
		Category:    category,
		ItemIDs:     itemIDs,
		Fingerprint: &fingerprint,
		Status:      status,
		SentAt:      time.Now(),
	}
	if err := s.ledgerRepository.Append(ctx, entry); err != nil {
		logging.Warn("failed to record ledger entry",
			zap.String("user_id", userID),
			zap.String("category", category),
			zap.Error(err),
		)
	}
}

func (s *suggestionService) RunBatchSweep(ctx context.Context) (domain.SweepMetrics, error) {
	start := time.Now()

	items, err := s.itemRepository.GetAllActiveItemsByExpiryRange(ctx, start, start.AddDate(0, 0, batchWindowDays))
	if err != nil {
		return domain.SweepMetrics{}, err
	}

	metrics := domain.SweepMetrics{
		TotalItems: len(items),
		Users:      []domain.UserSweepResult{},
	}
	if len(items) == 0 {
		metrics.ElapsedMs = time.Since(start).Milliseconds()
		return metrics, nil
	}

	byUser := make(map[string][]*entities.PerishableItem)
	for _, it := range items {
		userID := it.UserID.String()
		byUser[userID] = append(byUser[userID], it)
	}

	// Per-user pipelines are independent units of work; a failure in one must
	// not abort the sweep, so workers only ever report outcomes.
	jobs := make(chan string)
	outcomes := make(chan sweepOutcome)

	var wg sync.WaitGroup
	workers := sweepWorkers
	if len(byUser) < workers {
		workers = len(byUser)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for userID := range jobs {
				outcomes <- s.processUser(ctx, userID, byUser[userID])
			}
		}()
	}

	go func() {
		for userID := range byUser {
			jobs <- userID
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		metrics.UsersProcessed++
		if outcome.aiCalled {
			metrics.AICalls++
		}
		if outcome.result.CacheHit {
			metrics.CacheHits++
		}
		if outcome.result.PushSent {
			metrics.PushesSent++
		}
		if outcome.result.EmailSent {
			metrics.EmailsSent++
		}
		if outcome.result.Outcome == "fallback" {
			metrics.FallbacksSent++
		}
		if outcome.result.Error != "" {
			metrics.Errors++
		}
		metrics.Users = append(metrics.Users, outcome.result)
	}

	metrics.ElapsedMs = time.Since(start).Milliseconds()
	logging.Info("batch sweep completed",
		zap.Int("total_items", metrics.TotalItems),
		zap.Int("users_processed", metrics.UsersProcessed),
		zap.Int("ai_calls", metrics.AICalls),
		zap.Int("cache_hits", metrics.CacheHits),
		zap.Int("pushes_sent", metrics.PushesSent),
		zap.Int("emails_sent", metrics.EmailsSent),
		zap.Int("fallbacks_sent", metrics.FallbacksSent),
		zap.Int("errors", metrics.Errors),
		zap.Int64("elapsed_ms", metrics.ElapsedMs),
	)
	return metrics, nil
}

func (s *suggestionService) processUser(ctx context.Context, userID string, items []*entities.PerishableItem) sweepOutcome {
	outcome := sweepOutcome{
		result:    domain.UserSweepResult{UserID: userID},
		itemCount: len(items),
	}

	user, err := s.subscriberRepository.GetUserByID(ctx, userID)
	if err != nil {
		outcome.result.Outcome = "error"
		outcome.result.Error = err.Error()
		return outcome
	}
	if !user.NotificationsEnabled {
		outcome.result.Outcome = "skipped_disabled"
		return outcome
	}

	subs, err := s.subscriberRepository.GetActiveSubscriptions(ctx, userID)
	if err != nil {
		outcome.result.Outcome = "error"
		outcome.result.Error = err.Error()
		return outcome
	}
	if len(subs) == 0 && user.Email == "" {
		outcome.result.Outcome = "skipped_no_channel"
		return outcome
	}

	ingredients := NormalizeIngredients(items)
	if len(ingredients) == 0 {
		outcome.result.Outcome = "skipped_empty"
		return outcome
	}
	fingerprint := Fingerprint(ingredients)

	notified, err := s.ledgerRepository.HasEntry(ctx, userID, domain.CategoryRecipeSuggestion, fingerprint)
	if err != nil {
		outcome.result.Outcome = "error"
		outcome.result.Error = err.Error()
		return outcome
	}
	if notified {
		outcome.result.Outcome = "skipped_duplicate"
		return outcome
	}

	var recipes []domain.RecipeSuggestion
	entry, err := s.cacheRepository.Lookup(ctx, fingerprint)
	if err == nil && json.Unmarshal([]byte(entry.Recipes), &recipes) == nil && len(recipes) > 0 {
		outcome.result.CacheHit = true
	} else {
		outcome.aiCalled = true
		result, genErr := s.provider.GenerateSuggestions(ctx, ingredients)
		if genErr != nil {
			// Generation failed; the user still gets a generic reminder so
			// an AI outage never leaves people uninformed.
			logging.Warn("provider failed, sending fallback",
				zap.String("user_id", userID),
				zap.Error(genErr),
			)
			delivery := s.dispatcher.DeliverFallback(ctx, user, subs, items)
			outcome.result.Outcome = "fallback"
			outcome.result.Error = genErr.Error()
			outcome.result.PushSent = delivery.Channel == "push" && delivery.Delivered
			outcome.result.EmailSent = delivery.Channel == "email" && delivery.Delivered
			if delivery.Delivered {
				s.appendLedger(ctx, userID, domain.CategoryRecipeSuggestion, itemIDsJSON(items), fingerprint, domain.LedgerStatusFallback)
			}
			return outcome
		}
		recipes = result.Recipes
		s.storeCacheEntry(ctx, fingerprint, ingredients, result)
	}

	delivery := s.dispatcher.DeliverSuggestions(ctx, user, subs, recipes, ingredients)
	outcome.result.PushSent = delivery.Channel == "push" && delivery.Delivered
	outcome.result.EmailSent = delivery.Channel == "email" && delivery.Delivered
	if delivery.Delivered {
		outcome.result.Outcome = "notified"
		s.appendLedger(ctx, userID, domain.CategoryRecipeSuggestion, itemIDsJSON(items), fingerprint, domain.LedgerStatusSent)
	} else if delivery.Channel == "none" {
		outcome.result.Outcome = "skipped_no_channel"
	} else {
		outcome.result.Outcome = "error"
		outcome.result.Error = "delivery failed on all channels"
	}
	return outcome
}

func (s *suggestionService) GetNotificationHistory(ctx context.Context, userID string, limit int) ([]domain.NotificationLogResponse, error) {
	entries, err := s.ledgerRepository.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	result := make([]domain.NotificationLogResponse, 0, len(entries))
	for _, entry := range entries {
		var itemIDs []string
		_ = json.Unmarshal([]byte(entry.ItemIDs), &itemIDs)

		fingerprint := ""
		if entry.Fingerprint != nil {
			fingerprint = *entry.Fingerprint
		}
		result = append(result, domain.NotificationLogResponse{
			ID:          entry.ID.String(),
			Category:    entry.Category,
			ItemIDs:     itemIDs,
			Fingerprint: fingerprint,
			Status:      entry.Status,
			SentAt:      entry.SentAt.Format(time.RFC3339),
		})
	}
	return result, nil
}
