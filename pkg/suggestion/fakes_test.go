package suggestion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pantrywatch/entities"

	"gorm.io/gorm"
)

// In-memory fakes for the repository and transport interfaces, so the
// pipeline can be exercised without postgres or live endpoints.

type fakeItemRepo struct {
	items []*entities.PerishableItem
	err   error
}

func (f *fakeItemRepo) AddItem(ctx context.Context, item *entities.PerishableItem) error {
	f.items = append(f.items, item)
	return nil
}

func (f *fakeItemRepo) GetItemByID(ctx context.Context, id string) (*entities.PerishableItem, error) {
	for _, item := range f.items {
		if item.ID.String() == id {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeItemRepo) GetItemsByIDs(ctx context.Context, userID string, ids []string) ([]*entities.PerishableItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []*entities.PerishableItem
	for _, item := range f.items {
		if item.UserID.String() != userID || item.Status != "active" {
			continue
		}
		for _, id := range ids {
			if item.ID.String() == id {
				result = append(result, item)
			}
		}
	}
	return result, nil
}

func (f *fakeItemRepo) GetItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.PerishableItem, int64, error) {
	return f.items, int64(len(f.items)), f.err
}

func (f *fakeItemRepo) GetActiveItemsByExpiryRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.PerishableItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []*entities.PerishableItem
	for _, item := range f.items {
		if item.UserID.String() == userID && item.Status == "active" {
			result = append(result, item)
		}
	}
	return result, nil
}

func (f *fakeItemRepo) GetAllActiveItemsByExpiryRange(ctx context.Context, startDate, endDate time.Time) ([]*entities.PerishableItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []*entities.PerishableItem
	for _, item := range f.items {
		if item.Status == "active" {
			result = append(result, item)
		}
	}
	return result, nil
}

func (f *fakeItemRepo) UpdateItem(ctx context.Context, item *entities.PerishableItem) error {
	return nil
}

func (f *fakeItemRepo) UpdateItemStatus(ctx context.Context, id string, status string) error {
	return nil
}

func (f *fakeItemRepo) DeleteItem(ctx context.Context, id string) error {
	return nil
}

type fakeSubscriberRepo struct {
	mu          sync.Mutex
	users       map[string]*entities.User
	subs        map[string][]*entities.PushSubscription
	deactivated []string
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{
		users: make(map[string]*entities.User),
		subs:  make(map[string][]*entities.PushSubscription),
	}
}

func (f *fakeSubscriberRepo) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeSubscriberRepo) GetActiveSubscriptions(ctx context.Context, userID string) ([]*entities.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []*entities.PushSubscription
	for _, sub := range f.subs[userID] {
		if sub.IsActive {
			active = append(active, sub)
		}
	}
	return active, nil
}

func (f *fakeSubscriberRepo) SaveSubscription(ctx context.Context, sub *entities.PushSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[sub.UserID.String()] = append(f.subs[sub.UserID.String()], sub)
	return nil
}

func (f *fakeSubscriberRepo) DeleteSubscription(ctx context.Context, userID string, endpoint string) error {
	return nil
}

func (f *fakeSubscriberRepo) DeactivateSubscriptionByEndpoint(ctx context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deactivated = append(f.deactivated, endpoint)
	for _, subs := range f.subs {
		for _, sub := range subs {
			if sub.Endpoint == endpoint {
				sub.IsActive = false
			}
		}
	}
	return nil
}

func (f *fakeSubscriberRepo) SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) error {
	return nil
}

type fakeCacheRepo struct {
	mu       sync.Mutex
	entries  map[string][]*entities.SuggestionCacheEntry
	storeErr error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string][]*entities.SuggestionCacheEntry)}
}

func (f *fakeCacheRepo) Lookup(ctx context.Context, fingerprint string) (*entities.SuggestionCacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.entries[fingerprint]
	if len(entries) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return entries[len(entries)-1], nil
}

func (f *fakeCacheRepo) Store(ctx context.Context, entry *entities.SuggestionCacheEntry) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[entry.Fingerprint] = append(f.entries[entry.Fingerprint], entry)
	return nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []*entities.NotificationLog
}

func (f *fakeLedgerRepo) HasEntry(ctx context.Context, userID string, category string, fingerprint string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.entries {
		if entry.UserID.String() == userID && entry.Category == category &&
			entry.Fingerprint != nil && *entry.Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedgerRepo) CountSince(ctx context.Context, userID string, category string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, entry := range f.entries {
		if entry.UserID.String() == userID && entry.Category == category && !entry.SentAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeLedgerRepo) Append(ctx context.Context, entry *entities.NotificationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLedgerRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*entities.NotificationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, nil
}

type fakeProvider struct {
	mu     sync.Mutex
	calls  int
	result *GenerationResult
	err    error
}

func (f *fakeProvider) GenerateSuggestions(ctx context.Context, ingredients []string) (*GenerationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePushSender struct {
	mu       sync.Mutex
	statuses map[string]int // endpoint -> status code; 0 or 2xx means success
	sent     []string
}

func newFakePushSender() *fakePushSender {
	return &fakePushSender{statuses: make(map[string]int)}
}

func (f *fakePushSender) Send(ctx context.Context, sub *entities.PushSubscription, payload []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sub.Endpoint)
	status, ok := f.statuses[sub.Endpoint]
	if !ok || status < 400 {
		return 201, nil
	}
	return status, fmt.Errorf("push endpoint returned %d", status)
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []string
	bodies []string
	err    error
}

func (f *fakeMailer) Send(toEmail string, subject string, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toEmail)
	f.bodies = append(f.bodies, body)
	return nil
}

var errProviderDown = errors.New("provider unavailable")
