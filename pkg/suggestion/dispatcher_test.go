package suggestion

import (
	"context"
	"testing"
	"time"

	"pantrywatch/domain"
	"pantrywatch/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testSub(userID uuid.UUID, endpoint string) *entities.PushSubscription {
	return &entities.PushSubscription{
		ID:        uuid.New(),
		UserID:    userID,
		Endpoint:  endpoint,
		P256dhKey: "p256dh",
		AuthKey:   "auth",
		IsActive:  true,
	}
}

func testRecipes() []domain.RecipeSuggestion {
	return []domain.RecipeSuggestion{
		{Title: "Spinach Omelette", Description: "Quick.", Steps: []string{"beat", "fry"}, IngredientsUsed: []string{"eggs", "spinach"}},
		{Title: "Milk Smoothie", Description: "Cold.", Steps: []string{"blend"}, IngredientsUsed: []string{"milk"}},
	}
}

func TestDeliverSuggestions_PushSucceedsWhenAnyEndpointAccepts(t *testing.T) {
	userID := uuid.New()
	subs := []*entities.PushSubscription{
		testSub(userID, "https://push.example.com/dead"),
		testSub(userID, "https://push.example.com/alive"),
	}

	repo := newFakeSubscriberRepo()
	push := newFakePushSender()
	push.statuses["https://push.example.com/dead"] = 500
	mailer := &fakeMailer{}

	dispatcher := NewDispatcher(repo, push, mailer)
	user := &entities.User{ID: userID, Email: "user@example.com"}

	outcome := dispatcher.DeliverSuggestions(context.Background(), user, subs, testRecipes(), []string{"eggs", "milk"})

	assert.Equal(t, "push", outcome.Channel)
	assert.True(t, outcome.Delivered)
	assert.Len(t, push.sent, 2)
	assert.Empty(t, mailer.sent, "email must not be used while push endpoints exist")
}

func TestDeliverSuggestions_GoneEndpointIsDeactivated(t *testing.T) {
	userID := uuid.New()
	sub := testSub(userID, "https://push.example.com/gone")

	repo := newFakeSubscriberRepo()
	repo.subs[userID.String()] = []*entities.PushSubscription{sub}
	push := newFakePushSender()
	push.statuses[sub.Endpoint] = 410

	dispatcher := NewDispatcher(repo, push, &fakeMailer{})
	user := &entities.User{ID: userID}

	outcome := dispatcher.DeliverSuggestions(context.Background(), user, []*entities.PushSubscription{sub}, testRecipes(), []string{"eggs"})

	assert.False(t, outcome.Delivered)
	assert.Equal(t, []string{sub.Endpoint}, repo.deactivated)
	assert.False(t, sub.IsActive)
}

func TestDeliverSuggestions_TransientFailureDoesNotDeactivate(t *testing.T) {
	userID := uuid.New()
	sub := testSub(userID, "https://push.example.com/flaky")

	repo := newFakeSubscriberRepo()
	push := newFakePushSender()
	push.statuses[sub.Endpoint] = 503

	dispatcher := NewDispatcher(repo, push, &fakeMailer{})

	outcome := dispatcher.DeliverSuggestions(context.Background(), &entities.User{ID: userID}, []*entities.PushSubscription{sub}, testRecipes(), []string{"eggs"})

	assert.False(t, outcome.Delivered)
	assert.Empty(t, repo.deactivated)
}

func TestDeliverSuggestions_EmailWhenNoSubscriptions(t *testing.T) {
	repo := newFakeSubscriberRepo()
	push := newFakePushSender()
	mailer := &fakeMailer{}

	dispatcher := NewDispatcher(repo, push, mailer)
	user := &entities.User{ID: uuid.New(), Email: "user@example.com"}

	outcome := dispatcher.DeliverSuggestions(context.Background(), user, nil, testRecipes(), []string{"eggs"})

	assert.Equal(t, "email", outcome.Channel)
	assert.True(t, outcome.Delivered)
	assert.Equal(t, []string{"user@example.com"}, mailer.sent)
	assert.Empty(t, push.sent)
	assert.Contains(t, mailer.bodies[0], "Spinach Omelette")
}

func TestDeliverSuggestions_NoChannel(t *testing.T) {
	dispatcher := NewDispatcher(newFakeSubscriberRepo(), newFakePushSender(), &fakeMailer{})
	user := &entities.User{ID: uuid.New()}

	outcome := dispatcher.DeliverSuggestions(context.Background(), user, nil, testRecipes(), []string{"eggs"})

	assert.Equal(t, "none", outcome.Channel)
	assert.False(t, outcome.Delivered)
}

func TestDeliverFallback_EmailFailureReportedNotPropagated(t *testing.T) {
	mailer := &fakeMailer{err: errProviderDown}
	dispatcher := NewDispatcher(newFakeSubscriberRepo(), newFakePushSender(), mailer)
	user := &entities.User{ID: uuid.New(), Email: "user@example.com"}

	items := []*entities.PerishableItem{{Name: "milk", ExpiryDate: time.Now()}}
	outcome := dispatcher.DeliverFallback(context.Background(), user, nil, items)

	assert.Equal(t, "email", outcome.Channel)
	assert.False(t, outcome.Delivered)
}

func TestSuggestionPushBody_NumbersTitlesAndSummarizesIngredients(t *testing.T) {
	body := suggestionPushBody(testRecipes(), []string{"a", "b", "c", "d", "e", "f", "g"})

	assert.Contains(t, body, "1. Spinach Omelette")
	assert.Contains(t, body, "2. Milk Smoothie")
	assert.Contains(t, body, "Using: a, b, c, d, e...")
	assert.NotContains(t, body, "f")
}

func TestSuggestionPushBody_ShortIngredientListHasNoEllipsis(t *testing.T) {
	body := suggestionPushBody(testRecipes(), []string{"eggs", "milk"})
	assert.Contains(t, body, "Using: eggs, milk")
	assert.NotContains(t, body, "...")
}

func TestFallbackPushBody_TruncatesWithCount(t *testing.T) {
	items := []*entities.PerishableItem{
		{Name: "milk"}, {Name: "eggs"}, {Name: "spinach"}, {Name: "yogurt"}, {Name: "cheese"},
	}
	body := fallbackPushBody(items)

	assert.Contains(t, body, "milk, eggs, spinach")
	assert.Contains(t, body, "+2 more")
	assert.Contains(t, body, "expiring soon. Time to cook!")
	assert.NotContains(t, body, "yogurt")
}

func TestFallbackPushBody_FewItems(t *testing.T) {
	body := fallbackPushBody([]*entities.PerishableItem{{Name: "milk"}})
	assert.Equal(t, "milk expiring soon. Time to cook!", body)
}
