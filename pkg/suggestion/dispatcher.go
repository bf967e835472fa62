package suggestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"pantrywatch/domain"
	"pantrywatch/entities"
	"pantrywatch/internal/utils/logging"
	"pantrywatch/pkg/subscriber"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
)

const (
	pushTagSuggestion = "recipe-suggestion"
	pushTagFallback   = "expiry-reminder"

	pushTitleSuggestion = "Recipe ideas for your expiring food!"
	pushTitleFallback   = "Food expiring soon"

	ingredientSummaryLimit = 5
	fallbackItemLimit      = 3
)

type (
	WebPushConfig struct {
		VAPIDPublicKey  string
		VAPIDPrivateKey string
		Subject         string
	}

	// PushSender delivers one payload to one endpoint and reports the
	// transport status code. Injected so tests can substitute fakes.
	PushSender interface {
		Send(ctx context.Context, sub *entities.PushSubscription, payload []byte) (int, error)
	}

	// MailSender mirrors mailing.Mailer; declared here so the dispatcher
	// depends on the contract, not the SMTP implementation.
	MailSender interface {
		Send(toEmail string, subject string, body string) error
	}

	DeliveryOutcome struct {
		Channel   string // "push", "email", "none"
		Delivered bool
	}

	Dispatcher struct {
		subscriberRepository subscriber.SubscriberRepository
		push                 PushSender
		mailer               MailSender
	}

	webpushSender struct {
		config WebPushConfig
	}

	pushPayload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Tag   string `json:"tag"`
	}
)

func NewWebPushSender(config WebPushConfig) PushSender {
	return &webpushSender{config: config}
}

func (s *webpushSender) Send(ctx context.Context, sub *entities.PushSubscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotification(payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &webpush.Options{
		Subscriber:      s.config.Subject,
		VAPIDPublicKey:  s.config.VAPIDPublicKey,
		VAPIDPrivateKey: s.config.VAPIDPrivateKey,
		TTL:             3600,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("push endpoint returned %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func NewDispatcher(subscriberRepository subscriber.SubscriberRepository, push PushSender, mailer MailSender) *Dispatcher {
	return &Dispatcher{
		subscriberRepository: subscriberRepository,
		push:                 push,
		mailer:               mailer,
	}
}

// DeliverSuggestions sends the normal recipe notification: push to every
// active endpoint, email only when no endpoint exists. No channel at all is
// a skip, not a failure.
func (d *Dispatcher) DeliverSuggestions(ctx context.Context, user *entities.User, subs []*entities.PushSubscription, recipes []domain.RecipeSuggestion, ingredients []string) DeliveryOutcome {
	if len(subs) > 0 {
		payload := pushPayload{
			Title: pushTitleSuggestion,
			Body:  suggestionPushBody(recipes, ingredients),
			Tag:   pushTagSuggestion,
		}
		return DeliveryOutcome{Channel: "push", Delivered: d.fanOutPush(ctx, subs, payload)}
	}
	if user.Email != "" {
		delivered := d.sendEmail(user.Email, pushTitleSuggestion, suggestionEmailBody(recipes))
		return DeliveryOutcome{Channel: "email", Delivered: delivered}
	}
	return DeliveryOutcome{Channel: "none", Delivered: false}
}

// DeliverFallback sends the generic "something is expiring" notification used
// when AI generation fails, so users are never left silently uninformed.
func (d *Dispatcher) DeliverFallback(ctx context.Context, user *entities.User, subs []*entities.PushSubscription, items []*entities.PerishableItem) DeliveryOutcome {
	if len(subs) > 0 {
		payload := pushPayload{
			Title: pushTitleFallback,
			Body:  fallbackPushBody(items),
			Tag:   pushTagFallback,
		}
		return DeliveryOutcome{Channel: "push", Delivered: d.fanOutPush(ctx, subs, payload)}
	}
	if user.Email != "" {
		delivered := d.sendEmail(user.Email, pushTitleFallback, fallbackEmailBody(items))
		return DeliveryOutcome{Channel: "email", Delivered: delivered}
	}
	return DeliveryOutcome{Channel: "none", Delivered: false}
}

// fanOutPush attempts every endpoint concurrently; overall success means at
// least one endpoint accepted the payload. Endpoints reporting a permanent
// gone condition are deactivated in the subscriber directory regardless of
// the batch outcome.
func (d *Dispatcher) fanOutPush(ctx context.Context, subs []*entities.PushSubscription, payload pushPayload) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Error("failed to marshal push payload", zap.Error(err))
		return false
	}

	results := make([]bool, len(subs))
	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub *entities.PushSubscription) {
			defer wg.Done()
			status, err := d.push.Send(ctx, sub, body)
			if err != nil {
				logging.Warn("push delivery failed",
					zap.String("endpoint", sub.Endpoint),
					zap.Int("status", status),
					zap.Error(err),
				)
				if status == http.StatusGone || status == http.StatusNotFound {
					if err := d.subscriberRepository.DeactivateSubscriptionByEndpoint(ctx, sub.Endpoint); err != nil {
						logging.Warn("failed to deactivate dead push endpoint",
							zap.String("endpoint", sub.Endpoint),
							zap.Error(err),
						)
					}
				}
				return
			}
			results[i] = true
		}(i, sub)
	}
	wg.Wait()

	for _, ok := range results {
		if ok {
			return true
		}
	}
	return false
}

// sendEmail converts transport errors into a boolean; email failures are
// counted, never propagated.
func (d *Dispatcher) sendEmail(toEmail string, subject string, body string) bool {
	if err := d.mailer.Send(toEmail, subject, body); err != nil {
		logging.Warn("email delivery failed",
			zap.String("to", toEmail),
			zap.Error(err),
		)
		return false
	}
	return true
}

func suggestionPushBody(recipes []domain.RecipeSuggestion, ingredients []string) string {
	var b strings.Builder
	for i, recipe := range recipes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, recipe.Title)
	}
	summary := ingredients
	suffix := ""
	if len(summary) > ingredientSummaryLimit {
		summary = summary[:ingredientSummaryLimit]
		suffix = "..."
	}
	fmt.Fprintf(&b, "Using: %s%s", strings.Join(summary, ", "), suffix)
	return b.String()
}

func fallbackPushBody(items []*entities.PerishableItem) string {
	names := make([]string, 0, fallbackItemLimit)
	for i, item := range items {
		if i >= fallbackItemLimit {
			break
		}
		names = append(names, item.Name)
	}
	body := strings.Join(names, ", ")
	if extra := len(items) - fallbackItemLimit; extra > 0 {
		body += fmt.Sprintf(" +%d more", extra)
	}
	return body + " expiring soon. Time to cook!"
}

func suggestionEmailBody(recipes []domain.RecipeSuggestion) string {
	var b strings.Builder
	b.WriteString("<h2>Recipe ideas for your expiring food</h2>")
	for _, recipe := range recipes {
		fmt.Fprintf(&b, "<h3>%s</h3><p>%s</p>", recipe.Title, recipe.Description)
		if len(recipe.IngredientsUsed) > 0 {
			fmt.Fprintf(&b, "<p>Uses: %s</p>", strings.Join(recipe.IngredientsUsed, ", "))
		}
	}
	return b.String()
}

func fallbackEmailBody(items []*entities.PerishableItem) string {
	var b strings.Builder
	b.WriteString("<h2>Food expiring soon</h2><ul>")
	for _, item := range items {
		fmt.Fprintf(&b, "<li>%s (expires %s)</li>", item.Name, item.ExpiryDate.Format("2006-01-02"))
	}
	b.WriteString("</ul><p>Use them before they go to waste!</p>")
	return b.String()
}
