package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/oracoesapp/oracoes-backend/internal/models"
	"github.com/oracoesapp/oracoes-backend/pkg/payment"
)

// WebhookEventStore deduplicates provider deliveries. MarkProcessed returns
// false when the event ID was already recorded.
type WebhookEventStore interface {
	MarkProcessed(eventID, eventType string) (bool, error)
}

// SubscriptionStore persists subscription state learned from webhooks.
type SubscriptionStore interface {
	Upsert(sub *models.Subscription) error
	UpdateStatus(stripeSubscriptionID, status string) error
}

// Mailer sends the post-checkout confirmation. A nil Mailer disables it.
type Mailer interface {
	SendSubscriptionConfirmation(email, planName string) error
}

// EntitlementHook is the seam where access granting/revocation attaches once
// the premium content system exists. Called after a checkout completes or a
// subscription is deleted.
type EntitlementHook func(customerEmail, priceID string, granted bool)

type WebhookService struct {
	gateway         payment.Gateway
	events          WebhookEventStore
	subscriptions   SubscriptionStore
	mailer          Mailer
	entitlementHook EntitlementHook
	logger          *zap.Logger
}

func NewWebhookService(
	gateway payment.Gateway,
	events WebhookEventStore,
	subscriptions SubscriptionStore,
	mailer Mailer,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		gateway:       gateway,
		events:        events,
		subscriptions: subscriptions,
		mailer:        mailer,
		logger:        logger,
	}
}

// SetEntitlementHook installs the entitlement extension point.
func (s *WebhookService) SetEntitlementHook(hook EntitlementHook) {
	s.entitlementHook = hook
}

// Process authenticates and dispatches one webhook delivery.
//
// Signature verification is the single authentication boundary: a payload that
// fails it is discarded before any event code runs. After that, per-event
// failures are logged but still acknowledged — Stripe retries on anything but
// a 2xx, and redelivering an event we half-processed is worse than logging it.
// Only a dedup-store failure bubbles up, because without the store we cannot
// promise idempotency.
func (s *WebhookService) Process(payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		s.logger.Warn("webhook signature verification failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	firstDelivery, err := s.events.MarkProcessed(event.ID, string(event.Type))
	if err != nil {
		return fmt.Errorf("webhook dedup store: %w", err)
	}
	if !firstDelivery {
		s.logger.Info("webhook event redelivered, skipping",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
		)
		return nil
	}

	if err := s.dispatch(&event); err != nil {
		s.logger.Error("webhook event handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
	}

	return nil
}

func (s *WebhookService) dispatch(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(event)
	case "customer.subscription.created":
		return s.handleSubscriptionChanged(event)
	case "customer.subscription.updated":
		return s.handleSubscriptionChanged(event)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(event)
	case "invoice.payment_succeeded":
		return s.handleInvoicePaymentSucceeded(event)
	case "invoice.payment_failed":
		return s.handleInvoicePaymentFailed(event)
	default:
		// New provider event types are accepted and ignored.
		s.logger.Info("webhook event type not handled", zap.String("event_type", string(event.Type)))
		return nil
	}
}

func (s *WebhookService) handleCheckoutCompleted(event *stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("parse checkout session: %w", err)
	}

	email := ""
	if sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}
	priceID := sess.Metadata["priceId"]

	s.logger.Info("checkout completed",
		zap.String("session_id", sess.ID),
		zap.String("price_id", priceID),
	)

	if sess.Subscription != nil {
		if err := s.subscriptions.UpdateStatus(sess.Subscription.ID, models.SubscriptionStatusActive); err != nil {
			s.logger.Warn("subscription status update failed",
				zap.String("subscription_id", sess.Subscription.ID),
				zap.Error(err),
			)
		}
	}

	if s.mailer != nil && email != "" {
		plan := planNameForPrice(priceID)
		if err := s.mailer.SendSubscriptionConfirmation(email, plan); err != nil {
			s.logger.Warn("confirmation email failed", zap.String("email", email), zap.Error(err))
		}
	}

	if s.entitlementHook != nil {
		s.entitlementHook(email, priceID, true)
	}

	return nil
}

func (s *WebhookService) handleSubscriptionChanged(event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("parse subscription: %w", err)
	}

	record := &models.Subscription{
		StripeSubscriptionID: sub.ID,
		Status:               mapSubscriptionStatus(sub),
		CurrentPeriodEnd:     time.Unix(sub.CurrentPeriodEnd, 0),
	}
	if sub.Customer != nil {
		record.StripeCustomerID = sub.Customer.ID
		record.CustomerEmail = sub.Customer.Email
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		record.PriceID = sub.Items.Data[0].Price.ID
	}

	if err := s.subscriptions.Upsert(record); err != nil {
		return fmt.Errorf("persist subscription %s: %w", sub.ID, err)
	}

	s.logger.Info("subscription state persisted",
		zap.String("subscription_id", sub.ID),
		zap.String("status", record.Status),
	)
	return nil
}

func (s *WebhookService) handleSubscriptionDeleted(event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("parse subscription: %w", err)
	}

	if err := s.subscriptions.UpdateStatus(sub.ID, models.SubscriptionStatusCanceled); err != nil {
		return fmt.Errorf("cancel subscription %s: %w", sub.ID, err)
	}

	email := ""
	priceID := ""
	if sub.Customer != nil {
		email = sub.Customer.Email
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceID = sub.Items.Data[0].Price.ID
	}
	if s.entitlementHook != nil {
		s.entitlementHook(email, priceID, false)
	}

	s.logger.Info("subscription canceled", zap.String("subscription_id", sub.ID))
	return nil
}

func (s *WebhookService) handleInvoicePaymentSucceeded(event *stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("parse invoice: %w", err)
	}

	// One-time invoices have no subscription; nothing to do for those.
	if invoice.Subscription == nil {
		return nil
	}

	if err := s.subscriptions.UpdateStatus(invoice.Subscription.ID, models.SubscriptionStatusActive); err != nil {
		return fmt.Errorf("reactivate subscription %s: %w", invoice.Subscription.ID, err)
	}

	s.logger.Info("invoice payment succeeded", zap.String("subscription_id", invoice.Subscription.ID))
	return nil
}

func (s *WebhookService) handleInvoicePaymentFailed(event *stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("parse invoice: %w", err)
	}

	if invoice.Subscription == nil {
		return nil
	}

	// Stripe keeps retrying the payment and eventually sends
	// customer.subscription.deleted, so only the status is recorded here.
	if err := s.subscriptions.UpdateStatus(invoice.Subscription.ID, models.SubscriptionStatusPastDue); err != nil {
		return fmt.Errorf("mark subscription past due %s: %w", invoice.Subscription.ID, err)
	}

	s.logger.Warn("invoice payment failed", zap.String("subscription_id", invoice.Subscription.ID))
	return nil
}

func mapSubscriptionStatus(sub stripe.Subscription) string {
	switch sub.Status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return models.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return models.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return models.SubscriptionStatusCanceled
	default:
		return string(sub.Status)
	}
}

func planNameForPrice(priceID string) string {
	for _, plan := range models.SubscriptionPlans {
		if plan.PriceID == priceID {
			return plan.Name
		}
	}
	return FallbackPlanName
}
