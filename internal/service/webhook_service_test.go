package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/oracoesapp/oracoes-backend/internal/models"
)

type memoryEventStore struct {
	seen  map[string]bool
	calls int
	err   error
}

func newMemoryEventStore() *memoryEventStore {
	return &memoryEventStore{seen: make(map[string]bool)}
}

func (s *memoryEventStore) MarkProcessed(eventID, eventType string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

type memorySubscriptionStore struct {
	upserts  []*models.Subscription
	statuses map[string]string
}

func newMemorySubscriptionStore() *memorySubscriptionStore {
	return &memorySubscriptionStore{statuses: make(map[string]string)}
}

func (s *memorySubscriptionStore) Upsert(sub *models.Subscription) error {
	s.upserts = append(s.upserts, sub)
	s.statuses[sub.StripeSubscriptionID] = sub.Status
	return nil
}

func (s *memorySubscriptionStore) UpdateStatus(id, status string) error {
	s.statuses[id] = status
	return nil
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) SendSubscriptionConfirmation(email, planName string) error {
	m.sent = append(m.sent, email+"|"+planName)
	return nil
}

type webhookFixture struct {
	gateway *stubGateway
	events  *memoryEventStore
	subs    *memorySubscriptionStore
	mailer  *recordingMailer
	svc     *WebhookService
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	f := &webhookFixture{
		gateway: newStubGateway(),
		events:  newMemoryEventStore(),
		subs:    newMemorySubscriptionStore(),
		mailer:  &recordingMailer{},
	}
	f.svc = NewWebhookService(f.gateway, f.events, f.subs, f.mailer, zap.NewNop())
	return f
}

// eventPayload builds the event JSON the way Stripe sends it; EventData.Raw
// is filled from data.object during unmarshal and is not marshaled back.
func eventPayload(t *testing.T, id, eventType string, object interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(object)
	if err != nil {
		t.Fatalf("marshal event object: %v", err)
	}
	return []byte(fmt.Sprintf(`{"id":%q,"type":%q,"data":{"object":%s}}`, id, eventType, raw))
}

func TestProcess_SignatureFailureShortCircuits(t *testing.T) {
	f := newWebhookFixture(t)
	f.gateway.verifyErr = errors.New("no valid signature")

	payload := eventPayload(t, "evt_1", "checkout.session.completed", &stripe.CheckoutSession{ID: "cs_1"})
	err := f.svc.Process(payload, "t=1,v1=tampered")
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("Process error = %v, want ErrSignatureInvalid", err)
	}
	// No event code may run behind a failed signature, not even dedup.
	if f.events.calls != 0 {
		t.Errorf("dedup store touched %d times after signature failure, want 0", f.events.calls)
	}
	if len(f.subs.upserts) != 0 || len(f.mailer.sent) != 0 {
		t.Error("business logic ran after signature failure")
	}
}

func TestProcess_UnknownEventTypeAcknowledged(t *testing.T) {
	f := newWebhookFixture(t)

	payload := eventPayload(t, "evt_2", "customer.tax_id.created", map[string]string{"id": "txi_1"})
	if err := f.svc.Process(payload, "t=1,v1=good"); err != nil {
		t.Fatalf("Process returned %v for an unrecognized event type, want nil", err)
	}
}

func TestProcess_DuplicateDeliveryDispatchedOnce(t *testing.T) {
	f := newWebhookFixture(t)

	sub := &stripe.Subscription{
		ID:     "sub_1",
		Status: stripe.SubscriptionStatusActive,
		Items: &stripe.SubscriptionItemList{Data: []*stripe.SubscriptionItem{
			{Price: &stripe.Price{ID: "price_1QXapostolo4990brl"}},
		}},
	}
	payload := eventPayload(t, "evt_3", "customer.subscription.created", sub)

	for i := 0; i < 3; i++ {
		if err := f.svc.Process(payload, "t=1,v1=good"); err != nil {
			t.Fatalf("Process delivery %d failed: %v", i+1, err)
		}
	}

	if len(f.subs.upserts) != 1 {
		t.Errorf("subscription upserted %d times for 3 deliveries of one event, want 1", len(f.subs.upserts))
	}
}

func TestProcess_DedupStoreFailureIsFatal(t *testing.T) {
	f := newWebhookFixture(t)
	f.events.err = errors.New("connection refused")

	payload := eventPayload(t, "evt_4", "checkout.session.completed", &stripe.CheckoutSession{ID: "cs_1"})
	err := f.svc.Process(payload, "t=1,v1=good")
	if err == nil || errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("Process error = %v, want dedup store error", err)
	}
}

func TestProcess_CheckoutCompleted(t *testing.T) {
	f := newWebhookFixture(t)

	var grantedEmail string
	f.svc.SetEntitlementHook(func(email, priceID string, granted bool) {
		if granted {
			grantedEmail = email
		}
	})

	sess := &stripe.CheckoutSession{
		ID:              "cs_1",
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "fiel@example.com"},
		Subscription:    &stripe.Subscription{ID: "sub_1"},
		Metadata:        map[string]string{"priceId": "price_1QXapostolo4990brl"},
	}
	payload := eventPayload(t, "evt_5", "checkout.session.completed", sess)

	if err := f.svc.Process(payload, "t=1,v1=good"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(f.mailer.sent) != 1 || f.mailer.sent[0] != "fiel@example.com|Apóstolo" {
		t.Errorf("confirmation mail = %v, want [fiel@example.com|Apóstolo]", f.mailer.sent)
	}
	if f.subs.statuses["sub_1"] != models.SubscriptionStatusActive {
		t.Errorf("subscription status = %q, want active", f.subs.statuses["sub_1"])
	}
	if grantedEmail != "fiel@example.com" {
		t.Errorf("entitlement hook granted %q, want fiel@example.com", grantedEmail)
	}
}

func TestProcess_SubscriptionDeleted(t *testing.T) {
	f := newWebhookFixture(t)

	var revoked bool
	f.svc.SetEntitlementHook(func(email, priceID string, granted bool) {
		revoked = !granted
	})

	sub := &stripe.Subscription{
		ID:       "sub_1",
		Status:   stripe.SubscriptionStatusCanceled,
		Customer: &stripe.Customer{ID: "cus_1", Email: "fiel@example.com"},
	}
	payload := eventPayload(t, "evt_6", "customer.subscription.deleted", sub)

	if err := f.svc.Process(payload, "t=1,v1=good"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if f.subs.statuses["sub_1"] != models.SubscriptionStatusCanceled {
		t.Errorf("subscription status = %q, want canceled", f.subs.statuses["sub_1"])
	}
	if !revoked {
		t.Error("entitlement hook was not called with granted=false")
	}
}

func TestProcess_InvoicePaymentFailed(t *testing.T) {
	f := newWebhookFixture(t)

	invoice := &stripe.Invoice{Subscription: &stripe.Subscription{ID: "sub_1"}}
	payload := eventPayload(t, "evt_7", "invoice.payment_failed", invoice)

	if err := f.svc.Process(payload, "t=1,v1=good"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if f.subs.statuses["sub_1"] != models.SubscriptionStatusPastDue {
		t.Errorf("subscription status = %q, want past_due", f.subs.statuses["sub_1"])
	}
}

func TestProcess_NilMailerSkipsEmail(t *testing.T) {
	f := newWebhookFixture(t)
	f.svc = NewWebhookService(f.gateway, f.events, f.subs, nil, zap.NewNop())

	sess := &stripe.CheckoutSession{
		ID:              "cs_1",
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "fiel@example.com"},
		Metadata:        map[string]string{"priceId": "price_1QXdiscipulo2990brl"},
	}
	payload := eventPayload(t, "evt_8", "checkout.session.completed", sess)

	if err := f.svc.Process(payload, "t=1,v1=good"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
}
