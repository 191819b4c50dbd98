package payment

import (
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

// Gateway is the thin slice of the Stripe API this service consumes. Handlers
// depend on the interface so tests can swap in a stub instead of the live API.
type Gateway interface {
	CreateSubscriptionCheckout(priceID string) (*stripe.CheckoutSession, error)
	GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error)
	VerifyWebhook(payload []byte, signature string) (stripe.Event, error)
}

type StripeService struct {
	api           *client.API
	webhookSecret string
	publicURL     string
}

func NewStripeService(secretKey, webhookSecret, publicURL string) *StripeService {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeService{
		api:           api,
		webhookSecret: webhookSecret,
		publicURL:     publicURL,
	}
}

// CreateSubscriptionCheckout opens a subscription-mode checkout session for a
// catalog price. The success URL carries Stripe's session-id placeholder so the
// success page can verify the session it was redirected back with.
func (s *StripeService) CreateSubscriptionCheckout(priceID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
			"pix",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:               stripe.String(s.publicURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:                stripe.String(s.publicURL + "/?canceled=true"),
		AllowPromotionCodes:      stripe.Bool(true),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		CustomerCreation:         stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways)),
	}
	params.AddMetadata("priceId", priceID)

	return s.api.CheckoutSessions.New(params)
}

// GetCheckoutSession re-fetches a session by ID with the customer and line
// items expanded, so the verifier can normalize email and plan name.
func (s *StripeService) GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("customer")
	params.AddExpand("line_items")

	return s.api.CheckoutSessions.Get(sessionID, params)
}

// VerifyWebhook authenticates a raw webhook delivery against the signing
// secret. Version mismatches are tolerated; Stripe keeps event payloads
// backwards compatible.
func (s *StripeService) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
}
