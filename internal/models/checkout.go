package models

type CreateCheckoutSessionRequest struct {
	PriceID string `json:"priceId" validate:"required"`
}

type CreateCheckoutSessionResponse struct {
	ID string `json:"id"`
}

// CheckoutSessionDetails is the normalized view of a Stripe checkout session
// that the success page displays. Nothing here is stored locally; every read
// re-fetches the session from Stripe by ID.
type CheckoutSessionDetails struct {
	SessionID      string `json:"sessionId"`
	CustomerEmail  string `json:"customerEmail"`
	PlanName       string `json:"planName"`
	PaymentStatus  string `json:"paymentStatus"`
	SubscriptionID string `json:"subscriptionId"`
	AmountTotal    int64  `json:"amountTotal"`
	Currency       string `json:"currency"`
}
