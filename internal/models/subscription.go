package models

import "time"

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription mirrors the provider-side subscription state we learn about
// through webhooks. Stripe remains the source of truth; this record exists so
// entitlement checks don't need a provider round-trip.
type Subscription struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	StripeSubscriptionID string    `json:"stripe_subscription_id" gorm:"uniqueIndex;not null"`
	StripeCustomerID     string    `json:"stripe_customer_id"`
	CustomerEmail        string    `json:"customer_email"`
	PriceID              string    `json:"price_id"`
	Status               string    `json:"status" gorm:"not null"`
	CurrentPeriodEnd     time.Time `json:"current_period_end"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
