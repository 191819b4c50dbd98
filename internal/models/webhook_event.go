package models

import "time"

// WebhookEvent records every provider event we have already processed. Stripe
// delivers at least once, so the unique event ID is what keeps redelivered
// events from running business logic twice.
type WebhookEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EventID    string    `json:"event_id" gorm:"uniqueIndex;not null"`
	Type       string    `json:"type" gorm:"not null"`
	ReceivedAt time.Time `json:"received_at"`
}
