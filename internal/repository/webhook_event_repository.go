package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oracoesapp/oracoes-backend/internal/models"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{
		db: db,
	}
}

// MarkProcessed inserts the event ID, ignoring the conflict when Stripe
// redelivers. The returned bool is true only for the first delivery.
func (r *WebhookEventRepository) MarkProcessed(eventID, eventType string) (bool, error) {
	event := models.WebhookEvent{
		EventID:    eventID,
		Type:       eventType,
		ReceivedAt: time.Now().UTC(),
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&event)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
