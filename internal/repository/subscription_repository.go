package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oracoesapp/oracoes-backend/internal/models"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{
		db: db,
	}
}

// Upsert writes the subscription state keyed by the provider's subscription
// ID. Webhooks can arrive out of order, so the row is always overwritten with
// whatever the latest delivery says.
func (r *SubscriptionRepository) Upsert(sub *models.Subscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id",
			"customer_email",
			"price_id",
			"status",
			"current_period_end",
			"updated_at",
		}),
	}).Create(sub).Error
}

func (r *SubscriptionRepository) UpdateStatus(stripeSubscriptionID, status string) error {
	return r.db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeSubscriptionID).
		Update("status", status).Error
}

func (r *SubscriptionRepository) GetByStripeID(stripeSubscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("stripe_subscription_id = ?", stripeSubscriptionID).First(&sub).Error
	return &sub, err
}
